package ffmpeg

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/backmassage/ffcmd/internal/options"
)

// NoTarget is the absent target identifier. Its options are emitted without a
// positional flag and without a target token, which lets callers inject
// options that apply to the next declared target (or trail the command line)
// without declaring a spurious input or output.
const NoTarget = ""

// Target pairs a target identifier (file path, URL, device, pipe:) with the
// options that precede it on the command line.
type Target struct {
	ID      string
	Options options.Spec
}

// TargetMap is an insertion-ordered mapping from target identifier to its
// options. Keys are unique; setting an existing key replaces its options and
// keeps its original position.
type TargetMap struct {
	ids  []string
	opts map[string]options.Spec
}

// NewTargetMap builds a TargetMap from targets in order.
func NewTargetMap(targets ...Target) *TargetMap {
	m := &TargetMap{opts: make(map[string]options.Spec, len(targets))}
	for _, t := range targets {
		m.Set(t.ID, t.Options)
	}
	return m
}

// Set adds id with opts, or replaces the options of an existing id.
func (m *TargetMap) Set(id string, opts options.Spec) *TargetMap {
	if m.opts == nil {
		m.opts = map[string]options.Spec{}
	}
	if _, ok := m.opts[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.opts[id] = opts
	return m
}

// Get returns the options stored for id.
func (m *TargetMap) Get(id string) (options.Spec, bool) {
	if m == nil {
		return options.Spec{}, false
	}
	s, ok := m.opts[id]
	return s, ok
}

// Len returns the number of targets. A nil map is empty.
func (m *TargetMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}

// Entries returns the targets in insertion order.
func (m *TargetMap) Entries() []Target {
	if m == nil {
		return nil
	}
	out := make([]Target, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, Target{ID: id, Options: m.opts[id]})
	}
	return out
}

// Merge flattens targets into argv tokens. For every entry, in insertion
// order, it emits the entry's normalized options, then (unless the identifier
// is NoTarget) positionalFlag when non-empty, then the identifier itself.
// A nil map yields no tokens.
func Merge(targets *TargetMap, positionalFlag string) ([]string, error) {
	merged := []string{}
	for _, t := range targets.Entries() {
		opts, err := options.Normalize(t.Options, false)
		if err != nil {
			return nil, fmt.Errorf("options for target %q: %w", t.ID, err)
		}
		merged = append(merged, opts...)

		if t.ID == NoTarget {
			continue
		}
		if positionalFlag != "" {
			merged = append(merged, positionalFlag)
		}
		merged = append(merged, t.ID)
	}
	return merged, nil
}

// UnmarshalYAML decodes a YAML mapping into the map, keeping document order.
// A null key (~ or null) becomes NoTarget. Duplicate keys are rejected.
func (m *TargetMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: targets must be a mapping of target to options", node.Line)
	}

	decoded := NewTargetMap()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: target must be a scalar", keyNode.Line)
		}

		id := keyNode.Value
		if keyNode.ShortTag() == "!!null" {
			id = NoTarget
		}
		if _, dup := decoded.Get(id); dup {
			return fmt.Errorf("line %d: duplicate target %q", keyNode.Line, id)
		}

		var spec options.Spec
		if err := valueNode.Decode(&spec); err != nil {
			return fmt.Errorf("target %q: %w", id, err)
		}
		decoded.Set(id, spec)
	}

	*m = *decoded
	return nil
}
