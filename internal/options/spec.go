package options

import (
	"errors"
	"fmt"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"
)

// Kind identifies which shape a Spec holds.
type Kind int

const (
	KindAbsent    Kind = iota // No options.
	KindDelimited             // One shell-quoted string.
	KindSequence              // Pre-split tokens.
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindDelimited:
		return "delimited"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Spec is an option specification for the global position or for a single
// input/output target. The zero value is Absent.
type Spec struct {
	kind   Kind
	line   string
	tokens []string
}

// Absent returns a Spec carrying no options.
func Absent() Spec { return Spec{} }

// Delimited returns a Spec that is tokenized with shell word rules.
func Delimited(line string) Spec {
	return Spec{kind: KindDelimited, line: line}
}

// Sequence returns a Spec whose elements are used as individual tokens.
// The slice is copied.
func Sequence(tokens ...string) Spec {
	return Spec{kind: KindSequence, tokens: append([]string{}, tokens...)}
}

// Kind reports the shape of s.
func (s Spec) Kind() Kind { return s.kind }

// IsAbsent reports whether s carries no options.
func (s Spec) IsAbsent() bool { return s.kind == KindAbsent }

// ErrMalformed is matched by every error Normalize returns for bad quoting.
var ErrMalformed = errors.New("malformed option syntax")

// MalformedError reports an option string the tokenizer could not split,
// typically because of an unbalanced quote.
type MalformedError struct {
	Input string
	Err   error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed option syntax %q: %v", e.Input, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformed) hold for every MalformedError.
func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// Split tokenizes a single option string with POSIX shell word rules:
// whitespace separates tokens, quoted substrings keep embedded whitespace and
// lose their quotes, and backslash escapes the next rune. There is no comment
// syntax, so '#' is an ordinary character anywhere in a word ("-color #ffffff"
// yields two tokens). Unterminated quotes and a trailing backslash are errors.
func Split(line string) ([]string, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return nil, &MalformedError{Input: line, Err: err}
	}
	if tokens == nil {
		tokens = []string{}
	}
	return tokens, nil
}

// Normalize converts s into an ordered token slice. Sequence elements are
// copied verbatim unless flatten is set, in which case each element is split
// independently and the results are concatenated in element order.
func Normalize(s Spec, flatten bool) ([]string, error) {
	switch s.kind {
	case KindAbsent:
		return []string{}, nil
	case KindDelimited:
		return Split(s.line)
	case KindSequence:
		if !flatten {
			return append([]string{}, s.tokens...), nil
		}
		out := make([]string, 0, len(s.tokens))
		for _, phrase := range s.tokens {
			tokens, err := Split(phrase)
			if err != nil {
				return nil, err
			}
			out = append(out, tokens...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown option spec kind %v", s.kind)
	}
}

// UnmarshalYAML decodes null as Absent, a scalar as Delimited and a sequence
// of scalars as Sequence.
func (s *Spec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*s = Absent()
			return nil
		}
		*s = Delimited(node.Value)
		return nil
	case yaml.SequenceNode:
		var tokens []string
		if err := node.Decode(&tokens); err != nil {
			return fmt.Errorf("line %d: option sequence must contain only strings: %w", node.Line, err)
		}
		*s = Sequence(tokens...)
		return nil
	case yaml.AliasNode:
		return s.UnmarshalYAML(node.Alias)
	default:
		return fmt.Errorf("line %d: options must be null, a string or a list of strings", node.Line)
	}
}
