package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/backmassage/ffcmd/internal/options"
)

func TestMerge(t *testing.T) {
	tests := map[string]struct {
		targets *TargetMap
		flag    string
		want    []string
	}{
		"nil map": {
			targets: nil,
			flag:    InputFlag,
			want:    []string{},
		},
		"options before each target with flag": {
			targets: NewTargetMap(
				Target{"a.mp4", options.Delimited("-ss 10")},
				Target{"b.mp4", options.Delimited("-t 5")},
			),
			flag: InputFlag,
			want: []string{"-ss", "10", "-i", "a.mp4", "-t", "5", "-i", "b.mp4"},
		},
		"no flag": {
			targets: NewTargetMap(Target{"out.mkv", options.Delimited("-c copy")}),
			want:    []string{"-c", "copy", "out.mkv"},
		},
		"absent target never gets the flag": {
			targets: NewTargetMap(Target{NoTarget, options.Delimited("-re")}),
			flag:    InputFlag,
			want:    []string{"-re"},
		},
		"absent target with absent options": {
			targets: NewTargetMap(Target{NoTarget, options.Absent()}),
			flag:    InputFlag,
			want:    []string{},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Merge(test.targets, test.flag)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestMergeLength(t *testing.T) {
	targets := NewTargetMap(
		Target{"a", options.Delimited("-x 1 -y 2")},
		Target{NoTarget, options.Sequence("-z")},
		Target{"b", options.Absent()},
	)

	for _, flag := range []string{"", InputFlag} {
		got, err := Merge(targets, flag)
		require.NoError(t, err)

		want := 0
		for _, e := range targets.Entries() {
			opts, err := options.Normalize(e.Options, false)
			require.NoError(t, err)
			want += len(opts)
			if e.ID != NoTarget {
				want++
				if flag != "" {
					want++
				}
			}
		}
		assert.Len(t, got, want, "flag=%q", flag)
	}
}

func TestTargetMapSetKeepsPosition(t *testing.T) {
	m := NewTargetMap(
		Target{"a", options.Delimited("-x")},
		Target{"b", options.Delimited("-y")},
	)
	m.Set("a", options.Delimited("-z"))

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)

	got, err := Merge(m, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"-z", "a", "-y", "b"}, got)

	spec, ok := m.Get("b")
	require.True(t, ok)
	assert.Equal(t, options.KindDelimited, spec.Kind())
	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestTargetMapZeroValue(t *testing.T) {
	var m TargetMap
	m.Set("x", options.Absent())
	assert.Equal(t, 1, m.Len())

	var nilMap *TargetMap
	assert.Equal(t, 0, nilMap.Len())
	assert.Nil(t, nilMap.Entries())
}

func TestTargetMapUnmarshalYAML(t *testing.T) {
	doc := `
inputs:
  ~: -f lavfi
  "/tmp/b in.mp4": [-ss, "10"]
  /tmp/a.mp4:
`
	var job struct {
		Inputs *TargetMap `yaml:"inputs"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(doc), &job))

	got, err := Merge(job.Inputs, InputFlag)
	require.NoError(t, err)
	assert.Equal(t, []string{"-f", "lavfi", "-ss", "10", "-i", "/tmp/b in.mp4", "-i", "/tmp/a.mp4"}, got)
}

func TestTargetMapUnmarshalYAMLErrors(t *testing.T) {
	tests := map[string]string{
		"not a mapping":  "inputs: [a, b]",
		"duplicate key":  "inputs:\n  a.mp4: -y\n  a.mp4: -n\n",
		"bad options":    "inputs:\n  a.mp4: {x: y}\n",
		"non scalar key": "inputs:\n  ? [a]\n  : -y\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			var job struct {
				Inputs *TargetMap `yaml:"inputs"`
			}
			assert.Error(t, yaml.Unmarshal([]byte(doc), &job))
		})
	}
}
