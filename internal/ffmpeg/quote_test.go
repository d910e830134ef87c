package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinArgs(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"plain":              {[]string{"tool", "-i", "in", "out"}, "tool -i in out"},
		"space":              {[]string{"tool", "-i", "a b", "out"}, `tool -i "a b" out`},
		"tab":                {[]string{"a\tb"}, "\"a\tb\""},
		"empty":              {[]string{"tool", ""}, `tool ""`},
		"embedded quote":     {[]string{`say "hi"`}, `"say \"hi\""`},
		"quote no space":     {[]string{`a"b`}, `a\"b`},
		"backslash":          {[]string{`C:\path\file`}, `C:\path\file`},
		"backslash at end":   {[]string{`dir with space\`}, `"dir with space\\"`},
		"backslash + quote":  {[]string{`a\"b`}, `a\\\"b`},
		"single quotes kept": {[]string{"timecode='09:57'"}, "timecode='09:57'"},
		"nothing":            {nil, ""},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, JoinArgs(test.args))
		})
	}
}
