// Package term resolves whether log output should carry ANSI colors.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/ffcmd/internal/config"
)

// ColorEnabled resolves mode against f: always and never are absolute, auto
// enables colors only on a TTY when NO_COLOR (https://no-color.org) is unset
// and TERM is not "dumb".
func ColorEnabled(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return IsTerminal(f) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
