package ffmpeg

import "strings"

// JoinArgs renders args as a single display string. Arguments that are empty
// or contain a space or tab are wrapped in double quotes; embedded double
// quotes are backslash-escaped and backslashes that precede a quote are
// doubled. The rendering follows the Microsoft C runtime argument rules so it
// reads the same on every platform. It is for display only and is never parsed
// back into argv.
func JoinArgs(args []string) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		quoteArg(&b, arg)
	}
	return b.String()
}

func quoteArg(b *strings.Builder, arg string) {
	needQuote := arg == "" || strings.ContainsAny(arg, " \t")
	if needQuote {
		b.WriteByte('"')
	}

	backslashes := 0
	for _, r := range arg {
		switch r {
		case '\\':
			backslashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, backslashes*2))
			backslashes = 0
			b.WriteString(`\"`)
		default:
			if backslashes > 0 {
				b.WriteString(strings.Repeat(`\`, backslashes))
				backslashes = 0
			}
			b.WriteRune(r)
		}
	}

	if backslashes > 0 {
		b.WriteString(strings.Repeat(`\`, backslashes))
	}
	if needQuote {
		// Backslashes right before the closing quote must be doubled.
		b.WriteString(strings.Repeat(`\`, backslashes))
		b.WriteByte('"')
	}
}
