package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/backmassage/ffcmd/internal/display"
	"github.com/backmassage/ffcmd/internal/probe"
)

// ProbeCommand inspects a media file with ffprobe.
type ProbeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	path   string
	asJSON bool
}

// NewProbeCommand returns the probe command.
func NewProbeCommand(rootCmd *RootCommand, app *kingpin.Application) *ProbeCommand {
	c := &ProbeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("probe", "Summarize a media file's container and streams.")
	c.Cmd.Arg("file", "Media file or URL.").Required().StringVar(&c.path)
	c.Cmd.Flag("json", "Print ffprobe's JSON document, keys in ffprobe order.").BoolVar(&c.asJSON)

	return c
}

func (c *ProbeCommand) Name() string { return c.Cmd.FullCommand() }

func (c *ProbeCommand) Run(ctx context.Context) error {
	executable := c.rootCmd.Config.FFprobePath
	if err := c.rootCmd.requireVersion(ctx, executable); err != nil {
		return err
	}

	m, err := probe.Inspect(ctx, executable, c.path, c.rootCmd.commandOptions()...)
	if err != nil {
		return err
	}
	if c.asJSON {
		return writeJSON(c.rootCmd.Stdout, m.Raw)
	}
	return writeSummary(c.rootCmd.Stdout, m)
}

func writeSummary(w io.Writer, m *probe.Media) error {
	var b strings.Builder
	line := func(label, format string, args ...interface{}) {
		fmt.Fprintf(&b, "%-10s %s\n", label+":", fmt.Sprintf(format, args...))
	}

	line("File", "%s", m.Format.Filename)
	line("Container", "%s", m.Format.Name)
	line("Duration", "%s", display.FormatDuration(m.Format.Duration))
	line("Size", "%s", display.FormatBytes(m.Format.Size))
	line("Bit rate", "%s", display.FormatBitRate(m.Format.BitRate))

	if v := m.Video; v != nil {
		scan := "progressive"
		if m.IsInterlaced() {
			scan = "interlaced"
		}
		line("Video", "#%d %s, %s, %s, %s, %s", v.Index, v.Codec, m.Resolution(),
			m.DynamicRange(), scan, display.FormatBitRate(m.VideoBitRate()))
	}
	for _, a := range m.Audio {
		line("Audio", "#%d %s, %d ch, %d Hz, %s%s", a.Index, a.Codec, a.Channels, a.SampleRate,
			orUnknown(a.Language), flag(a.Default, ", default"))
	}
	for _, s := range m.Subtitles {
		line("Subtitle", "#%d %s, %s%s", s.Index, s.Codec, orUnknown(s.Language), flag(s.Bitmap, ", bitmap"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func orUnknown(s string) string {
	if s == "" {
		return "und"
	}
	return s
}

func flag(on bool, s string) string {
	if on {
		return s
	}
	return ""
}
