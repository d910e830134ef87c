package probe

import (
	"github.com/backmassage/ffcmd/internal/ffmpeg"
	"github.com/backmassage/ffcmd/internal/options"
)

// DefaultExecutable is resolved through PATH when no executable is given.
const DefaultExecutable = "ffprobe"

// New compiles an ffprobe invocation. ffprobe takes no outputs, so only
// global options and inputs are accepted. The returned Command decodes
// structured stdout in Execute; opts are applied after those defaults.
func New(executable string, global options.Spec, inputs *ffmpeg.TargetMap, opts ...ffmpeg.Option) (*ffmpeg.Command, error) {
	if executable == "" {
		executable = DefaultExecutable
	}
	opts = append([]ffmpeg.Option{
		ffmpeg.WithName("FFprobe"),
		ffmpeg.WithDecoding(ffmpeg.DecodeStructured),
	}, opts...)

	return ffmpeg.New(ffmpeg.Spec{
		Executable: executable,
		Global:     global,
		Inputs:     inputs,
	}, opts...)
}
