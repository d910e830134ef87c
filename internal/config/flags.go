package config

import (
	"github.com/alecthomas/kingpin/v2"
)

// RegisterFlags binds the global flags to cfg. Every flag can also be set
// through an FFCMD_* environment variable.
func RegisterFlags(app *kingpin.Application, cfg *Config) {
	app.Flag("ffmpeg", "ffmpeg executable name or path.").
		Envar("FFCMD_FFMPEG").Default(cfg.FFmpegPath).StringVar(&cfg.FFmpegPath)
	app.Flag("ffprobe", "ffprobe executable name or path.").
		Envar("FFCMD_FFPROBE").Default(cfg.FFprobePath).StringVar(&cfg.FFprobePath)
	app.Flag("min-version", "Minimum accepted tool version (major.minor).").
		Envar("FFCMD_MIN_VERSION").StringVar(&cfg.MinVersion)
	app.Flag("wait-delay", "Grace period between SIGTERM and kill on cancellation.").
		Envar("FFCMD_WAIT_DELAY").Default(cfg.WaitDelay.String()).DurationVar(&cfg.WaitDelay)

	app.Flag("debug", "Enable debug logging.").Short('v').
		Envar("FFCMD_DEBUG").BoolVar(&cfg.Debug)
	app.Flag("no-log", "Disable logging.").
		Envar("FFCMD_NO_LOG").BoolVar(&cfg.NoLog)
	app.Flag("logger", "Log format.").
		Envar("FFCMD_LOGGER").Default(string(cfg.LogFormat)).
		EnumVar((*string)(&cfg.LogFormat), string(LogFormatText), string(LogFormatJSON))
	app.Flag("color", "Colored logs: auto, always or never.").
		Envar("FFCMD_COLOR").Default(string(cfg.ColorMode)).
		EnumVar((*string)(&cfg.ColorMode), string(ColorAuto), string(ColorAlways), string(ColorNever))
	app.Flag("log-file", "Append logs to this file.").Short('l').
		Envar("FFCMD_LOG_FILE").StringVar(&cfg.LogFile)
}
