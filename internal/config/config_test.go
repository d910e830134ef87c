package config

import (
	"testing"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, 5*time.Second, cfg.WaitDelay)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
	assert.False(t, cfg.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate  func(c *Config)
		wantErr bool
	}{
		"defaults":             {mutate: func(c *Config) {}},
		"json logs":            {mutate: func(c *Config) { c.LogFormat = LogFormatJSON }},
		"unknown log format":   {mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		"empty log format":     {mutate: func(c *Config) { c.LogFormat = "" }, wantErr: true},
		"never color":          {mutate: func(c *Config) { c.ColorMode = ColorNever }},
		"unknown color mode":   {mutate: func(c *Config) { c.ColorMode = "sometimes" }, wantErr: true},
		"blank ffmpeg path":    {mutate: func(c *Config) { c.FFmpegPath = "  " }, wantErr: true},
		"blank ffprobe path":   {mutate: func(c *Config) { c.FFprobePath = "" }, wantErr: true},
		"negative wait delay":  {mutate: func(c *Config) { c.WaitDelay = -time.Second }, wantErr: true},
		"zero wait delay":      {mutate: func(c *Config) { c.WaitDelay = 0 }},
		"min version prefixed": {mutate: func(c *Config) { c.MinVersion = " v4.2" }},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.mutate(&cfg)

			err := cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNormalizesMinVersion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinVersion = " v4.2 "
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "4.2", cfg.MinVersion)
}

func TestRegisterFlags(t *testing.T) {
	tests := map[string]struct {
		args []string
		env  map[string]string
		want func() Config
	}{
		"defaults": {
			want: DefaultConfig,
		},
		"flags": {
			args: []string{
				"--ffmpeg", "/opt/ffmpeg/bin/ffmpeg",
				"--ffprobe", "/opt/ffmpeg/bin/ffprobe",
				"--min-version", "4.4",
				"--wait-delay", "250ms",
				"--debug", "--logger", "json", "--color", "never",
				"--log-file", "/tmp/ffcmd.log",
			},
			want: func() Config {
				c := DefaultConfig()
				c.FFmpegPath = "/opt/ffmpeg/bin/ffmpeg"
				c.FFprobePath = "/opt/ffmpeg/bin/ffprobe"
				c.MinVersion = "4.4"
				c.WaitDelay = 250 * time.Millisecond
				c.Debug = true
				c.LogFormat = LogFormatJSON
				c.ColorMode = ColorNever
				c.LogFile = "/tmp/ffcmd.log"
				return c
			},
		},
		"environment": {
			env: map[string]string{
				"FFCMD_FFMPEG": "ffmpeg7",
				"FFCMD_COLOR":  "always",
				"FFCMD_DEBUG":  "true",
			},
			want: func() Config {
				c := DefaultConfig()
				c.FFmpegPath = "ffmpeg7"
				c.ColorMode = ColorAlways
				c.Debug = true
				return c
			},
		},
		"flags win over environment": {
			args: []string{"--ffmpeg", "ffmpeg6"},
			env:  map[string]string{"FFCMD_FFMPEG": "ffmpeg7"},
			want: func() Config {
				c := DefaultConfig()
				c.FFmpegPath = "ffmpeg6"
				return c
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			cfg := DefaultConfig()
			app := kingpin.New("ffcmd", "test")
			RegisterFlags(app, &cfg)

			_, err := app.Parse(test.args)
			require.NoError(t, err)
			assert.Equal(t, test.want(), cfg)
		})
	}
}

func TestRegisterFlagsRejectsUnknownEnum(t *testing.T) {
	cfg := DefaultConfig()
	app := kingpin.New("ffcmd", "test")
	RegisterFlags(app, &cfg)

	_, err := app.Parse([]string{"--logger", "xml"})
	assert.Error(t, err)
}
