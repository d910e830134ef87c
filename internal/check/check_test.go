package check

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/ffcmd/internal/ffmpeg"
)

// fakeTool writes an executable that prints banner on stdout and exits with
// code.
func fakeTool(t *testing.T, name, banner string, code int) string {
	t.Helper()

	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' '%s'\nprintf 'built with gcc\\n'\nexit %d\n", banner, code)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) add(level, format string, args ...interface{}) {
	r.lines = append(r.lines, level+": "+fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Info(f string, a ...interface{})    { r.add("INFO", f, a...) }
func (r *recordingLogger) Success(f string, a ...interface{}) { r.add("SUCCESS", f, a...) }
func (r *recordingLogger) Warn(f string, a ...interface{})    { r.add("WARN", f, a...) }
func (r *recordingLogger) Error(f string, a ...interface{})   { r.add("ERROR", f, a...) }

func TestParseVersion(t *testing.T) {
	tests := map[string]struct {
		output  string
		want    ToolVersion
		wantErr error
	}{
		"release": {
			output: "ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers\nbuilt with gcc 13",
			want:   ToolVersion{Tool: "ffmpeg", Raw: "6.1.1", Major: 6, Minor: 1},
		},
		"distribution build": {
			output: "ffmpeg version 4.4.2-0ubuntu0.22.04.1 Copyright (c) 2000-2021 the FFmpeg developers",
			want:   ToolVersion{Tool: "ffmpeg", Raw: "4.4.2-0ubuntu0.22.04.1", Major: 4, Minor: 4},
		},
		"n-prefixed ffprobe": {
			output: "ffprobe version n7.0 Copyright (c) 2007-2024 the FFmpeg developers",
			want:   ToolVersion{Tool: "ffprobe", Raw: "n7.0", Major: 7, Minor: 0},
		},
		"git snapshot": {
			output:  "ffmpeg version N-112345-gabcdef Copyright (c) 2000-2024 the FFmpeg developers",
			want:    ToolVersion{Tool: "ffmpeg", Raw: "N-112345-gabcdef"},
			wantErr: ErrUnknownVersion,
		},
		"foreign banner": {
			output:  "avconv version 12.3, Copyright (c) 2000-2018 the Libav developers",
			wantErr: ErrUnknownVersion,
		},
		"empty": {
			wantErr: ErrUnknownVersion,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseVersion([]byte(test.output))
			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.want, got)
		})
	}
}

func TestToolVersionAtLeast(t *testing.T) {
	v := ToolVersion{Major: 4, Minor: 4}

	assert.True(t, v.AtLeast(4, 4))
	assert.True(t, v.AtLeast(4, 2))
	assert.True(t, v.AtLeast(3, 9))
	assert.False(t, v.AtLeast(4, 5))
	assert.False(t, v.AtLeast(5, 0))
}

func TestRequireVersion(t *testing.T) {
	path := fakeTool(t, "ffmpeg", "ffmpeg version 4.4.2 Copyright (c) 2000-2021 the FFmpeg developers", 0)

	tests := map[string]struct {
		minimum string
		wantErr error
	}{
		"no minimum":    {minimum: ""},
		"older minimum": {minimum: "3.4"},
		"same minor":    {minimum: "4.4"},
		"patch ignored": {minimum: "4.4.9"},
		"major only":    {minimum: "4"},
		"v prefix":      {minimum: "v4.0"},
		"newer minor":   {minimum: "4.5", wantErr: ErrUnsupportedVersion},
		"newer major":   {minimum: "5", wantErr: ErrUnsupportedVersion},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := RequireVersion(context.Background(), path, test.minimum)
			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, "4.4.2", v.Raw)
		})
	}

	_, err := RequireVersion(context.Background(), path, "four")
	assert.Error(t, err)
}

func TestVersionFailures(t *testing.T) {
	t.Run("missing executable", func(t *testing.T) {
		_, err := Version(context.Background(), filepath.Join(t.TempDir(), "ffmpeg"))
		var nf *ffmpeg.ExecutableNotFoundError
		assert.True(t, errors.As(err, &nf))
	})

	t.Run("non-zero exit", func(t *testing.T) {
		path := fakeTool(t, "ffmpeg", "ffmpeg version 6.0 Copyright", 1)
		_, err := Version(context.Background(), path)
		var rerr *ffmpeg.RuntimeError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, 1, rerr.ExitCode)
	})
}

func TestRun(t *testing.T) {
	good := fakeTool(t, "ffmpeg", "ffmpeg version 6.1 Copyright (c) the FFmpeg developers", 0)
	old := fakeTool(t, "ffprobe", "ffprobe version 3.4 Copyright (c) the FFmpeg developers", 0)
	snapshot := fakeTool(t, "ffprobe", "ffprobe version N-1-gabc Copyright (c) the FFmpeg developers", 0)

	t.Run("all supported", func(t *testing.T) {
		log := &recordingLogger{}
		err := Run(context.Background(), []Tool{{"ffmpeg", good}}, "4.0", log)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"INFO: === System Check ===",
			"SUCCESS: ffmpeg: 6.1 (" + good + ")",
		}, log.lines)
	})

	t.Run("outdated tool", func(t *testing.T) {
		log := &recordingLogger{}
		err := Run(context.Background(), []Tool{{"ffprobe", old}, {"ffmpeg", good}}, "4.0", log)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
		require.Len(t, log.lines, 3)
		assert.Equal(t, "ERROR: ffprobe: 3.4 is not supported, upgrade to 4.0+", log.lines[1])
		assert.Contains(t, log.lines[2], "SUCCESS: ffmpeg")
	})

	t.Run("unknown version only warns", func(t *testing.T) {
		log := &recordingLogger{}
		err := Run(context.Background(), []Tool{{"ffprobe", snapshot}}, "4.0", log)
		assert.NoError(t, err)
		assert.Contains(t, log.lines[1], "WARN: ffprobe found at")
	})

	t.Run("missing tool", func(t *testing.T) {
		log := &recordingLogger{}
		err := Run(context.Background(), []Tool{{"ffmpeg", "ffcmd-missing-ffmpeg"}}, "", log)
		var nf *ffmpeg.ExecutableNotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, "ERROR: ffmpeg not found (ffcmd-missing-ffmpeg)", log.lines[1])
	})
}
