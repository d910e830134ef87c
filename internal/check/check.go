// Package check provides tool diagnostics (the check subcommand) and the
// minimum-version gate for ffmpeg and ffprobe.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/backmassage/ffcmd/internal/ffmpeg"
	"github.com/backmassage/ffcmd/internal/options"
)

// Sentinel errors returned by Version and RequireVersion.
var (
	ErrUnknownVersion     = errors.New("could not determine tool version")
	ErrUnsupportedVersion = errors.New("unsupported tool version")
)

// Logger is the minimal logging interface needed by Run.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// ToolVersion is the parsed banner of "<tool> -version".
type ToolVersion struct {
	Tool  string // "ffmpeg" or "ffprobe".
	Raw   string // Version token as printed, e.g. "n6.1.1" or "4.4.2-0ubuntu0.22.04.1".
	Major int
	Minor int
}

func (v ToolVersion) String() string { return v.Tool + " " + v.Raw }

// AtLeast reports whether v is major.minor or newer.
func (v ToolVersion) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

var bannerRe = regexp.MustCompile(`^(ffmpeg|ffprobe) version (\S+) Copyright`)

// numericRe pulls major.minor from version tokens such as "n6.1.1",
// "4.4.2-0ubuntu0.22.04.1" or "7.0".
var numericRe = regexp.MustCompile(`^n?(\d+)\.(\d+)`)

// ParseVersion parses the first line of "-version" output. Builds without a
// numeric release (git snapshots such as "N-112345-gabc") yield
// ErrUnknownVersion.
func ParseVersion(output []byte) (ToolVersion, error) {
	line := strings.TrimSpace(string(output))
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	m := bannerRe.FindStringSubmatch(line)
	if m == nil {
		return ToolVersion{}, fmt.Errorf("%w: unexpected banner %q", ErrUnknownVersion, line)
	}
	v := ToolVersion{Tool: m[1], Raw: m[2]}

	n := numericRe.FindStringSubmatch(v.Raw)
	if n == nil {
		return v, fmt.Errorf("%w: %s has no release number", ErrUnknownVersion, v)
	}
	v.Major, _ = strconv.Atoi(n[1])
	v.Minor, _ = strconv.Atoi(n[2])
	return v, nil
}

// Version runs "<executable> -version" and parses its banner.
func Version(ctx context.Context, executable string, opts ...ffmpeg.Option) (ToolVersion, error) {
	cmd, err := ffmpeg.New(ffmpeg.Spec{
		Executable: executable,
		Global:     options.Sequence("-version"),
	}, opts...)
	if err != nil {
		return ToolVersion{}, err
	}

	stdout, _, err := cmd.Run(ctx, ffmpeg.RunOptions{Stdout: ffmpeg.Capture, Stderr: ffmpeg.Discard})
	if err != nil {
		return ToolVersion{}, err
	}
	return ParseVersion(stdout)
}

// RequireVersion checks that executable reports at least minimum ("major.minor").
// An empty minimum only checks that the version can be read.
func RequireVersion(ctx context.Context, executable, minimum string, opts ...ffmpeg.Option) (ToolVersion, error) {
	v, err := Version(ctx, executable, opts...)
	if err != nil || minimum == "" {
		return v, err
	}

	major, minor, err := parseMinimum(minimum)
	if err != nil {
		return v, err
	}
	if !v.AtLeast(major, minor) {
		return v, fmt.Errorf("%w: %s is older than %s", ErrUnsupportedVersion, v, minimum)
	}
	return v, nil
}

func parseMinimum(s string) (major, minor int, err error) {
	majorStr, rest, _ := strings.Cut(strings.TrimPrefix(s, "v"), ".")
	minorStr, _, _ := strings.Cut(rest, ".")
	if major, err = strconv.Atoi(majorStr); err != nil {
		return 0, 0, fmt.Errorf("invalid minimum version %q", s)
	}
	if minorStr == "" {
		return major, 0, nil
	}
	if minor, err = strconv.Atoi(minorStr); err != nil {
		return 0, 0, fmt.Errorf("invalid minimum version %q", s)
	}
	return major, minor, nil
}

// Tool is one executable inspected by Run.
type Tool struct {
	Name       string
	Executable string
}

// Run logs availability and version of each tool and returns the first
// failure. Every tool is checked even after one fails.
func Run(ctx context.Context, tools []Tool, minimum string, log Logger, opts ...ffmpeg.Option) error {
	log.Info("=== System Check ===")

	var first error
	for _, t := range tools {
		if err := checkTool(ctx, t, minimum, log, opts...); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func checkTool(ctx context.Context, t Tool, minimum string, log Logger, opts ...ffmpeg.Option) error {
	path, err := exec.LookPath(t.Executable)
	if err != nil {
		log.Error("%s not found (%s)", t.Name, t.Executable)
		return &ffmpeg.ExecutableNotFoundError{Executable: t.Executable, Err: err}
	}

	v, err := RequireVersion(ctx, path, minimum, opts...)
	switch {
	case errors.Is(err, ErrUnsupportedVersion):
		log.Error("%s: %s is not supported, upgrade to %s+", t.Name, v.Raw, minimum)
		return err
	case errors.Is(err, ErrUnknownVersion):
		log.Warn("%s found at %s but its version is unknown: %v", t.Name, path, err)
		return nil
	case err != nil:
		log.Error("%s found at %s but -version failed: %v", t.Name, path, err)
		return err
	}

	log.Success("%s: %s (%s)", t.Name, v.Raw, path)
	return nil
}
