package ffmpeg

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/backmassage/ffcmd/internal/options"
)

// DefaultExecutable is resolved through PATH when Spec.Executable is empty.
const DefaultExecutable = "ffmpeg"

const defaultWaitDelay = 5 * time.Second

// Decoding selects how a successful run's stdout is post-processed.
type Decoding int

const (
	RawBytes         Decoding = iota // Return stdout unchanged.
	DecodeStructured                 // Decode stdout as JSON when the argv asks for it.
)

func (d Decoding) String() string {
	switch d {
	case RawBytes:
		return "raw"
	case DecodeStructured:
		return "structured"
	default:
		return fmt.Sprintf("decoding(%d)", int(d))
	}
}

// Logger is the logging surface the executor needs.
type Logger interface {
	Debug(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}

// Spec describes one invocation of an ffmpeg-family tool.
type Spec struct {
	// Executable is a command name looked up in PATH or a path to the binary.
	Executable string
	// Global options are flattened: every element of a Sequence is split again.
	Global options.Spec
	// Inputs are emitted in order as options, "-i", input.
	Inputs *TargetMap
	// Outputs are emitted in order as options, output.
	Outputs *TargetMap
}

// Option configures a Command.
type Option func(*Command)

// WithLogger sets the logger used for launch and exit messages.
func WithLogger(l Logger) Option {
	return func(c *Command) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDecoding selects the stdout post-processing strategy.
func WithDecoding(d Decoding) Option {
	return func(c *Command) { c.decoding = d }
}

// WithWaitDelay bounds how long a context-cancelled run waits after SIGTERM
// before the process is killed.
func WithWaitDelay(d time.Duration) Option {
	return func(c *Command) { c.waitDelay = d }
}

// WithName sets the label used by GoString.
func WithName(name string) Option {
	return func(c *Command) { c.name = name }
}

// Command is a compiled invocation. It is safe to read its argv from any
// goroutine; Run must not be called concurrently on the same Command.
type Command struct {
	name       string
	executable string
	compiled   Compiled
	decoding   Decoding
	waitDelay  time.Duration
	log        Logger

	process atomic.Pointer[os.Process]
}

// New compiles spec into a Command.
func New(spec Spec, opts ...Option) (*Command, error) {
	executable := spec.Executable
	if executable == "" {
		executable = DefaultExecutable
	}

	compiled, err := Compile(executable, spec.Global, spec.Inputs, spec.Outputs)
	if err != nil {
		return nil, err
	}

	c := &Command{
		name:       "FFmpeg",
		executable: executable,
		compiled:   compiled,
		decoding:   RawBytes,
		waitDelay:  defaultWaitDelay,
		log:        noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Executable returns the configured executable name or path.
func (c *Command) Executable() string { return c.executable }

// Args returns a copy of the compiled argv, executable first.
func (c *Command) Args() []string {
	return append([]string{}, c.compiled.Args...)
}

// String returns the quoted display form of the argv.
func (c *Command) String() string { return c.compiled.Display }

// GoString renders the command as <'Name' 'display'>.
func (c *Command) GoString() string {
	return fmt.Sprintf("<'%s' '%s'>", c.name, c.compiled.Display)
}

// Decoding returns the stdout post-processing strategy.
func (c *Command) Decoding() Decoding { return c.decoding }

// Process returns the process started by the current or most recent Run, or
// nil before the first launch and between the start of a Run and its launch.
func (c *Command) Process() *os.Process { return c.process.Load() }

// Terminate asks the running process to stop (SIGTERM; Kill on Windows).
// It is a no-op when no process has been launched.
func (c *Command) Terminate() error {
	return terminate(c.process.Load())
}

func terminate(p *os.Process) error {
	if p == nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		return p.Kill()
	}
	return p.Signal(syscall.SIGTERM)
}
