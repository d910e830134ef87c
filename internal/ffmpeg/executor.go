package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sort"
	"syscall"
	"time"

	"github.com/backmassage/ffcmd/internal/jsonx"
)

type sinkMode int

const (
	sinkInherit sinkMode = iota
	sinkCapture
	sinkRedirect
)

// Sink selects where a child output stream goes.
type Sink struct {
	mode sinkMode
	w    io.Writer
}

var (
	// Inherit passes the caller's own stream to the child. Nothing is captured.
	Inherit = Sink{mode: sinkInherit}
	// Capture collects the stream into a buffer returned by Run.
	Capture = Sink{mode: sinkCapture}
	// Discard drops the stream.
	Discard = Redirect(io.Discard)
)

// Redirect sends the stream to w. Nothing is captured.
func Redirect(w io.Writer) Sink {
	return Sink{mode: sinkRedirect, w: w}
}

// writer returns the writer to attach and, for Capture, the buffer behind it.
func (s Sink) writer(inherited *os.File) (io.Writer, *bytes.Buffer) {
	switch s.mode {
	case sinkCapture:
		buf := &bytes.Buffer{}
		return buf, buf
	case sinkRedirect:
		return s.w, nil
	default:
		return inherited, nil
	}
}

// RunOptions configures a single invocation.
type RunOptions struct {
	// Input is written to the child's stdin, which is then closed. Stdin is
	// always a pipe; a nil Input closes it immediately.
	Input []byte
	// Stdout and Stderr default to Inherit.
	Stdout Sink
	Stderr Sink
	// Env replaces the environment when non-nil. Nil inherits the caller's.
	Env map[string]string
	// Dir is the working directory. Empty uses the caller's.
	Dir string
	// SysProcAttr is passed through to the process unchanged.
	SysProcAttr *syscall.SysProcAttr
	// Prepare receives the fully configured *exec.Cmd right before launch, for
	// any platform-specific setting not covered above.
	Prepare func(*exec.Cmd)
}

func (o RunOptions) environ() []string {
	if o.Env == nil {
		return nil
	}
	env := make([]string, 0, len(o.Env))
	for k, v := range o.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// Result is the outcome of a successful Execute.
type Result struct {
	// Stdout and Stderr are non-nil only for streams whose sink was Capture.
	Stdout []byte
	Stderr []byte
	// Structured reports whether Stdout was decoded into Data.
	Structured bool
	// Data holds the decoded stdout (*jsonx.Object, []any, or a scalar).
	Data any
	// Duration is how long the process ran.
	Duration time.Duration
}

// Run executes the command and returns the captured stdout and stderr. A
// buffer is nil when its sink did not request a capture.
func (c *Command) Run(ctx context.Context, opts RunOptions) (stdout, stderr []byte, err error) {
	res, err := c.run(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return res.Stdout, res.Stderr, nil
}

// Execute runs the command like Run and then applies the Command's decoding
// strategy. With DecodeStructured, a JSON output request in the argv and a
// captured stdout, stdout is decoded into Result.Data; a decode failure
// returns a *jsonx.DecodeError even though the process itself succeeded.
// Stdout sent anywhere other than Capture is never decoded.
func (c *Command) Execute(ctx context.Context, opts RunOptions) (*Result, error) {
	res, err := c.run(ctx, opts)
	if err != nil {
		return nil, err
	}

	if c.decoding == DecodeStructured && res.Stdout != nil && RequestsJSON(c.compiled.Args) {
		data, err := jsonx.Decode(res.Stdout)
		if err != nil {
			return nil, err
		}
		res.Structured = true
		res.Data = data
	}
	return res, nil
}

func (c *Command) run(ctx context.Context, opts RunOptions) (*Result, error) {
	// Clear the previous handle; a new one is published right after launch.
	c.process.Store(nil)

	args := c.compiled.Args
	cmd := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // running caller-built argv is the purpose of this package
	cmd.Stdin = bytes.NewReader(opts.Input)

	var outBuf, errBuf *bytes.Buffer
	cmd.Stdout, outBuf = opts.Stdout.writer(os.Stdout)
	cmd.Stderr, errBuf = opts.Stderr.writer(os.Stderr)

	cmd.Env = opts.environ()
	cmd.Dir = opts.Dir
	cmd.SysProcAttr = opts.SysProcAttr
	cmd.Cancel = func() error { return terminate(cmd.Process) }
	cmd.WaitDelay = c.waitDelay
	if opts.Prepare != nil {
		opts.Prepare(cmd)
	}

	c.log.Debug("Running: %s", c.compiled.Display)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if isNotFound(err) {
			return nil, &ExecutableNotFoundError{Executable: c.executable, Err: err}
		}
		return nil, err
	}
	c.process.Store(cmd.Process)

	waitErr := cmd.Wait()
	duration := time.Since(start)

	if cmd.ProcessState == nil {
		return nil, fmt.Errorf("wait for %s: %w", c.executable, waitErr)
	}

	stdout, stderr := captured(outBuf), captured(errBuf)
	code := exitCode(cmd.ProcessState)
	c.log.Debug("Exited with status %d after %s", code, duration.Round(time.Millisecond))

	if code != 0 {
		return nil, &RuntimeError{
			Cmd:      c.compiled.Display,
			ExitCode: code,
			Stdout:   stdout,
			Stderr:   stderr,
		}
	}
	if waitErr != nil {
		// Exit status 0 but output copying or the wait delay failed.
		return nil, fmt.Errorf("wait for %s: %w", c.executable, waitErr)
	}

	return &Result{Stdout: stdout, Stderr: stderr, Duration: duration}, nil
}

// captured returns a copy of buf's contents, or nil when the stream was not
// captured. A captured but empty stream is a non-nil empty slice.
func captured(buf *bytes.Buffer) []byte {
	if buf == nil {
		return nil
	}
	return append([]byte{}, buf.Bytes()...)
}

// exitCode reports the process exit status. A process killed by a signal
// reports the negated signal number (SIGTERM is -15).
func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return -int(ws.Signal())
	}
	return state.ExitCode()
}

func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// jsonFormatFlags are the ffprobe spellings of the output format option.
var jsonFormatFlags = map[string]bool{
	"-print_format":  true,
	"-of":            true,
	"-output_format": true,
}

// RequestsJSON reports whether args contain an output-format flag directly
// followed by "json".
func RequestsJSON(args []string) bool {
	for i := 0; i+1 < len(args); i++ {
		if jsonFormatFlags[args[i]] && args[i+1] == "json" {
			return true
		}
	}
	return false
}
