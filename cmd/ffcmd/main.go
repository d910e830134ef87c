// Command ffcmd compiles YAML job files into ffmpeg/ffprobe command lines
// and runs them.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/oklog/run"
	"github.com/oklog/ulid/v2"

	"github.com/backmassage/ffcmd/internal/config"
	"github.com/backmassage/ffcmd/internal/ffmpeg"
	"github.com/backmassage/ffcmd/internal/logging"
)

// version and commit are set at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(Run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// Run runs the CLI and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg := config.DefaultConfig()

	app := kingpin.New("ffcmd", "Compile and run ffmpeg/ffprobe invocations described in YAML job files.")
	app.Version(version + " (" + commit + ")")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	config.RegisterFlags(app, &cfg)

	root := &RootCommand{Config: &cfg, Stdin: stdin, Stdout: stdout, Stderr: stderr}
	compileCmd := NewCompileCommand(root, app)
	runCmd := NewRunCommand(root, app)
	batchCmd := NewBatchCommand(root, app)
	probeCmd := NewProbeCommand(root, app)
	checkCmd := NewCheckCommand(root, app)
	versionCmd := NewVersionCommand(root, app)

	cmds := map[string]Command{
		compileCmd.Name(): compileCmd,
		runCmd.Name():     runCmd,
		batchCmd.Name():   batchCmd,
		probeCmd.Name():   probeCmd,
		checkCmd.Name():   checkCmd,
		versionCmd.Name(): versionCmd,
	}

	cmdName, err := app.Parse(args[1:])
	if err != nil {
		fmt.Fprintf(stderr, "ffcmd: invalid command configuration: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "ffcmd: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "ffcmd: %v\n", err)
		return 1
	}
	defer log.Close()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	root.Logger = log.WithValues(logging.Kv{"invocation": id.String()})
	root.Logger.Debug("Debug level is enabled")

	var g run.Group

	// OS signals.
	{
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		done := make(chan struct{})

		g.Add(
			func() error {
				select {
				case sig := <-sigCh:
					root.Logger.Warn("Received %s, stopping", sig)
					return &interruptedError{sig: sig}
				case <-done:
					return nil
				}
			},
			func(_ error) {
				signal.Stop(sigCh)
				close(done)
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		cmd := cmds[cmdName]
		g.Add(
			func() error {
				if err := cmd.Run(ctx); err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				if t, ok := cmd.(terminator); ok {
					t.Terminate()
				}
				cancel()
			},
		)
	}

	err = g.Run()
	if err != nil {
		root.Logger.Error("%v", err)
	}
	return exitCode(err)
}

// interruptedError reports that the CLI stopped because of a signal.
type interruptedError struct {
	sig os.Signal
}

func (e *interruptedError) Error() string { return "interrupted by " + e.sig.String() }

// exitCode maps err to a shell exit status: children's statuses pass
// through, signals become 128+N.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var ie *interruptedError
	if errors.As(err, &ie) {
		if s, ok := ie.sig.(syscall.Signal); ok {
			return 128 + int(s)
		}
		return 1
	}

	var rerr *ffmpeg.RuntimeError
	if errors.As(err, &rerr) {
		switch {
		case rerr.ExitCode > 0:
			return rerr.ExitCode
		case rerr.ExitCode < 0:
			return 128 - rerr.ExitCode
		}
	}
	return 1
}
