package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/alecthomas/kingpin/v2"

	"github.com/backmassage/ffcmd/internal/config"
	"github.com/backmassage/ffcmd/internal/display"
	"github.com/backmassage/ffcmd/internal/ffmpeg"
)

// RunCommand executes a job and waits for it.
type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	jobPath   string
	inputFile string
	capture   bool

	active atomic.Pointer[ffmpeg.Command]
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Run a job and wait for it to finish.")
	c.Cmd.Arg("job", "YAML job file.").Required().StringVar(&c.jobPath)
	c.Cmd.Flag("input-file", "Feed this file to the tool's stdin ('-' reads ffcmd's stdin).").Short('i').StringVar(&c.inputFile)
	c.Cmd.Flag("capture", "Capture the tool's output and print it after it exits; ffprobe JSON is re-indented.").BoolVar(&c.capture)

	return c
}

func (c *RunCommand) Name() string { return c.Cmd.FullCommand() }

// Terminate stops the running tool, if any.
func (c *RunCommand) Terminate() {
	if cmd := c.active.Load(); cmd != nil {
		_ = cmd.Terminate()
	}
}

func (c *RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	job, err := config.LoadJob(c.jobPath)
	if err != nil {
		return err
	}
	cmd, err := c.rootCmd.buildCommand(job)
	if err != nil {
		return fmt.Errorf("could not compile job: %w", err)
	}
	if err := c.rootCmd.requireVersion(ctx, cmd.Executable()); err != nil {
		return err
	}

	input, err := c.readInput()
	if err != nil {
		return err
	}

	opts := ffmpeg.RunOptions{
		Input:  input,
		Stdout: ffmpeg.Redirect(c.rootCmd.Stdout),
		Stderr: ffmpeg.Redirect(c.rootCmd.Stderr),
		Env:    job.Env,
		Dir:    job.Dir,
	}
	if c.capture {
		opts.Stdout, opts.Stderr = ffmpeg.Capture, ffmpeg.Capture
	}

	logger.Info("Running %s", cmd)
	c.active.Store(cmd)
	res, err := cmd.Execute(ctx, opts)
	if err != nil {
		var rerr *ffmpeg.RuntimeError
		if errors.As(err, &rerr) {
			if d := rerr.Diagnosis(); d != ffmpeg.DiagnosisNone {
				logger.Warn("Hint: %s", d.Hint())
			}
		}
		return err
	}

	if !c.capture {
		logger.Success("Finished in %s", display.FormatDuration(res.Duration))
		return nil
	}
	logger.Success("Finished in %s (stdout %s, stderr %s)",
		display.FormatDuration(res.Duration),
		display.FormatBytes(int64(len(res.Stdout))),
		display.FormatBytes(int64(len(res.Stderr))))

	if res.Structured {
		return writeJSON(c.rootCmd.Stdout, res.Data)
	}
	if _, err := c.rootCmd.Stdout.Write(res.Stdout); err != nil {
		return err
	}
	_, err = c.rootCmd.Stderr.Write(res.Stderr)
	return err
}

func (c *RunCommand) readInput() ([]byte, error) {
	switch c.inputFile {
	case "":
		return nil, nil
	case "-":
		return io.ReadAll(c.rootCmd.Stdin)
	default:
		b, err := os.ReadFile(c.inputFile)
		if err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}
		return b, nil
	}
}
