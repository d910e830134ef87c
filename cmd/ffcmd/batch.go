package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/alecthomas/kingpin/v2"

	"github.com/backmassage/ffcmd/internal/config"
	"github.com/backmassage/ffcmd/internal/ffmpeg"
	"github.com/backmassage/ffcmd/internal/pipeline"
)

// BatchCommand runs many job files one after another.
type BatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	paths     []string
	keepGoing bool

	runner atomic.Pointer[pipeline.Runner]
}

// NewBatchCommand returns the batch command.
func NewBatchCommand(rootCmd *RootCommand, app *kingpin.Application) *BatchCommand {
	c := &BatchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("batch", "Run job files sequentially; directories are searched for *.yaml and *.yml.")
	c.Cmd.Arg("paths", "Job files or directories.").Required().StringsVar(&c.paths)
	c.Cmd.Flag("keep-going", "Continue with the next job after a failure.").Short('k').BoolVar(&c.keepGoing)

	return c
}

func (c *BatchCommand) Name() string { return c.Cmd.FullCommand() }

// Terminate stops the job currently running, if any.
func (c *BatchCommand) Terminate() {
	if r := c.runner.Load(); r != nil {
		r.Terminate()
	}
}

func (c *BatchCommand) Run(ctx context.Context) error {
	files, err := pipeline.Expand(c.paths)
	if err != nil {
		return err
	}

	build := func(ctx context.Context, job *config.Job) (*ffmpeg.Command, error) {
		cmd, err := c.rootCmd.buildCommand(job)
		if err != nil {
			return nil, err
		}
		if err := c.rootCmd.requireVersion(ctx, cmd.Executable()); err != nil {
			return nil, err
		}
		return cmd, nil
	}
	r := pipeline.NewRunner(build, c.rootCmd.Logger, pipeline.Options{
		Stdout:    c.rootCmd.Stdout,
		Stderr:    c.rootCmd.Stderr,
		KeepGoing: c.keepGoing,
	})
	c.runner.Store(r)

	stats := r.Run(ctx, files)
	if err := ctx.Err(); err != nil {
		return err
	}
	if !stats.OK() {
		return fmt.Errorf("%d of %d jobs failed", stats.Failed, stats.Total)
	}
	return nil
}
