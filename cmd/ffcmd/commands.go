package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"github.com/backmassage/ffcmd/internal/check"
	"github.com/backmassage/ffcmd/internal/config"
	"github.com/backmassage/ffcmd/internal/ffmpeg"
	"github.com/backmassage/ffcmd/internal/logging"
	"github.com/backmassage/ffcmd/internal/probe"
)

// Command is a subcommand that main dispatches to after parsing.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// terminator is implemented by commands that own a live child process.
type terminator interface {
	Terminate()
}

// RootCommand carries the global configuration and instances shared by
// every subcommand.
type RootCommand struct {
	Config *config.Config

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *logging.Logger
}

func (r *RootCommand) commandOptions() []ffmpeg.Option {
	return []ffmpeg.Option{
		ffmpeg.WithLogger(r.Logger),
		ffmpeg.WithWaitDelay(r.Config.WaitDelay),
	}
}

// requireVersion enforces --min-version against executable when set.
func (r *RootCommand) requireVersion(ctx context.Context, executable string) error {
	if r.Config.MinVersion == "" {
		return nil
	}
	v, err := check.RequireVersion(ctx, executable, r.Config.MinVersion)
	if err != nil {
		return err
	}
	r.Logger.Debug("Using %s", v)
	return nil
}

// buildCommand compiles job into a Command for its tool.
func (r *RootCommand) buildCommand(job *config.Job) (*ffmpeg.Command, error) {
	executable := job.ExecutableFor(r.Config)
	if job.Tool == config.ToolFFprobe {
		return probe.New(executable, job.Global, job.Inputs, r.commandOptions()...)
	}
	return ffmpeg.New(job.Spec(executable), r.commandOptions()...)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CompileCommand prints the command line a job compiles to.
type CompileCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	jobPath string
	asJSON  bool
}

// NewCompileCommand returns the compile command.
func NewCompileCommand(rootCmd *RootCommand, app *kingpin.Application) *CompileCommand {
	c := &CompileCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("compile", "Print the command line a job compiles to, without running it.")
	c.Cmd.Arg("job", "YAML job file.").Required().StringVar(&c.jobPath)
	c.Cmd.Flag("json", "Print the argument vector as a JSON array.").BoolVar(&c.asJSON)

	return c
}

func (c *CompileCommand) Name() string { return c.Cmd.FullCommand() }

func (c *CompileCommand) Run(_ context.Context) error {
	job, err := config.LoadJob(c.jobPath)
	if err != nil {
		return err
	}
	cmd, err := c.rootCmd.buildCommand(job)
	if err != nil {
		return err
	}

	if c.asJSON {
		return writeJSON(c.rootCmd.Stdout, cmd.Args())
	}
	_, err = fmt.Fprintln(c.rootCmd.Stdout, cmd.String())
	return err
}

// CheckCommand reports ffmpeg and ffprobe availability and versions.
type CheckCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewCheckCommand returns the check command.
func NewCheckCommand(rootCmd *RootCommand, app *kingpin.Application) *CheckCommand {
	c := &CheckCommand{rootCmd: rootCmd}
	c.Cmd = app.Command("check", "Check that ffmpeg and ffprobe are available and recent enough.")
	return c
}

func (c *CheckCommand) Name() string { return c.Cmd.FullCommand() }

func (c *CheckCommand) Run(ctx context.Context) error {
	cfg := c.rootCmd.Config
	tools := []check.Tool{
		{Name: "ffmpeg", Executable: cfg.FFmpegPath},
		{Name: "ffprobe", Executable: cfg.FFprobePath},
	}
	return check.Run(ctx, tools, cfg.MinVersion, c.rootCmd.Logger, c.rootCmd.commandOptions()...)
}

// VersionCommand prints the ffcmd version.
type VersionCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewVersionCommand returns the version command.
func NewVersionCommand(rootCmd *RootCommand, app *kingpin.Application) *VersionCommand {
	c := &VersionCommand{rootCmd: rootCmd}
	c.Cmd = app.Command("version", "Print the ffcmd version.")
	return c
}

func (c *VersionCommand) Name() string { return c.Cmd.FullCommand() }

func (c *VersionCommand) Run(_ context.Context) error {
	_, err := fmt.Fprintf(c.rootCmd.Stdout, "ffcmd %s (%s)\n", version, commit)
	return err
}
