// Package pipeline runs batches of job files one after another and reports
// a summary at the end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/backmassage/ffcmd/internal/config"
	"github.com/backmassage/ffcmd/internal/display"
	"github.com/backmassage/ffcmd/internal/ffmpeg"
	"github.com/backmassage/ffcmd/internal/logging"
)

// BuildFunc compiles a loaded job into a runnable command.
type BuildFunc func(ctx context.Context, job *config.Job) (*ffmpeg.Command, error)

// Options configures a batch run.
type Options struct {
	// Stdout and Stderr receive every job's output streams. Nil discards.
	Stdout io.Writer
	Stderr io.Writer
	// KeepGoing continues with the next job after a failure instead of
	// skipping the rest of the batch.
	KeepGoing bool
}

// Runner executes job files sequentially.
type Runner struct {
	build BuildFunc
	log   *logging.Logger
	opts  Options

	active atomic.Pointer[ffmpeg.Command]
}

// NewRunner returns a Runner that compiles jobs with build.
func NewRunner(build BuildFunc, log *logging.Logger, opts Options) *Runner {
	return &Runner{build: build, log: log, opts: opts}
}

// Terminate stops the job currently running, if any.
func (r *Runner) Terminate() {
	if cmd := r.active.Load(); cmd != nil {
		_ = cmd.Terminate()
	}
}

// Run executes each job file in order and returns aggregate stats. It stops
// early when ctx is cancelled, or after the first failure unless KeepGoing
// is set; jobs not attempted are counted as skipped.
func (r *Runner) Run(ctx context.Context, files []string) RunStats {
	stats := RunStats{Total: len(files)}
	start := time.Now()

	r.log.Info("Running %d job(s)", stats.Total)
	for i, path := range files {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted, skipping remaining jobs")
			break
		}
		stats.Current = i + 1
		r.log.Info("[%d/%d] %s", stats.Current, stats.Total, path)

		if err := r.runJob(ctx, path); err != nil {
			stats.Failed++
			r.log.Error("%s: %v", path, err)
			logHint(r.log, err)
			if !r.opts.KeepGoing {
				break
			}
			continue
		}
		stats.Succeeded++
	}
	stats.Skipped = stats.Total - stats.Succeeded - stats.Failed
	stats.Elapsed = time.Since(start)

	logSummary(r.log, &stats)
	return stats
}

func (r *Runner) runJob(ctx context.Context, path string) error {
	job, err := config.LoadJob(path)
	if err != nil {
		return err
	}
	cmd, err := r.build(ctx, job)
	if err != nil {
		return fmt.Errorf("could not compile job: %w", err)
	}

	r.log.Debug("Running %s", cmd)
	r.active.Store(cmd)
	defer r.active.Store(nil)

	res, err := cmd.Execute(ctx, ffmpeg.RunOptions{
		Stdout: sink(r.opts.Stdout),
		Stderr: sink(r.opts.Stderr),
		Env:    job.Env,
		Dir:    job.Dir,
	})
	if err != nil {
		return err
	}
	r.log.Success("Finished in %s", display.FormatDuration(res.Duration))
	return nil
}

func sink(w io.Writer) ffmpeg.Sink {
	if w == nil {
		return ffmpeg.Discard
	}
	return ffmpeg.Redirect(w)
}

func logHint(log *logging.Logger, err error) {
	var rerr *ffmpeg.RuntimeError
	if !errors.As(err, &rerr) {
		return
	}
	if d := rerr.Diagnosis(); d != ffmpeg.DiagnosisNone {
		log.Warn("Hint: %s", d.Hint())
	}
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d succeeded, %d failed, %d skipped", stats.Succeeded, stats.Failed, stats.Skipped)
	log.Info("  Total jobs: %d", stats.Total)
	if stats.OK() {
		log.Success("  Total time: %s", display.FormatDuration(stats.Elapsed))
		return
	}
	log.Warn("  Total time: %s", display.FormatDuration(stats.Elapsed))
}
