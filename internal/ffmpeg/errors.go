package ffmpeg

import "fmt"

// ExecutableNotFoundError is returned when the configured executable cannot be
// located or one of its path components does not exist.
type ExecutableNotFoundError struct {
	Executable string
	Err        error
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("Executable '%s' not found", e.Executable)
}

func (e *ExecutableNotFoundError) Unwrap() error { return e.Err }

// RuntimeError is returned when the process exits with a non-zero status. It
// carries the display form of the command and whatever was captured; a stream
// that was not captured is nil.
type RuntimeError struct {
	Cmd      string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("`%s` exited with status %d\n\nSTDOUT:\n%s\n\nSTDERR:\n%s",
		e.Cmd, e.ExitCode, e.Stdout, e.Stderr)
}

// Diagnosis classifies the captured stderr.
func (e *RuntimeError) Diagnosis() Diagnosis {
	return Diagnose(e.Stderr)
}
