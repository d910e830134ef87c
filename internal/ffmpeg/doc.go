// Package ffmpeg compiles structured ffmpeg (and ffprobe) invocations into an
// ordered argv and runs them synchronously.
//
// A [Command] is built once from a [Spec]: the executable, global options, and
// ordered input and output [TargetMap]s. Compilation happens in [New] and is
// cached for the lifetime of the Command; [Command.Args] is the literal argv and
// [Command.String] its quoted display form.
//
// [Command.Run] launches the process, feeds it optional input bytes, waits for
// it to exit and classifies the outcome:
//
//   - [ExecutableNotFoundError] when the executable cannot be located.
//   - Any other launch error from the operating system, unwrapped.
//   - [RuntimeError] when the process exits non-zero.
//
// The live process is published through [Command.Process] before the wait
// begins, so another goroutine can stop it with [Command.Terminate].
//
// Commands built with [DecodeStructured] (see the probe package) decode stdout
// as key-ordered JSON when the argv requests JSON output.
package ffmpeg
