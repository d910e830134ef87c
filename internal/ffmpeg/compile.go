package ffmpeg

import (
	"errors"
	"fmt"

	"github.com/backmassage/ffcmd/internal/options"
)

// InputFlag precedes every declared input target.
const InputFlag = "-i"

// Compiled is the result of compiling a command specification: the exact argv
// passed to the process and its quoted display rendering.
type Compiled struct {
	Args    []string
	Display string
}

// Compile builds the argv for executable:
//
//	executable, global options (flattened), then for every input its options,
//	"-i" and the input, then for every output its options and the output.
//
// Outputs get no positional flag; ffmpeg treats trailing bare tokens as output
// targets. Nil target maps contribute nothing. Malformed option quoting fails
// compilation before anything is launched.
func Compile(executable string, global options.Spec, inputs, outputs *TargetMap) (Compiled, error) {
	if executable == "" {
		return Compiled{}, errors.New("executable is required")
	}

	args := []string{executable}

	globalArgs, err := options.Normalize(global, true)
	if err != nil {
		return Compiled{}, fmt.Errorf("global options: %w", err)
	}
	args = append(args, globalArgs...)

	inputArgs, err := Merge(inputs, InputFlag)
	if err != nil {
		return Compiled{}, fmt.Errorf("inputs: %w", err)
	}
	args = append(args, inputArgs...)

	outputArgs, err := Merge(outputs, "")
	if err != nil {
		return Compiled{}, fmt.Errorf("outputs: %w", err)
	}
	args = append(args, outputArgs...)

	return Compiled{Args: args, Display: JoinArgs(args)}, nil
}
