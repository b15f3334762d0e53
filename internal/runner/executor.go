package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Output is what a finished command produced.
type Output struct {
	Combined []byte
	ExitCode int
}

// Executor runs an external command. An error means the command could not
// be run or was interrupted; a non-zero exit is reported in Output.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// ExecExecutor runs commands with os/exec.
type ExecExecutor struct{}

func (ExecExecutor) Run(ctx context.Context, name string, args ...string) (Output, error) {
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if ctx.Err() != nil {
		return Output{Combined: buf.Bytes(), ExitCode: -1}, ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Output{Combined: buf.Bytes(), ExitCode: exitErr.ExitCode()}, nil
	}
	if err != nil {
		return Output{}, err
	}
	return Output{Combined: buf.Bytes()}, nil
}
