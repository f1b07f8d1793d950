package keytool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// Result is the captured outcome of one keytool process.
type Result struct {
	CommandLine CommandLine
	ExitCode    int
	Stdout      string
	Stderr      string
	Duration    time.Duration
}

// Succeeded reports whether keytool exited with status zero.
func (result Result) Succeeded() bool {
	return result.ExitCode == 0
}

// Output returns standard output followed by standard error.
func (result Result) Output() string {
	return result.Stdout + result.Stderr
}

// Executor runs rendered keytool command lines.
type Executor interface {
	Execute(ctx context.Context, commandLine CommandLine, input io.Reader) (Result, error)
}

// processWaitDelay bounds how long Wait keeps draining output after keytool
// exits or is killed. Processes keytool left behind may hold the pipes open.
const processWaitDelay = 2 * time.Second

// StderrEchoer is implemented by executors that can copy keytool's standard
// error to a writer while the process runs. keytool writes its password
// prompts there.
type StderrEchoer interface {
	WithStderrEcho(writer io.Writer) Executor
}

// ProcessExecutor runs command lines as child processes of the current process.
type ProcessExecutor struct {
	stderrEcho io.Writer
}

// NewProcessExecutor constructs a ProcessExecutor.
func NewProcessExecutor() ProcessExecutor {
	return ProcessExecutor{}
}

// WithStderrEcho returns a copy that also streams standard error to writer.
func (processExecutor ProcessExecutor) WithStderrEcho(writer io.Writer) Executor {
	processExecutor.stderrEcho = writer
	return processExecutor
}

// Execute starts one process, waits for it, and returns its exit code and
// output. A non-zero exit code is reported through the Result, not as an
// error; failing to start the process yields a *LaunchError.
func (processExecutor ProcessExecutor) Execute(ctx context.Context, commandLine CommandLine, input io.Reader) (Result, error) {
	command := exec.CommandContext(ctx, commandLine.Executable, commandLine.Arguments...)
	command.Dir = commandLine.WorkingDirectory
	command.WaitDelay = processWaitDelay
	if input != nil {
		command.Stdin = input
	}
	var stdoutBuffer bytes.Buffer
	var stderrBuffer bytes.Buffer
	command.Stdout = &stdoutBuffer
	command.Stderr = &stderrBuffer
	if processExecutor.stderrEcho != nil {
		command.Stderr = io.MultiWriter(&stderrBuffer, processExecutor.stderrEcho)
	}

	startedAt := time.Now()
	if startErr := command.Start(); startErr != nil {
		return Result{}, &LaunchError{
			Executable:       commandLine.Executable,
			WorkingDirectory: commandLine.WorkingDirectory,
			Err:              startErr,
		}
	}
	waitErr := command.Wait()
	result := Result{
		CommandLine: commandLine,
		ExitCode:    -1,
		Stdout:      stdoutBuffer.String(),
		Stderr:      stderrBuffer.String(),
		Duration:    time.Since(startedAt),
	}
	if command.ProcessState != nil {
		result.ExitCode = command.ProcessState.ExitCode()
	}
	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("keytool interrupted: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) || errors.Is(waitErr, exec.ErrWaitDelay) {
			return result, nil
		}
		return result, fmt.Errorf("wait for %s: %w", commandLine.Executable, waitErr)
	}
	return result, nil
}
