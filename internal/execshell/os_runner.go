package execshell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// waitDelayAfterCancellationConstant bounds how long Run keeps waiting on the
// output pipes once the context is cancelled. Without it a grandchild process
// inheriting stdout keeps Run blocked past the deadline.
const waitDelayAfterCancellationConstant = 3 * time.Second

// OSCommandRunner executes git using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the supplied command using os/exec. A non-zero exit is
// reported through the ExecutionResult with a nil error. A command cut short
// by the context reports the context error rather than a synthesized exit
// code, so callers can tell a timeout apart from a process that finished.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer
	executable.WaitDelay = waitDelayAfterCancellationConstant

	runError := executable.Run()

	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}

	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}
