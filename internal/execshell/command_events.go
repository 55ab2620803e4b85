package execshell

// CommandEventObserver receives lifecycle notifications for git invocations.
// The gateway uses it to mirror command activity onto the console when
// human-readable logging is enabled.
type CommandEventObserver interface {
	// CommandStarted notifies observers that a git invocation is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that a git invocation finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports failures that prevented an execution result, such as a timeout.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver discards all command events.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
