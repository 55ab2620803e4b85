// Package execshell provides structured helpers for invoking the git binary.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner
// for default process execution, and defines the abstractions the gateway
// uses to run git subprocesses in a testable manner. Callers bound each
// invocation with a context deadline; a deadline that elapses surfaces as a
// CommandExecutionError rather than hanging the caller.
package execshell
