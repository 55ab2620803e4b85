package operations

import "fmt"

// ErrorKind classifies operation failures for transport-level status mapping.
type ErrorKind int

// Operation failure classifications.
const (
	// ErrorKindValidation marks missing or malformed request input.
	ErrorKindValidation ErrorKind = iota
	// ErrorKindConflict marks a target path that already exists.
	ErrorKindConflict
	// ErrorKindNotFound marks a repository name with no git repository behind it.
	ErrorKindNotFound
	// ErrorKindExecution marks a git invocation that failed with diagnostic output.
	ErrorKindExecution
	// ErrorKindInternal marks any other unexpected failure.
	ErrorKindInternal
)

// OperationError tags a failure message with its classification.
type OperationError struct {
	Kind    ErrorKind
	Message string
}

// Error returns the failure message.
func (operationError *OperationError) Error() string {
	return operationError.Message
}

// NewValidationError builds a validation-kind operation error.
func NewValidationError(messageTemplate string, templateArguments ...any) *OperationError {
	return &OperationError{Kind: ErrorKindValidation, Message: fmt.Sprintf(messageTemplate, templateArguments...)}
}

// NewConflictError builds a conflict-kind operation error.
func NewConflictError(messageTemplate string, templateArguments ...any) *OperationError {
	return &OperationError{Kind: ErrorKindConflict, Message: fmt.Sprintf(messageTemplate, templateArguments...)}
}

// NewNotFoundError builds a not-found-kind operation error.
func NewNotFoundError(messageTemplate string, templateArguments ...any) *OperationError {
	return &OperationError{Kind: ErrorKindNotFound, Message: fmt.Sprintf(messageTemplate, templateArguments...)}
}

// NewExecutionError builds an execution-kind operation error.
func NewExecutionError(message string) *OperationError {
	return &OperationError{Kind: ErrorKindExecution, Message: message}
}

// NewInternalError builds an internal-kind operation error.
func NewInternalError(messageTemplate string, templateArguments ...any) *OperationError {
	return &OperationError{Kind: ErrorKindInternal, Message: fmt.Sprintf(messageTemplate, templateArguments...)}
}
