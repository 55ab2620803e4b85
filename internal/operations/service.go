package operations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/temirov/gitserve/internal/execshell"
	"github.com/temirov/gitserve/internal/gitrepo"
	"github.com/temirov/gitserve/internal/repolock"
	"github.com/temirov/gitserve/internal/repostore"
)

const (
	initTimeoutConstant  = 10 * time.Second
	cloneTimeoutConstant = 300 * time.Second
	runTimeoutConstant   = 60 * time.Second

	gitInitSubcommandNameConstant  = "init"
	gitCloneSubcommandNameConstant = "clone"

	storeRequiredMessageConstant        = "repository store not configured"
	executorRequiredMessageConstant     = "git executor not configured"
	cloneURLRequiredMessageConstant     = "Clone URL required"
	targetExistsMessageTemplateConstant = "A directory named %q already exists"
	notARepositoryMessageTemplate       = "Not a git repository: %s"
	genericGitFailureMessageConstant    = "git command failed"
)

// RepositoryReference identifies a repository by name and absolute path.
type RepositoryReference struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// CommandOutput carries the captured output of a completed git invocation.
type CommandOutput struct {
	Output string `json:"output"`
}

// GitExecutor exposes the subset of shell execution used by the operations service.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Service performs init, clone, and run operations against the repository store.
type Service struct {
	store       *repostore.Store
	gitExecutor GitExecutor
	locks       *repolock.Registry
}

// NewService constructs a Service from the provided collaborators.
func NewService(store *repostore.Store, gitExecutor GitExecutor, locks *repolock.Registry) (*Service, error) {
	if store == nil {
		return nil, errors.New(storeRequiredMessageConstant)
	}
	if gitExecutor == nil {
		return nil, errors.New(executorRequiredMessageConstant)
	}
	if locks == nil {
		locks = repolock.NewRegistry()
	}

	return &Service{store: store, gitExecutor: gitExecutor, locks: locks}, nil
}

// InitializeRepository creates an empty repository with the provided name.
func (service *Service) InitializeRepository(executionContext context.Context, repositoryName string) (RepositoryReference, error) {
	repositoryPath, resolveError := service.resolveName(repositoryName)
	if resolveError != nil {
		return RepositoryReference{}, resolveError
	}

	if ensureError := service.store.EnsureRoot(); ensureError != nil {
		return RepositoryReference{}, NewInternalError("%s", ensureError.Error())
	}

	service.locks.Lock(repositoryName)
	defer service.locks.Unlock(repositoryName)

	if service.store.PathExists(repositoryPath) {
		return RepositoryReference{}, NewConflictError(targetExistsMessageTemplateConstant, repositoryName)
	}

	initContext, cancelInit := context.WithTimeout(executionContext, initTimeoutConstant)
	defer cancelInit()

	commandDetails := execshell.CommandDetails{Arguments: []string{gitInitSubcommandNameConstant, repositoryPath}}
	if _, executionError := service.gitExecutor.ExecuteGit(initContext, commandDetails); executionError != nil {
		return RepositoryReference{}, translateGitFailure(executionError)
	}

	return RepositoryReference{Name: repositoryName, Path: repositoryPath}, nil
}

// CloneRepository clones the provided URL beneath the root, deriving a name when omitted.
func (service *Service) CloneRepository(executionContext context.Context, cloneURL string, requestedName string) (RepositoryReference, error) {
	trimmedURL := strings.TrimSpace(cloneURL)
	if len(trimmedURL) == 0 {
		return RepositoryReference{}, NewValidationError(cloneURLRequiredMessageConstant)
	}

	repositoryName := requestedName
	if len(repositoryName) == 0 {
		repositoryName = gitrepo.DeriveRepositoryName(trimmedURL)
	}

	repositoryPath, resolveError := service.resolveName(repositoryName)
	if resolveError != nil {
		return RepositoryReference{}, resolveError
	}

	if ensureError := service.store.EnsureRoot(); ensureError != nil {
		return RepositoryReference{}, NewInternalError("%s", ensureError.Error())
	}

	service.locks.Lock(repositoryName)
	defer service.locks.Unlock(repositoryName)

	if service.store.PathExists(repositoryPath) {
		return RepositoryReference{}, NewConflictError(targetExistsMessageTemplateConstant, repositoryName)
	}

	cloneContext, cancelClone := context.WithTimeout(executionContext, cloneTimeoutConstant)
	defer cancelClone()

	commandDetails := execshell.CommandDetails{Arguments: []string{gitCloneSubcommandNameConstant, trimmedURL, repositoryPath}}
	if _, executionError := service.gitExecutor.ExecuteGit(cloneContext, commandDetails); executionError != nil {
		return RepositoryReference{}, translateGitFailure(executionError)
	}

	return RepositoryReference{Name: repositoryName, Path: repositoryPath}, nil
}

// RunCommand executes an arbitrary git subcommand inside the named repository.
//
// An empty argument sequence short-circuits to an empty result without
// spawning a subprocess. A process that exits non-zero while producing
// diagnostic output fails; a non-zero exit with a silent error stream is
// still treated as success, returning whichever stream carried text. Callers
// depend on this leniency even though it can mask failures that exit
// non-zero without diagnostics.
func (service *Service) RunCommand(executionContext context.Context, repositoryName string, commandArguments []string) (CommandOutput, error) {
	if len(commandArguments) == 0 {
		return CommandOutput{}, nil
	}

	repositoryPath, resolveError := service.resolveName(repositoryName)
	if resolveError != nil {
		return CommandOutput{}, resolveError
	}

	service.locks.Lock(repositoryName)
	defer service.locks.Unlock(repositoryName)

	if !service.store.IsRepository(repositoryPath) {
		return CommandOutput{}, NewNotFoundError(notARepositoryMessageTemplate, repositoryName)
	}

	runContext, cancelRun := context.WithTimeout(executionContext, runTimeoutConstant)
	defer cancelRun()

	commandDetails := execshell.CommandDetails{
		Arguments:        append([]string{}, commandArguments...),
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := service.gitExecutor.ExecuteGit(runContext, commandDetails)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if !errors.As(executionError, &commandFailure) {
			return CommandOutput{}, NewInternalError("%s", executionError.Error())
		}

		executionResult = commandFailure.Result
		trimmedStandardError := strings.TrimSpace(executionResult.StandardError)
		if len(trimmedStandardError) > 0 {
			return CommandOutput{}, NewExecutionError(trimmedStandardError)
		}
	}

	trimmedStandardOutput := strings.TrimSpace(executionResult.StandardOutput)
	if len(trimmedStandardOutput) > 0 {
		return CommandOutput{Output: trimmedStandardOutput}, nil
	}
	return CommandOutput{Output: strings.TrimSpace(executionResult.StandardError)}, nil
}

func (service *Service) resolveName(repositoryName string) (string, error) {
	repositoryPath, resolveError := service.store.Resolve(repositoryName)
	if resolveError != nil {
		return "", NewValidationError("%s", resolveError.Error())
	}
	return repositoryPath, nil
}

// translateGitFailure converts executor errors for init and clone into
// execution-kind errors carrying the most specific diagnostic available:
// standard error, then standard output, then the error text itself.
func translateGitFailure(executionError error) *OperationError {
	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		trimmedStandardError := strings.TrimSpace(commandFailure.Result.StandardError)
		if len(trimmedStandardError) > 0 {
			return NewExecutionError(trimmedStandardError)
		}
		trimmedStandardOutput := strings.TrimSpace(commandFailure.Result.StandardOutput)
		if len(trimmedStandardOutput) > 0 {
			return NewExecutionError(trimmedStandardOutput)
		}
		return NewExecutionError(commandFailure.Error())
	}

	var executionFailure execshell.CommandExecutionError
	if errors.As(executionError, &executionFailure) {
		return NewExecutionError(executionFailure.Error())
	}

	if executionError != nil {
		return NewExecutionError(executionError.Error())
	}
	return NewExecutionError(genericGitFailureMessageConstant)
}
