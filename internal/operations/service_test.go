package operations_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitserve/internal/execshell"
	"github.com/temirov/gitserve/internal/operations"
	"github.com/temirov/gitserve/internal/repolock"
	"github.com/temirov/gitserve/internal/repostore"
)

const (
	testRepositoryNameConstant = "demo"
	testCloneURLConstant       = "https://example.com/foo.git"
	testDerivedNameConstant    = "foo"
	testDiagnosticTextConstant = "fatal: not something git understands"
)

type scriptedGitExecutor struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	return executor.executionResult, executor.executionError
}

func newServiceFixture(testInstance *testing.T, gitExecutor operations.GitExecutor) (*operations.Service, *repostore.Store) {
	testInstance.Helper()

	store, storeError := repostore.NewStore(filepath.Join(testInstance.TempDir(), "repositories"), repostore.OSFileSystem{})
	require.NoError(testInstance, storeError)

	service, serviceError := operations.NewService(store, gitExecutor, repolock.NewRegistry())
	require.NoError(testInstance, serviceError)
	return service, store
}

func requireOperationErrorKind(testInstance *testing.T, operationError error, expectedKind operations.ErrorKind) *operations.OperationError {
	testInstance.Helper()
	var typedError *operations.OperationError
	require.ErrorAs(testInstance, operationError, &typedError)
	require.Equal(testInstance, expectedKind, typedError.Kind)
	return typedError
}

func TestInitializeRepositoryValidatesName(testInstance *testing.T) {
	testCases := []struct {
		name           string
		repositoryName string
	}{
		{name: "empty_name", repositoryName: ""},
		{name: "forward_slash", repositoryName: "nested/name"},
		{name: "backslash", repositoryName: "nested\\name"},
		{name: "leading_dot", repositoryName: ".hidden"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			gitExecutor := &scriptedGitExecutor{}
			service, _ := newServiceFixture(testInstance, gitExecutor)

			_, initError := service.InitializeRepository(context.Background(), testCase.repositoryName)
			requireOperationErrorKind(testInstance, initError, operations.ErrorKindValidation)
			require.Empty(testInstance, gitExecutor.recordedCommands)
		})
	}
}

func TestInitializeRepositorySucceeds(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{}
	service, store := newServiceFixture(testInstance, gitExecutor)

	repositoryReference, initError := service.InitializeRepository(context.Background(), testRepositoryNameConstant)
	require.NoError(testInstance, initError)
	require.Equal(testInstance, testRepositoryNameConstant, repositoryReference.Name)
	require.Equal(testInstance, filepath.Join(store.RootDirectory(), testRepositoryNameConstant), repositoryReference.Path)

	require.Len(testInstance, gitExecutor.recordedCommands, 1)
	require.Equal(testInstance, []string{"init", repositoryReference.Path}, gitExecutor.recordedCommands[0].Arguments)
}

func TestInitializeRepositoryConflictsOnExistingPath(testInstance *testing.T) {
	testCases := []struct {
		name        string
		createEntry func(testInstance *testing.T, targetPath string)
	}{
		{
			name: "existing_directory",
			createEntry: func(testInstance *testing.T, targetPath string) {
				require.NoError(testInstance, os.MkdirAll(targetPath, 0o755))
			},
		},
		{
			name: "existing_file",
			createEntry: func(testInstance *testing.T, targetPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Dir(targetPath), 0o755))
				require.NoError(testInstance, os.WriteFile(targetPath, []byte("occupied"), 0o644))
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			gitExecutor := &scriptedGitExecutor{}
			service, store := newServiceFixture(testInstance, gitExecutor)

			targetPath := filepath.Join(store.RootDirectory(), testRepositoryNameConstant)
			testCase.createEntry(testInstance, targetPath)

			_, initError := service.InitializeRepository(context.Background(), testRepositoryNameConstant)
			requireOperationErrorKind(testInstance, initError, operations.ErrorKindConflict)
			require.Empty(testInstance, gitExecutor.recordedCommands)
		})
	}
}

func TestInitializeRepositoryTranslatesGitFailure(testInstance *testing.T) {
	failedCommand := execshell.ShellCommand{Name: execshell.CommandGit}
	gitExecutor := &scriptedGitExecutor{
		executionError: execshell.CommandFailedError{
			Command: failedCommand,
			Result:  execshell.ExecutionResult{StandardError: testDiagnosticTextConstant, ExitCode: 128},
		},
	}
	service, _ := newServiceFixture(testInstance, gitExecutor)

	_, initError := service.InitializeRepository(context.Background(), testRepositoryNameConstant)
	typedError := requireOperationErrorKind(testInstance, initError, operations.ErrorKindExecution)
	require.Equal(testInstance, testDiagnosticTextConstant, typedError.Message)
}

func TestCloneRepositoryRequiresURL(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{}
	service, _ := newServiceFixture(testInstance, gitExecutor)

	_, cloneError := service.CloneRepository(context.Background(), "", "")
	requireOperationErrorKind(testInstance, cloneError, operations.ErrorKindValidation)
}

func TestCloneRepositoryDerivesName(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{}
	service, store := newServiceFixture(testInstance, gitExecutor)

	repositoryReference, cloneError := service.CloneRepository(context.Background(), testCloneURLConstant, "")
	require.NoError(testInstance, cloneError)
	require.Equal(testInstance, testDerivedNameConstant, repositoryReference.Name)
	require.Equal(testInstance, filepath.Join(store.RootDirectory(), testDerivedNameConstant), repositoryReference.Path)

	require.Len(testInstance, gitExecutor.recordedCommands, 1)
	require.Equal(testInstance, []string{"clone", testCloneURLConstant, repositoryReference.Path}, gitExecutor.recordedCommands[0].Arguments)
}

func TestCloneRepositoryValidatesDerivedName(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{}
	service, _ := newServiceFixture(testInstance, gitExecutor)

	_, cloneError := service.CloneRepository(context.Background(), "https://example.com/owner/repo.git", ".hidden")
	requireOperationErrorKind(testInstance, cloneError, operations.ErrorKindValidation)
	require.Empty(testInstance, gitExecutor.recordedCommands)
}

func TestCloneRepositoryConflictsOnExistingPath(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{}
	service, store := newServiceFixture(testInstance, gitExecutor)

	require.NoError(testInstance, os.MkdirAll(filepath.Join(store.RootDirectory(), testDerivedNameConstant), 0o755))

	_, cloneError := service.CloneRepository(context.Background(), testCloneURLConstant, "")
	requireOperationErrorKind(testInstance, cloneError, operations.ErrorKindConflict)
	require.Empty(testInstance, gitExecutor.recordedCommands)
}

func TestRunCommandShortCircuitsEmptyArguments(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{}
	service, _ := newServiceFixture(testInstance, gitExecutor)

	commandOutput, runError := service.RunCommand(context.Background(), testRepositoryNameConstant, nil)
	require.NoError(testInstance, runError)
	require.Empty(testInstance, commandOutput.Output)
	require.Empty(testInstance, gitExecutor.recordedCommands)
}

func TestRunCommandRequiresRepository(testInstance *testing.T) {
	gitExecutor := &scriptedGitExecutor{}
	service, _ := newServiceFixture(testInstance, gitExecutor)

	_, runError := service.RunCommand(context.Background(), "missing", []string{"status"})
	typedError := requireOperationErrorKind(testInstance, runError, operations.ErrorKindNotFound)
	require.Equal(testInstance, "Not a git repository: missing", typedError.Message)
	require.Empty(testInstance, gitExecutor.recordedCommands)
}

func createGitRepositoryDirectory(testInstance *testing.T, store *repostore.Store, repositoryName string) string {
	testInstance.Helper()
	repositoryPath := filepath.Join(store.RootDirectory(), repositoryName)
	require.NoError(testInstance, os.MkdirAll(filepath.Join(repositoryPath, ".git"), 0o755))
	return repositoryPath
}

func TestRunCommandSuccessPolicy(testInstance *testing.T) {
	testCases := []struct {
		name           string
		executorResult execshell.ExecutionResult
		executorError  error
		expectedOutput string
		expectedKind   *operations.ErrorKind
	}{
		{
			name:           "standard_output_preferred",
			executorResult: execshell.ExecutionResult{StandardOutput: "on branch main\n", StandardError: "hint text\n"},
			expectedOutput: "on branch main",
		},
		{
			name:           "standard_error_fallback_on_success",
			executorResult: execshell.ExecutionResult{StandardError: "informational text\n"},
			expectedOutput: "informational text",
		},
		{
			name: "nonzero_exit_with_diagnostics_fails",
			executorError: execshell.CommandFailedError{
				Result: execshell.ExecutionResult{StandardError: testDiagnosticTextConstant + "\n", ExitCode: 1},
			},
			expectedKind: errorKindPointer(operations.ErrorKindExecution),
		},
		{
			name: "nonzero_exit_without_diagnostics_succeeds",
			executorError: execshell.CommandFailedError{
				Result: execshell.ExecutionResult{StandardOutput: "partial\n", ExitCode: 1},
			},
			expectedOutput: "partial",
		},
		{
			name:          "spawn_failure_is_internal",
			executorError: execshell.CommandExecutionError{Cause: errors.New("executable file not found")},
			expectedKind:  errorKindPointer(operations.ErrorKindInternal),
		},
		{
			name:          "timed_out_command_is_internal",
			executorError: execshell.CommandExecutionError{Cause: context.DeadlineExceeded},
			expectedKind:  errorKindPointer(operations.ErrorKindInternal),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			gitExecutor := &scriptedGitExecutor{executionResult: testCase.executorResult, executionError: testCase.executorError}
			service, store := newServiceFixture(testInstance, gitExecutor)
			repositoryPath := createGitRepositoryDirectory(testInstance, store, testRepositoryNameConstant)

			commandOutput, runError := service.RunCommand(context.Background(), testRepositoryNameConstant, []string{"status", "--porcelain"})
			if testCase.expectedKind != nil {
				requireOperationErrorKind(testInstance, runError, *testCase.expectedKind)
				return
			}

			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedOutput, commandOutput.Output)
			require.Len(testInstance, gitExecutor.recordedCommands, 1)
			require.Equal(testInstance, repositoryPath, gitExecutor.recordedCommands[0].WorkingDirectory)
		})
	}
}

func errorKindPointer(errorKind operations.ErrorKind) *operations.ErrorKind {
	return &errorKind
}
