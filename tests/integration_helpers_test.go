package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitserve/internal/execshell"
	"github.com/temirov/gitserve/internal/gitrepo"
	"github.com/temirov/gitserve/internal/httpapi"
	"github.com/temirov/gitserve/internal/inventory"
	"github.com/temirov/gitserve/internal/operations"
	"github.com/temirov/gitserve/internal/repolock"
	"github.com/temirov/gitserve/internal/repostore"
)

// startGateway wires the full service stack over a temporary repository root
// and serves it through an httptest server.
func startGateway(testInstance *testing.T) (*httptest.Server, string) {
	testInstance.Helper()

	repositoryRoot := testInstance.TempDir()

	store, storeError := repostore.NewStore(repositoryRoot, repostore.OSFileSystem{})
	require.NoError(testInstance, storeError)
	require.NoError(testInstance, store.EnsureRoot())

	gitExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(testInstance, executorError)

	repositoryManager, managerError := gitrepo.NewRepositoryManager(gitExecutor)
	require.NoError(testInstance, managerError)

	lockRegistry := repolock.NewRegistry()

	scanner, scannerError := inventory.NewScanner(store, repositoryManager, lockRegistry, zap.NewNop())
	require.NoError(testInstance, scannerError)

	operationService, serviceError := operations.NewService(store, gitExecutor, lockRegistry)
	require.NoError(testInstance, serviceError)

	router, routerError := httpapi.NewRouter(scanner, operationService, store.RootDirectory(), zap.NewNop())
	require.NoError(testInstance, routerError)

	gatewayServer := httptest.NewServer(router.Handler())
	testInstance.Cleanup(gatewayServer.Close)

	return gatewayServer, store.RootDirectory()
}

func postJSON(testInstance *testing.T, gatewayServer *httptest.Server, routePath string, requestBody string) (*http.Response, map[string]any) {
	testInstance.Helper()

	response, requestError := http.Post(gatewayServer.URL+routePath, "application/json", bytes.NewReader([]byte(requestBody)))
	require.NoError(testInstance, requestError)
	return response, decodeResponseBody(testInstance, response)
}

func getJSON(testInstance *testing.T, gatewayServer *httptest.Server, routePath string) (*http.Response, []byte) {
	testInstance.Helper()

	response, requestError := http.Get(gatewayServer.URL + routePath)
	require.NoError(testInstance, requestError)

	bodyBuffer := &bytes.Buffer{}
	_, readError := bodyBuffer.ReadFrom(response.Body)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, response.Body.Close())
	return response, bodyBuffer.Bytes()
}

func decodeResponseBody(testInstance *testing.T, response *http.Response) map[string]any {
	testInstance.Helper()

	bodyBuffer := &bytes.Buffer{}
	_, readError := bodyBuffer.ReadFrom(response.Body)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, response.Body.Close())

	if bodyBuffer.Len() == 0 {
		return nil
	}

	var decodedBody map[string]any
	require.NoError(testInstance, json.Unmarshal(bodyBuffer.Bytes(), &decodedBody))
	return decodedBody
}

func runGitCommand(testInstance *testing.T, workingDirectory string, arguments ...string) {
	testInstance.Helper()

	command := exec.Command("git", arguments...)
	command.Dir = workingDirectory
	outputBytes, runError := command.CombinedOutput()
	require.NoErrorf(testInstance, runError, "git %v failed: %s", arguments, string(outputBytes))
}

func createCommit(testInstance *testing.T, repositoryPath string, commitMessage string) {
	testInstance.Helper()

	runGitCommand(testInstance, repositoryPath,
		"-c", "user.name=integration",
		"-c", "user.email=integration@example.com",
		"commit", "--allow-empty", "-m", commitMessage,
	)
}
