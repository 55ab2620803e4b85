package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitserve/cmd/cli"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationContentConstant  = "common:\n  log_level: debug\n  log_format: console\nserver:\n  host: 0.0.0.0\n  port: 9100\n  repository_root: /tmp/gitserve-test-root\n"
)

func writeConfigurationFile(testInstance *testing.T) string {
	testInstance.Helper()
	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationContentConstant), 0o644))
	return configurationPath
}

func TestApplicationRegistersServeCommand(testInstance *testing.T) {
	application := cli.NewApplication()
	require.NotNil(testInstance, application)

	rootCommand := cli.RootCommandForTesting(application)
	commandNames := make([]string, 0, len(rootCommand.Commands()))
	for _, registeredCommand := range rootCommand.Commands() {
		commandNames = append(commandNames, registeredCommand.Name())
	}
	require.Contains(testInstance, commandNames, "serve")
}

func TestApplicationRootCommandPrintsHelp(testInstance *testing.T) {
	application := cli.NewApplication()
	rootCommand := cli.RootCommandForTesting(application)

	outputBuffer := &bytes.Buffer{}
	rootCommand.SetOut(outputBuffer)
	rootCommand.SetErr(outputBuffer)
	rootCommand.SetArgs([]string{})

	require.NoError(testInstance, application.Execute())
	require.Contains(testInstance, outputBuffer.String(), "serve")
}

func TestApplicationRejectsInvalidLogLevel(testInstance *testing.T) {
	application := cli.NewApplication()
	rootCommand := cli.RootCommandForTesting(application)

	outputBuffer := &bytes.Buffer{}
	rootCommand.SetOut(outputBuffer)
	rootCommand.SetErr(outputBuffer)
	rootCommand.SetArgs([]string{"--log-level", "verbose"})

	require.Error(testInstance, application.Execute())
}

func TestApplicationLoadsConfigurationFile(testInstance *testing.T) {
	configurationPath := writeConfigurationFile(testInstance)

	application := cli.NewApplication()
	rootCommand := cli.RootCommandForTesting(application)

	outputBuffer := &bytes.Buffer{}
	rootCommand.SetOut(outputBuffer)
	rootCommand.SetErr(outputBuffer)
	rootCommand.SetArgs([]string{"--config", configurationPath})

	require.NoError(testInstance, application.Execute())

	loadedConfiguration := cli.ConfigurationForTesting(application)
	require.Equal(testInstance, "debug", loadedConfiguration.Common.LogLevel)
	require.Equal(testInstance, "console", loadedConfiguration.Common.LogFormat)
	require.Equal(testInstance, "0.0.0.0", loadedConfiguration.Server.Host)
	require.Equal(testInstance, 9100, loadedConfiguration.Server.Port)
	require.Equal(testInstance, "/tmp/gitserve-test-root", loadedConfiguration.Server.RepositoryRoot)
}

func TestApplicationEnvironmentOverridesDefaults(testInstance *testing.T) {
	testInstance.Setenv("GITSERVE_SERVER_PORT", "9200")

	application := cli.NewApplication()
	rootCommand := cli.RootCommandForTesting(application)

	outputBuffer := &bytes.Buffer{}
	rootCommand.SetOut(outputBuffer)
	rootCommand.SetErr(outputBuffer)
	rootCommand.SetArgs([]string{})

	require.NoError(testInstance, application.Execute())

	loadedConfiguration := cli.ConfigurationForTesting(application)
	require.Equal(testInstance, 9200, loadedConfiguration.Server.Port)
	require.Equal(testInstance, "127.0.0.1", loadedConfiguration.Server.Host)
}
