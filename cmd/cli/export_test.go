package cli

import "github.com/spf13/cobra"

// RootCommandForTesting exposes the assembled Cobra root command to tests.
func RootCommandForTesting(application *Application) *cobra.Command {
	return application.rootCommand
}

// ConfigurationForTesting exposes the loaded configuration to tests.
func ConfigurationForTesting(application *Application) ApplicationConfiguration {
	return application.configuration
}
