package serve

import "strings"

const (
	hostConfigurationKeyConstant           = "host"
	portConfigurationKeyConstant           = "port"
	repositoryRootConfigurationKeyConstant = "repository_root"

	defaultListenHostConstant     = "127.0.0.1"
	defaultListenPortConstant     = 8765
	defaultRepositoryRootConstant = "~/Repositories"

	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for the serve command.
type CommandConfiguration struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	RepositoryRoot string `mapstructure:"repository_root"`
}

// DefaultCommandConfiguration provides baseline configuration values for the gateway.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Host:           defaultListenHostConstant,
		Port:           defaultListenPortConstant,
		RepositoryRoot: defaultRepositoryRootConstant,
	}
}

// DefaultConfigurationValues produces Viper defaults for the serve command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + hostConfigurationKeyConstant:           defaults.Host,
		rootKey + configurationKeySeparatorConstant + portConfigurationKeyConstant:           defaults.Port,
		rootKey + configurationKeySeparatorConstant + repositoryRootConfigurationKeyConstant: defaults.RepositoryRoot,
	}
}

// sanitize normalizes configuration values, falling back to defaults for blanks.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Host = strings.TrimSpace(configuration.Host)
	if len(sanitized.Host) == 0 {
		sanitized.Host = defaultListenHostConstant
	}
	if sanitized.Port <= 0 {
		sanitized.Port = defaultListenPortConstant
	}
	sanitized.RepositoryRoot = strings.TrimSpace(configuration.RepositoryRoot)
	if len(sanitized.RepositoryRoot) == 0 {
		sanitized.RepositoryRoot = defaultRepositoryRootConstant
	}
	return sanitized
}
