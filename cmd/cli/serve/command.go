package serve

import (
	"context"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitserve/internal/execshell"
	"github.com/temirov/gitserve/internal/gitrepo"
	"github.com/temirov/gitserve/internal/httpapi"
	"github.com/temirov/gitserve/internal/inventory"
	"github.com/temirov/gitserve/internal/operations"
	"github.com/temirov/gitserve/internal/repolock"
	"github.com/temirov/gitserve/internal/repostore"
	"github.com/temirov/gitserve/internal/ui"
	pathutils "github.com/temirov/gitserve/internal/utils/path"
)

const (
	serveUseConstant              = "serve"
	serveShortDescriptionConstant = "Serve git operations for a repository root over local HTTP"
	serveLongDescriptionConstant  = "serve exposes repository enumeration, init, clone, and arbitrary git subcommands over a localhost HTTP endpoint."

	hostFlagNameConstant  = "host"
	hostFlagUsageConstant = "Listen host for the HTTP endpoint."
	portFlagNameConstant  = "port"
	portFlagUsageConstant = "Listen port for the HTTP endpoint."
	rootFlagNameConstant  = "root"
	rootFlagUsageConstant = "Directory holding the managed git repositories."

	repositoryRootReadyMessageConstant = "repositories directory ready"
	serverListeningMessageConstant     = "serving git operations"
	serverStoppingMessageConstant      = "shutting down"

	repositoryRootFieldNameConstant = "repository_root"
	listenAddressFieldNameConstant  = "address"

	shutdownGracePeriodConstant = 10 * time.Second
)

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the serve command with its collaborators.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitExecutor                  operations.GitExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration

	hostFlagValue string
	portFlagValue int
	rootFlagValue string
}

// Build constructs the serve command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   serveUseConstant,
		Short: serveShortDescriptionConstant,
		Long:  serveLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().StringVar(&builder.hostFlagValue, hostFlagNameConstant, "", hostFlagUsageConstant)
	command.Flags().IntVar(&builder.portFlagValue, portFlagNameConstant, 0, portFlagUsageConstant)
	command.Flags().StringVar(&builder.rootFlagValue, rootFlagNameConstant, "", rootFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(hostFlagNameConstant) {
		configuration.Host = builder.hostFlagValue
	}
	if command.Flags().Changed(portFlagNameConstant) {
		configuration.Port = builder.portFlagValue
	}
	if command.Flags().Changed(rootFlagNameConstant) {
		configuration.RepositoryRoot = builder.rootFlagValue
	}
	configuration = configuration.sanitize()

	logger := builder.resolveLogger()

	repositoryRoot := pathutils.NewHomeExpander().Expand(configuration.RepositoryRoot)
	store, storeError := repostore.NewStore(repositoryRoot, repostore.OSFileSystem{})
	if storeError != nil {
		return storeError
	}
	if ensureError := store.EnsureRoot(); ensureError != nil {
		return ensureError
	}

	gitExecutor, executorError := builder.resolveGitExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(gitExecutor)
	if managerError != nil {
		return managerError
	}

	lockRegistry := repolock.NewRegistry()

	scanner, scannerError := inventory.NewScanner(store, repositoryManager, lockRegistry, logger)
	if scannerError != nil {
		return scannerError
	}

	operationService, serviceError := operations.NewService(store, gitExecutor, lockRegistry)
	if serviceError != nil {
		return serviceError
	}

	router, routerError := httpapi.NewRouter(scanner, operationService, store.RootDirectory(), logger)
	if routerError != nil {
		return routerError
	}

	listenAddress := net.JoinHostPort(configuration.Host, strconv.Itoa(configuration.Port))
	server, serverError := httpapi.NewServer(listenAddress, router.Handler())
	if serverError != nil {
		return serverError
	}

	logger.Info(repositoryRootReadyMessageConstant, zap.String(repositoryRootFieldNameConstant, store.RootDirectory()))
	logger.Info(serverListeningMessageConstant, zap.String(listenAddressFieldNameConstant, server.Address()))

	signalContext, stopSignalHandling := signal.NotifyContext(command.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignalHandling()

	serveCompleted := make(chan error, 1)
	go func() {
		serveCompleted <- server.Serve()
	}()

	select {
	case serveError := <-serveCompleted:
		return serveError
	case <-signalContext.Done():
	}

	logger.Info(serverStoppingMessageConstant)
	shutdownContext, cancelShutdown := context.WithTimeout(context.Background(), shutdownGracePeriodConstant)
	defer cancelShutdown()
	if shutdownError := server.Shutdown(shutdownContext); shutdownError != nil {
		return shutdownError
	}
	return <-serveCompleted
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (operations.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	commandRunner := execshell.NewOSCommandRunner()
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		return execshell.NewShellExecutorWithObserver(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}
