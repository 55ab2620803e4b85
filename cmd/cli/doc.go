// Package cli assembles the gitserve command-line interface: the Cobra root
// command, configuration loading through Viper, structured logging through
// zap, and the serve subcommand hosting the HTTP gateway.
package cli
