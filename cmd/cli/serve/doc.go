// Package serve wires the gateway's HTTP endpoint into the command-line
// interface: configuration defaults, flag overrides, and the assembly of the
// store, git executor, scanner, and operation service behind the router.
package serve
