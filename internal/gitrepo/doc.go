// Package gitrepo provides repository-level git queries and remote URL
// helpers built on the execshell executor.
package gitrepo
