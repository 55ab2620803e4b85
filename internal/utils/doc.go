// Package utils hosts configuration loading and logger construction helpers
// shared by the gitserve command-line entrypoints.
package utils
