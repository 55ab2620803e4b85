// Package ui renders git command lifecycle events as human-readable console
// messages when the gateway runs with console log formatting.
package ui
