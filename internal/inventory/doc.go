// Package inventory scans the repository root and reports per-repository
// status, tolerating individually broken repositories.
package inventory
