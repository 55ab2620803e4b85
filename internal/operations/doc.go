// Package operations implements the gateway's init, clone, and run
// operations as bounded git invocations with a tagged error taxonomy.
package operations
