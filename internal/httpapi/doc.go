// Package httpapi exposes the gateway over HTTP: a router translating JSON
// requests into inventory and operation calls, and a server managing the
// listener lifecycle. Error kinds from the operations package map onto HTTP
// status codes here; unknown routes and methods answer with an empty 404.
package httpapi
