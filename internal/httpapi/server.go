package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
)

const listenerNetworkConstant = "tcp"

var (
	// ErrServerHandlerNotConfigured indicates NewServer received a nil handler.
	ErrServerHandlerNotConfigured = errors.New("server handler not configured")
)

// Server binds the gateway handler to a TCP listener and manages its lifecycle.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

// NewServer opens a listener on listenAddress and prepares an HTTP server over
// handler. The listener is bound immediately so the caller can report the
// effective address before serving begins.
func NewServer(listenAddress string, handler http.Handler) (*Server, error) {
	if handler == nil {
		return nil, ErrServerHandlerNotConfigured
	}

	listener, listenError := net.Listen(listenerNetworkConstant, listenAddress)
	if listenError != nil {
		return nil, listenError
	}

	return &Server{
		httpServer: &http.Server{Handler: handler},
		listener:   listener,
	}, nil
}

// Address reports the bound listener address, including the resolved port when
// the configured port was zero.
func (server *Server) Address() string {
	return server.listener.Addr().String()
}

// Serve blocks accepting connections until Shutdown is called or the listener
// fails. A graceful shutdown is reported as a nil error.
func (server *Server) Serve() error {
	serveError := server.httpServer.Serve(server.listener)
	if errors.Is(serveError, http.ErrServerClosed) {
		return nil
	}
	return serveError
}

// Shutdown stops accepting new connections and waits for in-flight requests
// until the supplied context expires.
func (server *Server) Shutdown(executionContext context.Context) error {
	return server.httpServer.Shutdown(executionContext)
}
