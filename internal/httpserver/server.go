package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// ShutdownTimeout bounds how long graceful shutdown waits on in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Server wraps http.Server with defaults suited to an API that also streams
// video uploads and downloads. There is deliberately no ReadTimeout or
// WriteTimeout: large transfers can legitimately run for minutes.
type Server struct {
	inner *http.Server
}

// New constructs a server listening on the provided port.
func New(port int, handler http.Handler) *Server {
	return &Server{
		inner: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Addr reports the listen address the server was configured with.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start begins serving HTTP traffic and blocks until the listener closes.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown stops accepting new connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
