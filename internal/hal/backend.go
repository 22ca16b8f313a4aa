package hal

import (
	"net/http"

	"github.com/MpDev89/lednode/internal/httpd"
)

// Backend is the underlying HTTP server the facade drives. The default
// implementation wraps internal/httpd; tests substitute their own.
type Backend interface {
	// Start brings the server up with the given configuration.
	Start(cfg httpd.Config) error

	// Stop tears the server down. Live route registrations are lost.
	Stop() error

	// Register adds a route to the live server.
	Register(ep Endpoint) error

	// Unregister removes a route from the live server.
	Unregister(uri, method string) error

	// Wait blocks until the server has shut down. Returns immediately
	// when the server is not running.
	Wait()

	// ServeHTTP dispatches a request into the live server's route table.
	http.Handler
}

// httpdBackend adapts internal/httpd to the Backend interface.
type httpdBackend struct {
	srv *httpd.Server
}

func (b *httpdBackend) Start(cfg httpd.Config) error {
	srv, err := httpd.Start(cfg)
	if err != nil {
		return err
	}
	b.srv = srv
	return nil
}

func (b *httpdBackend) Stop() error {
	if b.srv == nil {
		return nil
	}
	err := b.srv.Stop()
	if err == nil {
		b.srv = nil
	}
	return err
}

func (b *httpdBackend) Register(ep Endpoint) error {
	return b.srv.Register(ep.URI, ep.Method, ep.Handler)
}

func (b *httpdBackend) Unregister(uri, method string) error {
	return b.srv.Unregister(uri, method)
}

func (b *httpdBackend) Wait() {
	if srv := b.srv; srv != nil {
		srv.Wait()
	}
}

func (b *httpdBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.srv.ServeHTTP(w, r)
}

// Server exposes the wrapped httpd server for direct library use.
func (b *httpdBackend) Server() *httpd.Server {
	return b.srv
}
