package hal

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MpDev89/lednode/internal/httpd"
	"github.com/MpDev89/lednode/internal/logging"
)

// Config holds the user-modifiable knobs, captured at construction:
//   - Port: listening port; 0 selects the platform default
//   - LRUPurgeEnable: purge idle sessions on the underlying server
//   - MaxURIHandlers: route table capacity; 0 selects the default
type Config struct {
	Port           int
	LRUPurgeEnable bool
	MaxURIHandlers int
}

// Endpoint describes one registrable route. The C-style handler plus
// opaque context pair collapses into an http.Handler closure.
type Endpoint struct {
	URI     string
	Method  string
	Handler http.Handler
}

// Server is the endpoint registry facade. Construct with New, register
// endpoints before or after Start, and Close when done.
type Server struct {
	cfg     Config
	backend Backend
	logger  *slog.Logger
	pending *backlog
	running bool
}

// New creates a facade instance. The server is not started until Start
// is called; endpoints registered before then are buffered.
func New(cfg Config, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		backend: &httpdBackend{},
		logger:  logging.GetLogger("hal"),
		pending: newBacklog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// backendConfig builds the underlying server configuration from the
// snapshot. Zero-valued knobs resolve to the documented platform
// defaults; nonzero values override them.
func (s *Server) backendConfig() httpd.Config {
	cfg := httpd.Config{
		Port:           httpd.DefaultPort,
		LRUPurgeEnable: s.cfg.LRUPurgeEnable,
		MaxURIHandlers: httpd.DefaultMaxURIHandlers,
	}
	if s.cfg.Port > 0 {
		cfg.Port = s.cfg.Port
	}
	if s.cfg.MaxURIHandlers > 0 {
		cfg.MaxURIHandlers = s.cfg.MaxURIHandlers
	}
	return cfg
}

// Start brings the underlying server up and replays the backlog against
// it in registration order. Safe to call when already running.
//
// A replay failure for an individual endpoint is logged and skipped:
// startup is best-effort completion of the backlog, and the failing
// entry stays recorded for the next cycle.
func (s *Server) Start() error {
	if s.pending == nil {
		return fmt.Errorf("%w: instance closed", ErrInvalidState)
	}
	if s.running {
		return nil
	}

	cfg := s.backendConfig()
	s.logger.Info("Starting server", "port", cfg.Port)

	if err := s.backend.Start(cfg); err != nil {
		return fmt.Errorf("hal: start server: %w", err)
	}
	s.running = true

	s.pending.forEach(func(ep Endpoint) bool {
		if err := s.backend.Register(ep); err != nil {
			s.logger.Error("Failed registering URI",
				"uri", ep.URI,
				"method", ep.Method,
				"error", err)
		}
		return true
	})

	return nil
}

// Stop tears down the underlying server. The endpoint backlog is
// untouched, so a later Start restores every registration. Safe to call
// when already stopped.
func (s *Server) Stop() error {
	if !s.running {
		return nil
	}

	s.logger.Info("Stopping server")
	if err := s.backend.Stop(); err != nil {
		return fmt.Errorf("hal: stop server: %w", err)
	}
	s.running = false
	return nil
}

// Close stops the server if running and releases the instance.
// Idempotent; a nil receiver is a no-op. A teardown failure is returned
// but the instance is considered released either way. Register and
// Start on a closed instance fail with ErrInvalidState.
func (s *Server) Close() error {
	if s == nil || s.pending == nil {
		return nil
	}

	var err error
	if s.running {
		if stopErr := s.backend.Stop(); stopErr != nil {
			err = fmt.Errorf("hal: close: %w", stopErr)
		}
		s.running = false
	}
	s.pending = nil
	return err
}

// Register records an endpoint in the backlog and, when the server is
// running, additionally registers it live. A live registration failure
// is surfaced to the caller; the endpoint stays in the backlog for the
// next replay regardless.
func (s *Server) Register(ep Endpoint) error {
	if s.pending == nil {
		return fmt.Errorf("%w: instance closed", ErrInvalidState)
	}
	if ep.URI == "" || ep.Handler == nil {
		return fmt.Errorf("%w: endpoint needs uri and handler", ErrInvalidArgument)
	}
	if ep.Method == "" {
		return fmt.Errorf("%w: endpoint needs a method", ErrInvalidArgument)
	}

	s.pending.append(ep)

	if s.running {
		if err := s.backend.Register(ep); err != nil {
			return fmt.Errorf("hal: register %s %s: %w", ep.Method, ep.URI, err)
		}
	}
	return nil
}

// Unregister removes a route from the live server only. It requires a
// running server, and it does not prune the backlog: the route comes
// back on the next stop/start cycle. Unregistration is a runtime-only
// override for the current session.
func (s *Server) Unregister(uri, method string) error {
	if uri == "" {
		return fmt.Errorf("%w: uri required", ErrInvalidArgument)
	}
	if !s.running {
		return fmt.Errorf("%w: server not started", ErrInvalidState)
	}

	if err := s.backend.Unregister(uri, method); err != nil {
		return fmt.Errorf("hal: unregister %s %s: %w", method, uri, err)
	}
	return nil
}

// Wait blocks until the underlying server has shut down. A no-op when
// the server is not running.
func (s *Server) Wait() {
	if !s.running {
		return
	}
	s.backend.Wait()
}

// Running reports whether the underlying server is up.
func (s *Server) Running() bool {
	return s.running
}

// Native exposes the live backend for direct use of the underlying
// server library, or nil when stopped.
func (s *Server) Native() Backend {
	if !s.running {
		return nil
	}
	return s.backend
}

// Pending returns the number of endpoints recorded in the backlog, or
// zero once the instance is closed.
func (s *Server) Pending() int {
	if s.pending == nil {
		return 0
	}
	return s.pending.len()
}

// Handle registers an http.Handler under a Go 1.22 style
// "METHOD /path" pattern. This satisfies the humago.Mux interface, so
// huma operations register through the facade and get buffered and
// replayed like any other endpoint. Handle cannot return an error, so
// failures are logged.
func (s *Server) Handle(pattern string, handler http.Handler) {
	method, uri, ok := strings.Cut(pattern, " ")
	if !ok {
		s.logger.Error("Cannot register pattern without method", "pattern", pattern)
		return
	}

	if err := s.Register(Endpoint{URI: uri, Method: method, Handler: handler}); err != nil {
		s.logger.Error("Failed registering pattern", "pattern", pattern, "error", err)
	}
}

// HandleFunc registers a plain handler function under a "METHOD /path"
// pattern by delegating to Handle. Together with ServeHTTP it satisfies
// the humago.Mux interface.
func (s *Server) HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.Handle(pattern, http.HandlerFunc(handler))
}

// ServeHTTP dispatches into the live server, or emits the canonical 503
// while stopped. It exists so the facade can stand in for a mux in
// tests and adapters; production traffic arrives through the backend's
// own listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.running {
		httpd.WriteError(w, http.StatusServiceUnavailable, "Server not running")
		return
	}
	s.backend.ServeHTTP(w, r)
}
