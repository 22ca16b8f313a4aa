package httpd

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/MpDev89/lednode/internal/logging"
)

const (
	// DefaultPort is the platform default listening port, used when the
	// configuration leaves the port at zero.
	DefaultPort = 8080

	// DefaultMaxURIHandlers is the default route table capacity.
	DefaultMaxURIHandlers = 8

	// lruIdleTimeout bounds how long idle keep-alive sessions are kept
	// around when LRU purging is enabled.
	lruIdleTimeout = 30 * time.Second
)

// Config holds the server knobs. Zero values select platform defaults.
type Config struct {
	// Port is the listening port; 0 selects DefaultPort.
	Port int

	// LRUPurgeEnable closes idle keep-alive sessions so a small device
	// is not pinned down by stale connections.
	LRUPurgeEnable bool

	// MaxURIHandlers caps the route table; 0 selects DefaultMaxURIHandlers.
	MaxURIHandlers int
}

// withDefaults resolves zero fields to platform defaults.
func (c Config) withDefaults() Config {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.MaxURIHandlers <= 0 {
		c.MaxURIHandlers = DefaultMaxURIHandlers
	}
	return c
}

// route is one entry in the flat route table.
type route struct {
	uri     string
	method  string
	handler http.Handler
}

// Server is a running HTTP server with a mutable route table.
// The table is matched in registration order: for overlapping URI+method
// pairs the first-registered route stays effective.
type Server struct {
	cfg        Config
	listener   net.Listener
	httpServer *http.Server

	done chan struct{}

	mu     sync.RWMutex
	routes []route
}

// Start binds the listener and begins serving. Routes are registered
// afterwards against the returned server.
func Start(cfg Config) (*Server, error) {
	cfg = cfg.withDefaults()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("httpd: listen on port %d: %w", cfg.Port, err)
	}

	s := &Server{
		cfg:      cfg,
		listener: listener,
		done:     make(chan struct{}),
		routes:   make([]route, 0, cfg.MaxURIHandlers),
	}

	s.httpServer = &http.Server{
		Handler: s,
	}
	if cfg.LRUPurgeEnable {
		s.httpServer.IdleTimeout = lruIdleTimeout
	}

	logger := logging.GetLogger("httpd")
	logger.Info("Server listening", "addr", listener.Addr().String(), "max_uri_handlers", cfg.MaxURIHandlers)

	go func() {
		if serveErr := s.httpServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("Serve failed", "error", serveErr)
		}
		close(s.done)
	}()

	return s, nil
}

// Stop closes the server immediately. Idempotent.
func (s *Server) Stop() error {
	return s.httpServer.Close()
}

// Wait blocks until the serve loop has exited.
func (s *Server) Wait() {
	<-s.done
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Register adds a route. Fails with ErrHandlersFull when the table is at
// capacity and ErrHandlerExists for a duplicate URI+method pair.
func (s *Server) Register(uri, method string, handler http.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.routes) >= s.cfg.MaxURIHandlers {
		return fmt.Errorf("%w (limit %d)", ErrHandlersFull, s.cfg.MaxURIHandlers)
	}
	for _, rt := range s.routes {
		if rt.uri == uri && rt.method == method {
			return fmt.Errorf("%w: %s %s", ErrHandlerExists, method, uri)
		}
	}

	s.routes = append(s.routes, route{uri: uri, method: method, handler: handler})
	return nil
}

// Unregister removes a route from the live table.
func (s *Server) Unregister(uri, method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rt := range s.routes {
		if rt.uri == uri && rt.method == method {
			s.routes = append(s.routes[:i], s.routes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s", ErrHandlerNotFound, method, uri)
}

// ServeHTTP dispatches to the first matching route.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	var handler http.Handler
	uriMatched := false
	for _, rt := range s.routes {
		if rt.uri != r.URL.Path {
			continue
		}
		uriMatched = true
		if rt.method == r.Method {
			handler = rt.handler
			break
		}
	}
	s.mu.RUnlock()

	if handler != nil {
		handler.ServeHTTP(w, r)
		return
	}
	if uriMatched {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed for this URI")
		return
	}
	WriteError(w, http.StatusNotFound, "This URI does not exist")
}
