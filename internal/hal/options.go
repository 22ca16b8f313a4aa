package hal

import "log/slog"

// Option configures a Server.
type Option func(*Server)

// WithBackend substitutes the underlying server implementation.
// Used by tests to drive the facade against a fake.
func WithBackend(b Backend) Option {
	return func(s *Server) {
		s.backend = b
	}
}

// WithLogger overrides the module logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}
