package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/MpDev89/lednode/internal/events"
	"github.com/MpDev89/lednode/internal/hal"
	"github.com/MpDev89/lednode/internal/led"
	"github.com/MpDev89/lednode/internal/logging"
	"github.com/MpDev89/lednode/internal/version"
)

// Server is the Huma v2 API server. Routes register through the
// endpoint facade, so they can be declared before the HTTP listener
// exists and are replayed whenever it comes back up.
type Server struct {
	api     huma.API
	hal     *hal.Server
	led     *led.Controller
	bus     *events.Bus
	options *Options
	logger  *slog.Logger
}

// NewServer creates the API server and declares all routes. Nothing is
// reachable until Start.
func NewServer(opts *Options, halOpts ...hal.Option) *Server {
	halServer := hal.New(opts.HAL, halOpts...)

	config := huma.DefaultConfig("LEDNode API", version.Version)
	config.Info.Description = "GPIO LED control API"
	// Empty servers list makes OpenAPI use relative paths
	config.Servers = []*huma.Server{}
	// The facade's route table matches exact paths only, so skip the
	// wildcard schema route and the link transformer that targets it.
	config.SchemasPath = ""
	config.CreateHooks = nil

	api := humago.New(halServer, config)

	server := &Server{
		api:     api,
		hal:     halServer,
		led:     opts.LED,
		bus:     opts.EventBus,
		options: opts,
		logger:  logging.GetLogger("api"),
	}

	api.UseMiddleware(HTTPLoggingMiddleware)
	api.UseMiddleware(MetricsMiddleware)

	if opts.PrometheusHandler != nil {
		halServer.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()

	return server
}

// HAL returns the endpoint facade for direct registrations.
func (s *Server) HAL() *hal.Server {
	return s.hal
}

// API returns the Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Start brings the HTTP listener up and replays all declared routes.
func (s *Server) Start() error {
	if err := s.hal.Start(); err != nil {
		return err
	}

	s.logger.Info("API server started", "pending_routes", s.hal.Pending())
	s.publishState(true)
	return nil
}

// Wait blocks until the HTTP listener has shut down.
func (s *Server) Wait() {
	s.hal.Wait()
}

// Stop tears the listener down. Declared routes survive for the next
// Start.
func (s *Server) Stop() error {
	if err := s.hal.Stop(); err != nil {
		return err
	}

	s.logger.Info("API server stopped")
	s.publishState(false)
	return nil
}

// Close stops the listener and releases the facade.
func (s *Server) Close() error {
	err := s.hal.Close()
	s.publishState(false)
	return err
}

func (s *Server) publishState(running bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.ServerStateChangedEvent{
		Running:   running,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ServeHTTP dispatches into the facade; useful for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.hal.ServeHTTP(w, r)
}

// registerRoutes declares all API endpoints.
func (s *Server) registerRoutes() {
	s.registerSystemRoutes()
	s.registerLEDRoutes()
}
