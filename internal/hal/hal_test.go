package hal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/MpDev89/lednode/internal/httpd"
)

// fakeBackend implements Backend with an in-memory route table so the
// facade can be exercised without binding sockets.
type fakeBackend struct {
	startCount int
	stopCount  int
	started    bool
	startCfg   httpd.Config

	routes      []Endpoint
	failOnStart error
}

func (f *fakeBackend) Start(cfg httpd.Config) error {
	if f.failOnStart != nil {
		return f.failOnStart
	}
	f.startCount++
	f.started = true
	f.startCfg = cfg
	return nil
}

func (f *fakeBackend) Stop() error {
	f.stopCount++
	f.started = false
	// Teardown loses all live registrations, like the real server
	f.routes = nil
	return nil
}

func (f *fakeBackend) Register(ep Endpoint) error {
	if len(f.routes) >= f.startCfg.MaxURIHandlers {
		return httpd.ErrHandlersFull
	}
	for _, rt := range f.routes {
		if rt.URI == ep.URI && rt.Method == ep.Method {
			return httpd.ErrHandlerExists
		}
	}
	f.routes = append(f.routes, ep)
	return nil
}

func (f *fakeBackend) Unregister(uri, method string) error {
	for i, rt := range f.routes {
		if rt.URI == uri && rt.Method == method {
			f.routes = append(f.routes[:i], f.routes[i+1:]...)
			return nil
		}
	}
	return httpd.ErrHandlerNotFound
}

func (f *fakeBackend) Wait() {}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rt := range f.routes {
		if rt.URI == r.URL.Path && rt.Method == r.Method {
			rt.Handler.ServeHTTP(w, r)
			return
		}
	}
	httpd.WriteError(w, http.StatusNotFound, "This URI does not exist")
}

func newTestServer(cfg Config, backend Backend) *Server {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return New(cfg, WithBackend(backend), WithLogger(logger))
}

func textHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	})
}

// get issues a request through the facade and returns status and body.
func get(s *Server, uri string) (int, string) {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, uri, nil))
	return rec.Code, rec.Body.String()
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(Config{}, &fakeBackend{})

	tests := []struct {
		name string
		ep   Endpoint
	}{
		{"missing uri", Endpoint{Method: http.MethodGet, Handler: textHandler("x")}},
		{"missing handler", Endpoint{URI: "/x", Method: http.MethodGet}},
		{"missing method", Endpoint{URI: "/x", Handler: textHandler("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Register(tt.ep)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Register() error = %v, want ErrInvalidArgument", err)
			}
		})
	}

	if s.Pending() != 0 {
		t.Errorf("invalid endpoints were recorded in the backlog")
	}
}

func TestBufferedRegistrationUnreachableUntilStart(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 4}, &fakeBackend{})

	if err := s.Register(Endpoint{URI: "/api/led", Method: http.MethodGet, Handler: textHandler("led")}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Buffered but not live
	if code, _ := get(s, "/api/led"); code != http.StatusServiceUnavailable {
		t.Errorf("status before Start = %d, want 503", code)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Close()

	if code, body := get(s, "/api/led"); code != http.StatusOK || body != "led" {
		t.Errorf("after Start: status = %d body = %q, want 200 %q", code, body, "led")
	}
}

func TestReplayOrderFirstRegisteredWins(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestServer(Config{MaxURIHandlers: 4}, backend)

	// Two descriptors share URI+method; the first registered must stay
	// effective after replay.
	if err := s.Register(Endpoint{URI: "/api/led", Method: http.MethodGet, Handler: textHandler("first")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Register(Endpoint{URI: "/api/led", Method: http.MethodGet, Handler: textHandler("second")}); err != nil {
		t.Fatal(err)
	}

	// The conflict is detected at replay, not registration, so Start
	// must still succeed.
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Close()

	if _, body := get(s, "/api/led"); body != "first" {
		t.Errorf("effective handler = %q, want %q", body, "first")
	}
}

func TestBacklogSurvivesStopStartCycle(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 8}, &fakeBackend{})

	uris := []string{"/a", "/b", "/c"}
	for _, uri := range uris {
		if err := s.Register(Endpoint{URI: uri, Method: http.MethodGet, Handler: textHandler(uri)}); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}

	// Stopped: nothing reachable
	if code, _ := get(s, "/a"); code != http.StatusServiceUnavailable {
		t.Errorf("status while stopped = %d, want 503", code)
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for _, uri := range uris {
		if code, body := get(s, uri); code != http.StatusOK || body != uri {
			t.Errorf("GET %s after restart: status = %d body = %q", uri, code, body)
		}
	}
}

func TestIdempotentLifecycle(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestServer(Config{MaxURIHandlers: 4}, backend)

	if err := s.Register(Endpoint{URI: "/x", Method: http.MethodGet, Handler: textHandler("x")}); err != nil {
		t.Fatal(err)
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Errorf("second Start returned error: %v", err)
	}
	if backend.startCount != 1 {
		t.Errorf("backend started %d times, want 1", backend.startCount)
	}
	if len(backend.routes) != 1 {
		t.Errorf("route registered %d times, want 1", len(backend.routes))
	}

	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop returned error: %v", err)
	}
	if backend.stopCount != 1 {
		t.Errorf("backend stopped %d times, want 1", backend.stopCount)
	}
}

func TestImmediateRegistrationWhileRunning(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 4}, &fakeBackend{})

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Register(Endpoint{URI: "/live", Method: http.MethodGet, Handler: textHandler("live")}); err != nil {
		t.Fatalf("live Register failed: %v", err)
	}

	// Reachable without a further start/stop cycle
	if code, body := get(s, "/live"); code != http.StatusOK || body != "live" {
		t.Errorf("status = %d body = %q, want 200 %q", code, body, "live")
	}
}

func TestImmediateRegistrationFailureSurfaces(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 4}, &fakeBackend{})

	if err := s.Register(Endpoint{URI: "/dup", Method: http.MethodGet, Handler: textHandler("a")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Duplicate live registration surfaces synchronously, unlike the
	// swallowed replay failures.
	err := s.Register(Endpoint{URI: "/dup", Method: http.MethodGet, Handler: textHandler("b")})
	if !errors.Is(err, httpd.ErrHandlerExists) {
		t.Errorf("Register() error = %v, want ErrHandlerExists", err)
	}
}

func TestReplayFailuresAreSkipped(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 2}, &fakeBackend{})

	for i := 0; i < 4; i++ {
		uri := fmt.Sprintf("/r%d", i)
		if err := s.Register(Endpoint{URI: uri, Method: http.MethodGet, Handler: textHandler(uri)}); err != nil {
			t.Fatal(err)
		}
	}

	// Backlog exceeds the handler limit; startup must still succeed
	// with the first two registered.
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Close()

	if code, _ := get(s, "/r0"); code != http.StatusOK {
		t.Errorf("GET /r0 status = %d, want 200", code)
	}
	if code, _ := get(s, "/r3"); code != http.StatusNotFound {
		t.Errorf("GET /r3 status = %d, want 404", code)
	}
}

func TestUnregisterRequiresRunning(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 4}, &fakeBackend{})

	if err := s.Register(Endpoint{URI: "/api/led", Method: http.MethodGet, Handler: textHandler("led")}); err != nil {
		t.Fatal(err)
	}

	if err := s.Unregister("/api/led", http.MethodGet); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Unregister while stopped = %v, want ErrInvalidState", err)
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Unregister("/api/led", http.MethodGet); err != nil {
		t.Fatalf("Unregister while running failed: %v", err)
	}
	if code, _ := get(s, "/api/led"); code != http.StatusNotFound {
		t.Errorf("status after Unregister = %d, want 404", code)
	}

	// Unregister is a runtime-only override: a restart re-registers
	// the route from the backlog.
	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if code, _ := get(s, "/api/led"); code != http.StatusOK {
		t.Errorf("status after restart = %d, want 200", code)
	}
}

func TestBackendConfigDefaults(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantPort    int
		wantHandler int
		wantLRU     bool
	}{
		{
			name:        "all defaults",
			cfg:         Config{},
			wantPort:    httpd.DefaultPort,
			wantHandler: httpd.DefaultMaxURIHandlers,
		},
		{
			name:        "explicit overrides",
			cfg:         Config{Port: 9090, LRUPurgeEnable: true, MaxURIHandlers: 16},
			wantPort:    9090,
			wantHandler: 16,
			wantLRU:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			s := newTestServer(tt.cfg, backend)
			if err := s.Start(); err != nil {
				t.Fatal(err)
			}
			defer s.Close()

			if backend.startCfg.Port != tt.wantPort {
				t.Errorf("port = %d, want %d", backend.startCfg.Port, tt.wantPort)
			}
			if backend.startCfg.MaxURIHandlers != tt.wantHandler {
				t.Errorf("max handlers = %d, want %d", backend.startCfg.MaxURIHandlers, tt.wantHandler)
			}
			if backend.startCfg.LRUPurgeEnable != tt.wantLRU {
				t.Errorf("lru purge = %v, want %v", backend.startCfg.LRUPurgeEnable, tt.wantLRU)
			}
		})
	}
}

func TestStartFailurePropagates(t *testing.T) {
	backend := &fakeBackend{failOnStart: errors.New("bind failed")}
	s := newTestServer(Config{}, backend)

	if err := s.Start(); err == nil {
		t.Fatal("Start did not propagate backend failure")
	}
	if s.Running() {
		t.Error("facade reports running after failed Start")
	}
}

func TestNativeHandle(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 4}, &fakeBackend{})

	if s.Native() != nil {
		t.Error("Native() while stopped should be nil")
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if s.Native() == nil {
		t.Error("Native() while running should expose the backend")
	}

	if err := s.Stop(); err != nil {
		t.Fatal(err)
	}
	if s.Native() != nil {
		t.Error("Native() after Stop should be nil")
	}
}

func TestCloseIdempotentAndNilSafe(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 4}, &fakeBackend{})
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}

	var absent *Server
	if err := absent.Close(); err != nil {
		t.Errorf("Close on nil instance returned error: %v", err)
	}
}

func TestClosedInstanceRejectsUse(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 4}, &fakeBackend{})
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	err := s.Register(Endpoint{URI: "/api/led", Method: http.MethodGet, Handler: textHandler("x")})
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("Register after Close: err = %v, want ErrInvalidState", err)
	}

	if err := s.Start(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Start after Close: err = %v, want ErrInvalidState", err)
	}

	if got := s.Pending(); got != 0 {
		t.Errorf("Pending() after Close = %d, want 0", got)
	}
}

func TestHandlePatternRegistration(t *testing.T) {
	s := newTestServer(Config{MaxURIHandlers: 4}, &fakeBackend{})

	s.Handle("GET /api/health", textHandler("ok"))
	if s.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", s.Pending())
	}

	// Patterns without a method cannot be registered
	s.Handle("/no-method", textHandler("x"))
	if s.Pending() != 1 {
		t.Errorf("pattern without method was recorded")
	}

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if code, body := get(s, "/api/health"); code != http.StatusOK || body != "ok" {
		t.Errorf("status = %d body = %q, want 200 %q", code, body, "ok")
	}
}
