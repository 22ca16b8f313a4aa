package httpd

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func textHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	})
}

func startTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	if cfg.Port == 0 {
		cfg.Port = freePort(t)
	}
	s, err := Start(cfg)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { s.Stop() })
	return s
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Port != DefaultPort {
		t.Errorf("default port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.MaxURIHandlers != DefaultMaxURIHandlers {
		t.Errorf("default max handlers = %d, want %d", cfg.MaxURIHandlers, DefaultMaxURIHandlers)
	}

	cfg = Config{Port: 9000, MaxURIHandlers: 16}.withDefaults()
	if cfg.Port != 9000 || cfg.MaxURIHandlers != 16 {
		t.Errorf("explicit values were overridden: %+v", cfg)
	}
}

func TestRouterFirstMatchWins(t *testing.T) {
	s := startTestServer(t, Config{MaxURIHandlers: 4})

	if err := s.Register("/api/led", http.MethodGet, textHandler("first")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Duplicate registration is rejected, first handler stays effective
	err := s.Register("/api/led", http.MethodGet, textHandler("second"))
	if err == nil {
		t.Fatal("duplicate Register did not fail")
	}
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("unexpected error: %v", err)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/led", nil))
	if rec.Body.String() != "first" {
		t.Errorf("body = %q, want %q", rec.Body.String(), "first")
	}
}

func TestRouterHandlersFull(t *testing.T) {
	s := startTestServer(t, Config{MaxURIHandlers: 2})

	if err := s.Register("/a", http.MethodGet, textHandler("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.Register("/b", http.MethodGet, textHandler("b")); err != nil {
		t.Fatal(err)
	}

	err := s.Register("/c", http.MethodGet, textHandler("c"))
	if err == nil {
		t.Fatal("Register beyond MaxURIHandlers did not fail")
	}
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	s := startTestServer(t, Config{MaxURIHandlers: 4})
	if err := s.Register("/api/led", http.MethodGet, textHandler("ok")); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown URI status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/led", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d, want 405", rec.Code)
	}
}

func TestUnregister(t *testing.T) {
	s := startTestServer(t, Config{MaxURIHandlers: 4})
	if err := s.Register("/api/led", http.MethodGet, textHandler("ok")); err != nil {
		t.Fatal(err)
	}

	if err := s.Unregister("/api/led", http.MethodGet); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/led", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after Unregister = %d, want 404", rec.Code)
	}

	if err := s.Unregister("/api/led", http.MethodGet); err == nil {
		t.Error("Unregister of a removed route did not fail")
	}
}

func TestServerServesOverTCP(t *testing.T) {
	s := startTestServer(t, Config{MaxURIHandlers: 4})
	if err := s.Register("/ping", http.MethodGet, textHandler("pong")); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/ping")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "pong" {
		t.Errorf("body = %q, want %q", body, "pong")
	}
}

func TestWriteErrorCanonicalBody(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteError(rec, http.StatusNotFound, "This URI does not exist"); err != nil {
		t.Fatalf("WriteError failed: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var body struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body.Code != 404 || body.Status != "Not Found" || body.Message != "This URI does not exist" {
		t.Errorf("unexpected body: %+v", body)
	}
}
