package logging

import (
	"fmt"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		valid bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			if tt.valid {
				if got == nil {
					t.Fatalf("parseLevel(%q) = nil, want %v", tt.input, tt.want)
				}
				if *got != tt.want {
					t.Errorf("parseLevel(%q) = %v, want %v", tt.input, *got, tt.want)
				}
			} else if got != nil {
				t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
			}
		})
	}
}

func TestGetLoggerReturnsSameInstance(t *testing.T) {
	a := GetLogger("hal")
	b := GetLogger("hal")
	if a != b {
		t.Error("GetLogger returned different instances for the same module")
	}
}

func TestInitializeAppliesModuleLevels(t *testing.T) {
	Initialize(Config{
		Level:   "info",
		Format:  "text",
		Modules: map[string]string{"gpio": "debug"},
	})

	gpioLogger := GetLogger("gpio")
	if !gpioLogger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("gpio logger should be enabled at debug level")
	}

	halLogger := GetLogger("hal")
	if halLogger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("hal logger should not be enabled at debug level")
	}
}

func TestReconfigureChangesLevels(t *testing.T) {
	Initialize(Config{Level: "info", Format: "text"})
	logger := GetLogger("httpd")

	if logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("httpd logger unexpectedly at debug level")
	}

	Reconfigure(Config{
		Level:   "info",
		Modules: map[string]string{"httpd": "debug"},
	})

	if !logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("Reconfigure did not lower httpd logger to debug")
	}
}

func TestRingBufferWraparound(t *testing.T) {
	rb := NewRingBuffer(3)

	for i := 0; i < 5; i++ {
		rb.Write(LogEntry{Message: fmt.Sprintf("msg-%d", i)})
	}

	if rb.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", rb.Count())
	}

	entries := rb.ReadAll()
	want := []string{"msg-2", "msg-3", "msg-4"}
	for i, w := range want {
		if entries[i].Message != w {
			t.Errorf("entries[%d].Message = %q, want %q", i, entries[i].Message, w)
		}
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer(4)
	if got := rb.ReadAll(); got != nil {
		t.Errorf("ReadAll() on empty buffer = %v, want nil", got)
	}
}

func TestBufferHandlerRecordsEntries(t *testing.T) {
	Initialize(Config{Level: "info", Format: "text"})

	logger := GetLogger("buffer-test")
	logger.Info("hello from test", "key", "value")

	entries := GetBuffer().ReadAll()
	found := false
	for _, e := range entries {
		if e.Module == "buffer-test" && e.Message == "hello from test" {
			found = true
			if e.Attributes["key"] != "value" {
				t.Errorf("attribute key = %v, want %q", e.Attributes["key"], "value")
			}
		}
	}
	if !found {
		t.Error("log entry not recorded in ring buffer")
	}
}
