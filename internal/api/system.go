package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/MpDev89/lednode/internal/logging"
	"github.com/MpDev89/lednode/internal/version"
)

// HealthResponse reports API liveness.
type HealthResponse struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

// VersionResponse reports build information.
type VersionResponse struct {
	Body struct {
		Version   string `json:"version"`
		GitCommit string `json:"git_commit"`
		BuildDate string `json:"build_date"`
		GoVersion string `json:"go_version"`
		Platform  string `json:"platform"`
	}
}

// LogRecord is one entry from the in-memory log buffer.
type LogRecord struct {
	Timestamp  string         `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// LogsResponse returns recent log entries, oldest first.
type LogsResponse struct {
	Body struct {
		Entries []LogRecord `json:"entries"`
	}
}

// registerSystemRoutes declares health, version and log endpoints.
func (s *Server) registerSystemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"system"},
	}, func(ctx context.Context, input *struct{}) (*HealthResponse, error) {
		resp := &HealthResponse{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
	}, func(ctx context.Context, input *struct{}) (*VersionResponse, error) {
		info := version.Get()
		resp := &VersionResponse{}
		resp.Body.Version = info.Version
		resp.Body.GitCommit = info.GitCommit
		resp.Body.BuildDate = info.BuildDate
		resp.Body.GoVersion = info.GoVersion
		resp.Body.Platform = info.Platform
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Logs",
		Description: "Recent log entries from the in-memory ring buffer, oldest first",
		Tags:        []string{"system"},
	}, func(ctx context.Context, input *struct{}) (*LogsResponse, error) {
		resp := &LogsResponse{}
		resp.Body.Entries = []LogRecord{}

		buffer := logging.GetBuffer()
		if buffer == nil {
			return resp, nil
		}

		for _, entry := range buffer.ReadAll() {
			resp.Body.Entries = append(resp.Body.Entries, LogRecord{
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		}
		return resp, nil
	})
}
