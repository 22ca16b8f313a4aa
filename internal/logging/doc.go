// Package logging provides per-module structured loggers built on
// log/slog. Log records fan out to stdout (text or JSON), the systemd
// journal when available, and an in-memory ring buffer that backs the
// /api/logs endpoint. Module levels can be changed at runtime.
package logging
