package logging

import (
	"context"
	"errors"
	"log/slog"
)

// FanoutHandler duplicates each record across a set of sink handlers
// (stdout, journal, ring buffer). The shared level gate uses the same
// LevelVar as the rest of the chain, so runtime level changes apply to
// every sink at once.
type FanoutHandler struct {
	level slog.Leveler
	sinks []slog.Handler
}

// NewFanoutHandler creates a handler that forwards records to every sink.
func NewFanoutHandler(level slog.Leveler, sinks ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{level: level, sinks: sinks}
}

// Enabled implements slog.Handler.
func (h *FanoutHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle forwards the record to every sink that accepts its level.
// Sink errors are collected; a failing sink does not stop the others.
func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, sink := range h.sinks {
		if !sink.Enabled(ctx, r.Level) {
			continue
		}
		if err := sink.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs implements slog.Handler.
func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		sinks[i] = sink.WithAttrs(attrs)
	}
	return &FanoutHandler{level: h.level, sinks: sinks}
}

// WithGroup implements slog.Handler.
func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	sinks := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		sinks[i] = sink.WithGroup(name)
	}
	return &FanoutHandler{level: h.level, sinks: sinks}
}
