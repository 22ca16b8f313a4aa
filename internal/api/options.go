package api

import (
	"net/http"

	"github.com/MpDev89/lednode/internal/events"
	"github.com/MpDev89/lednode/internal/hal"
	"github.com/MpDev89/lednode/internal/led"
)

// Options carries the collaborators the API server needs.
type Options struct {
	// HAL holds the underlying server knobs: port, idle purge, route
	// table capacity.
	HAL hal.Config

	// LED is the controller driving the board LED. Required.
	LED *led.Controller

	// EventBus receives server lifecycle events. Optional.
	EventBus *events.Bus

	// PrometheusHandler, when set, is exposed at /metrics.
	PrometheusHandler http.Handler
}
