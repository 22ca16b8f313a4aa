// Package metrics provides Prometheus metrics for the HTTP surface and
// the LED hardware.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MpDev89/lednode/internal/events"
)

// Handler returns the Prometheus scrape handler. All promauto-registered
// collectors are exposed automatically.
func Handler() http.Handler {
	return promhttp.Handler()
}

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lednode",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, path and status code",
	}, []string{"method", "path", "code"})

	ledTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lednode",
		Subsystem: "led",
		Name:      "transitions_total",
		Help:      "LED state transitions applied to the GPIO pin",
	})

	ledLevel = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lednode",
		Subsystem: "led",
		Name:      "gpio_level",
		Help:      "Current raw GPIO level driving the LED",
	})

	serverUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lednode",
		Subsystem: "http",
		Name:      "server_up",
		Help:      "Whether the HTTP server is running (1) or stopped (0)",
	})
)

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, path string, code int) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
}

// Subscribe feeds the LED and server gauges from the event bus. The
// returned function detaches the collectors from the bus.
func Subscribe(bus *events.Bus) func() {
	cancelLED := bus.Subscribe(func(ev events.LEDStateChangedEvent) {
		ledTransitions.Inc()
		ledLevel.Set(float64(ev.GPIOLevel))
	})
	cancelServer := bus.Subscribe(func(ev events.ServerStateChangedEvent) {
		if ev.Running {
			serverUp.Set(1)
		} else {
			serverUp.Set(0)
		}
	})
	return func() {
		cancelLED()
		cancelServer()
	}
}
