package led

import (
	"log/slog"
	"sync"

	"github.com/MpDev89/lednode/internal/events"
)

// StatusSetter abstracts the board status LED for the manager.
type StatusSetter interface {
	Set(enabled bool, trigger string) error
}

// Manager mirrors system state onto the board status LED:
// heartbeat while the HTTP server is down, solid while the server is up
// and the controlled LED is lit, off otherwise.
type Manager struct {
	status      StatusSetter
	eventBus    *events.Bus
	logger      *slog.Logger
	unsubscribe []func()

	mu      sync.Mutex
	running bool
	ledOn   bool
}

// NewManager creates a manager that reacts to LED and server state events.
func NewManager(status StatusSetter, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		status:   status,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Start subscribes to events and applies the initial pattern.
func (m *Manager) Start() {
	m.unsubscribe = append(m.unsubscribe,
		m.eventBus.Subscribe(func(e events.LEDStateChangedEvent) {
			m.mu.Lock()
			m.ledOn = e.On
			m.mu.Unlock()
			m.updateStatusLED()
		}),
		m.eventBus.Subscribe(func(e events.ServerStateChangedEvent) {
			m.mu.Lock()
			m.running = e.Running
			m.mu.Unlock()
			m.updateStatusLED()
		}),
	)
	m.updateStatusLED()
	m.logger.Info("Status LED manager started")
}

// Stop unsubscribes from events.
func (m *Manager) Stop() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
	m.logger.Info("Status LED manager stopped")
}

// updateStatusLED applies the pattern for the current aggregate state.
func (m *Manager) updateStatusLED() {
	m.mu.Lock()
	running, ledOn := m.running, m.ledOn
	m.mu.Unlock()

	var err error
	switch {
	case !running:
		err = m.status.Set(true, "heartbeat")
	case ledOn:
		err = m.status.Set(true, "none")
	default:
		err = m.status.Set(false, "none")
	}
	if err != nil {
		m.logger.Warn("Failed to update status LED", "error", err)
	}
}
