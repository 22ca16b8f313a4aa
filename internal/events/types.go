package events

// Event type constants for kelindar/event.
const (
	TypeLEDStateChanged uint32 = iota + 1
	TypeServerStateChanged
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LEDStateChangedEvent is published whenever the LED level changes,
// regardless of which input form (raw level or logical state) caused it.
type LEDStateChangedEvent struct {
	On        bool   `json:"on" doc:"Whether the LED is logically on"`
	GPIOLevel int    `json:"gpio_level" doc:"Logic level driven on the pin"`
	Timestamp string `json:"timestamp" example:"2026-02-19T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LEDStateChangedEvent.
func (e LEDStateChangedEvent) Type() uint32 { return TypeLEDStateChanged }

// ServerStateChangedEvent is published when the HTTP server transitions
// between stopped and running. Used by the status LED manager.
type ServerStateChangedEvent struct {
	Running   bool   `json:"running" doc:"Whether the HTTP server is running"`
	Timestamp string `json:"timestamp" doc:"Event timestamp"`
}

// Type returns the event type identifier for ServerStateChangedEvent.
func (e ServerStateChangedEvent) Type() uint32 { return TypeServerStateChanged }
