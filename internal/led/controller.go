package led

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/MpDev89/lednode/internal/events"
	"github.com/MpDev89/lednode/internal/gpio"
)

// State is a snapshot of the LED.
type State struct {
	On        bool
	GPIOLevel int
}

// Controller drives one LED through a GPIO pin.
// ActiveLow wiring means logic level 0 turns the LED on.
type Controller struct {
	pin       gpio.Pin
	activeLow bool
	bus       *events.Bus
	logger    *slog.Logger

	mu    sync.Mutex
	level int
}

// NewController creates a controller for the given pin.
// The event bus is optional; when set, every level transition publishes
// an LEDStateChangedEvent.
func NewController(pin gpio.Pin, activeLow bool, bus *events.Bus, logger *slog.Logger) *Controller {
	return &Controller{
		pin:       pin,
		activeLow: activeLow,
		bus:       bus,
		logger:    logger,
		level:     pin.Level(),
	}
}

// SetLevel drives the pin to a raw logic level (0 or 1), with no
// logical interpretation.
func (c *Controller) SetLevel(level int) error {
	if level != 0 {
		level = 1
	}
	return c.apply(level)
}

// SetState turns the LED logically on or off, honoring active-low wiring.
func (c *Controller) SetState(on bool) error {
	return c.apply(c.levelFor(on))
}

// State returns the current LED snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		On:        c.onAt(c.level),
		GPIOLevel: c.level,
	}
}

// apply drives the pin and publishes the transition.
func (c *Controller) apply(level int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.pin.SetLevel(level); err != nil {
		return err
	}
	c.level = level

	on := c.onAt(level)
	if c.logger != nil {
		c.logger.Debug("LED level set", "gpio_level", level, "led_on", on)
	}
	if c.bus != nil {
		c.bus.Publish(events.LEDStateChangedEvent{
			On:        on,
			GPIOLevel: level,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
	return nil
}

// onAt reports whether the LED is lit at the given pin level.
func (c *Controller) onAt(level int) bool {
	if c.activeLow {
		return level == 0
	}
	return level == 1
}

// levelFor returns the pin level that lights (or extinguishes) the LED.
func (c *Controller) levelFor(on bool) int {
	lvl := 0
	if on {
		lvl = 1
	}
	if c.activeLow {
		lvl = 1 - lvl
	}
	return lvl
}

// ParseState parses a client-supplied LED value. Accepts 1/on/true and
// 0/off/false, case-insensitively. The second return value is false for
// anything else.
func ParseState(s string) (int, bool) {
	switch strings.ToLower(s) {
	case "1", "on", "true":
		return 1, true
	case "0", "off", "false":
		return 0, true
	default:
		return 0, false
	}
}
