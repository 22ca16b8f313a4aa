package led

import (
	"fmt"
	"os"
	"path/filepath"
)

const sysfsLEDPath = "/sys/class/leds"

// StatusLED drives a board LED through the Linux sysfs LED class.
// Used as a headless-debugging mirror of the controlled LED and of the
// server lifecycle, not as the LED the HTTP API controls.
type StatusLED struct {
	name string
}

// NewStatusLED creates a sysfs status LED writer for the given LED name
// under /sys/class/leds.
func NewStatusLED(name string) *StatusLED {
	return &StatusLED{name: name}
}

// Available reports whether the LED exists on this board.
func (s *StatusLED) Available() bool {
	_, err := os.Stat(filepath.Join(sysfsLEDPath, s.name))
	return err == nil
}

// Set applies a trigger and brightness to the LED.
// Trigger "none" gives manual control; "heartbeat" blinks.
func (s *StatusLED) Set(enabled bool, trigger string) error {
	ledPath := filepath.Join(sysfsLEDPath, s.name)

	if _, err := os.Stat(ledPath); os.IsNotExist(err) {
		return fmt.Errorf("status LED %q not found at %s", s.name, ledPath)
	}

	if trigger != "" {
		triggerPath := filepath.Join(ledPath, "trigger")
		if err := os.WriteFile(triggerPath, []byte(trigger), 0o644); err != nil {
			return fmt.Errorf("failed to set status LED trigger: %w", err)
		}
	}

	brightness := "0"
	if enabled {
		brightness = "1"
	}
	brightnessPath := filepath.Join(ledPath, "brightness")
	if err := os.WriteFile(brightnessPath, []byte(brightness), 0o644); err != nil {
		return fmt.Errorf("failed to set status LED brightness: %w", err)
	}

	return nil
}
