package gpio

import (
	"log/slog"
	"os"
)

// Open returns a Pin for the given GPIO number.
// On hosts exposing the sysfs GPIO class the pin is driven through
// /sys/class/gpio; everywhere else an in-memory pin is returned so the
// application still runs.
func Open(number int, logger *slog.Logger) Pin {
	if _, err := os.Stat(sysfsGPIOPath); err == nil {
		pin, sysfsErr := newSysfsPin(number)
		if sysfsErr == nil {
			if logger != nil {
				logger.Info("Using sysfs GPIO pin", "pin", number)
			}
			return pin
		}
		if logger != nil {
			logger.Warn("sysfs GPIO unavailable, falling back to memory pin",
				"pin", number,
				"error", sysfsErr)
		}
	} else if logger != nil {
		logger.Info("No GPIO support detected, using memory pin", "pin", number)
	}

	return newMemoryPin(number, logger)
}
