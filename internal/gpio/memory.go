package gpio

import (
	"log/slog"
	"sync/atomic"
)

// memoryPin implements Pin for hosts without GPIO hardware.
// It records the level in memory so the rest of the system behaves
// normally during development and tests.
type memoryPin struct {
	number int
	logger *slog.Logger
	level  atomic.Int32
}

// newMemoryPin creates a new in-memory pin.
func newMemoryPin(number int, logger *slog.Logger) *memoryPin {
	return &memoryPin{
		number: number,
		logger: logger,
	}
}

// SetLevel records the level without touching hardware.
func (p *memoryPin) SetLevel(level int) error {
	if level != 0 {
		level = 1
	}
	p.level.Store(int32(level))
	if p.logger != nil {
		p.logger.Debug("GPIO hardware not available (memory pin)",
			"pin", p.number,
			"level", level)
	}
	return nil
}

// Level returns the recorded level.
func (p *memoryPin) Level() int {
	return int(p.level.Load())
}

// Close is a no-op.
func (p *memoryPin) Close() error {
	return nil
}
