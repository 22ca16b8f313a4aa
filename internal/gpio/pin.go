package gpio

// Pin abstracts a single digital output pin.
// Implementations handle the platform-specific mechanics; callers deal
// only in logic levels (0 or 1).
type Pin interface {
	// SetLevel drives the pin to the given logic level (0 or 1).
	SetLevel(level int) error

	// Level returns the last level driven on the pin.
	Level() int

	// Close releases the pin.
	Close() error
}
