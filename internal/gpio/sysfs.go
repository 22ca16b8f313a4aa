package gpio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"
)

const sysfsGPIOPath = "/sys/class/gpio"

// sysfsPin implements Pin using the Linux sysfs GPIO interface.
type sysfsPin struct {
	number int
	dir    string
	level  atomic.Int32
}

// newSysfsPin exports the pin, configures it as an output and drives it low.
func newSysfsPin(number int) (*sysfsPin, error) {
	p := &sysfsPin{
		number: number,
		dir:    filepath.Join(sysfsGPIOPath, fmt.Sprintf("gpio%d", number)),
	}

	if _, err := os.Stat(p.dir); os.IsNotExist(err) {
		exportPath := filepath.Join(sysfsGPIOPath, "export")
		if writeErr := os.WriteFile(exportPath, []byte(strconv.Itoa(number)), 0o644); writeErr != nil {
			return nil, fmt.Errorf("failed to export gpio%d: %w", number, writeErr)
		}
		// The kernel creates the pin directory asynchronously
		if waitErr := waitForPath(p.dir, 500*time.Millisecond); waitErr != nil {
			return nil, waitErr
		}
	}

	directionPath := filepath.Join(p.dir, "direction")
	if err := os.WriteFile(directionPath, []byte("out"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to set gpio%d as output: %w", number, err)
	}

	if err := p.SetLevel(0); err != nil {
		return nil, err
	}
	return p, nil
}

// SetLevel drives the pin to the given logic level.
func (p *sysfsPin) SetLevel(level int) error {
	if level != 0 {
		level = 1
	}

	valuePath := filepath.Join(p.dir, "value")
	if err := os.WriteFile(valuePath, []byte(strconv.Itoa(level)), 0o644); err != nil {
		return fmt.Errorf("failed to set gpio%d level: %w", p.number, err)
	}

	p.level.Store(int32(level))
	return nil
}

// Level returns the last level driven on the pin.
func (p *sysfsPin) Level() int {
	return int(p.level.Load())
}

// Close unexports the pin.
func (p *sysfsPin) Close() error {
	unexportPath := filepath.Join(sysfsGPIOPath, "unexport")
	if err := os.WriteFile(unexportPath, []byte(strconv.Itoa(p.number)), 0o644); err != nil {
		return fmt.Errorf("failed to unexport gpio%d: %w", p.number, err)
	}
	return nil
}

// waitForPath polls until path exists or the timeout elapses.
func waitForPath(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("gpio path %s did not appear", path)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
