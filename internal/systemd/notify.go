// Package systemd integrates the daemon with the systemd service
// manager: readiness notification and watchdog keepalives.
package systemd

import (
	"context"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier reports daemon state over the sd_notify socket. All calls
// degrade to no-ops when the process is not running under systemd.
type Notifier struct {
	logger *slog.Logger
	cancel context.CancelFunc
}

// NewNotifier creates a notifier.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Ready sends READY=1 and, when the unit has WatchdogSec set, starts a
// keepalive loop pinging at half the configured interval.
func (n *Notifier) Ready() {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		n.logger.Warn("systemd notify failed", "error", err)
		return
	}
	if !sent {
		n.logger.Debug("Not running under systemd, notifications disabled")
		return
	}

	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval == 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	go func() {
		ticker := time.NewTicker(interval / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, pingErr := daemon.SdNotify(false, daemon.SdNotifyWatchdog); pingErr != nil {
					n.logger.Warn("systemd watchdog ping failed", "error", pingErr)
				}
			}
		}
	}()

	n.logger.Info("systemd watchdog enabled", "interval", interval)
}

// Stopping sends STOPPING=1 and halts the watchdog loop.
func (n *Notifier) Stopping() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		n.logger.Warn("systemd notify failed", "error", err)
	}
}
