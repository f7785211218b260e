// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import (
	"log/slog"
	"time"
)

// Config controls every Task Registry's underlying suture.Supervisor, and
// supplies the Logger every Service logs lifecycle events through. One
// Config is shared across an entire supervision tree, set once via
// StartSystem.
type Config struct {
	// FailureThreshold is the number of decayed failures a Registry's
	// supervisor tolerates before entering backoff.
	FailureThreshold float64
	// FailureDecay is, in seconds, how quickly the failure counter decays.
	FailureDecay float64
	// FailureBackoff is how long a Registry's supervisor waits before
	// restarting an activity once FailureThreshold is exceeded.
	FailureBackoff time.Duration
	// ShutdownTimeout bounds how long Stop waits, at every level of the
	// tree, before giving up on an activity and reporting it unstopped.
	ShutdownTimeout time.Duration

	// Logger receives lifecycle events (state transitions, crashes,
	// restarts, force-cancels). Defaults to a no-op logger.
	Logger Logger
	// SlogLogger backs the sutureslog event hook each Registry's
	// supervisor logs through. Defaults to slog.Default().
	SlogLogger *slog.Logger
}

// DefaultConfig returns conservative production defaults: FailureThreshold
// 5, FailureDecay 30s, FailureBackoff 15s, ShutdownTimeout 10s.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		Logger:           noopLogger{},
	}
}

func (c Config) logger() Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return noopLogger{}
}
