// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package config

import "time"

// System holds the knobs a host needs to wire up mooring and its own
// logging before calling mooring.StartSystem. It is the union of a
// mooring.Config (tree tuning) and the internal/logging.Config this
// module's own components log through.
type System struct {
	// Supervision tree tuning, passed straight to mooring.Config.
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`

	// Logging, passed to internal/logging.Init.
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	LogCaller bool   `koanf:"log_caller"`

	// CronTimezone is the *time.Location name used by NewCronOracle when a
	// host doesn't pin an activity to an explicit timezone of its own.
	CronTimezone string `koanf:"cron_timezone"`
}
