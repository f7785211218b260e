// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

/*
Package config loads the System knobs cmd/demo (or any other host) needs to
start mooring and internal/logging, using a three-layer Koanf v2 loader:
defaults, an optional YAML file, then MOORING_-prefixed environment
variables.

# Configuration Sources

	1. Defaults       defaultSystem(), matching mooring.DefaultConfig
	2. Config File    YAML, found via MOORING_CONFIG_PATH or DefaultConfigPaths
	3. Environment    MOORING_* variables, highest priority

# Environment Variables

	MOORING_CONFIG_PATH        Path to a YAML config file
	MOORING_SHUTDOWN_TIMEOUT   Drain deadline in Service.Stop before CancelAll
	MOORING_FAILURE_THRESHOLD  suture.Spec.FailureThreshold
	MOORING_FAILURE_DECAY      suture.Spec.FailureDecay
	MOORING_FAILURE_BACKOFF    suture.Spec.FailureBackoff
	MOORING_LOG_LEVEL          trace, debug, info, warn, error
	MOORING_LOG_FORMAT         json, console
	MOORING_LOG_CALLER         true, false
	MOORING_CRON_TIMEZONE      IANA timezone name, e.g. "UTC", "America/New_York"

# Usage Example

	import "github.com/mooring-go/mooring/internal/config"

	sys, err := config.Load()
	if err != nil {
	    log.Fatalf("failed to load config: %v", err)
	}

	treeCfg := mooring.Config{
	    FailureThreshold: sys.FailureThreshold,
	    FailureDecay:     sys.FailureDecay,
	    FailureBackoff:   sys.FailureBackoff,
	    ShutdownTimeout:  sys.ShutdownTimeout,
	}

# Validation

Load does not itself validate sys; internal/validation.ValidateTreeConfig
checks the supervision-tree fields before a host hands them to
mooring.StartSystem, keeping "load" and "validate" as separate concerns.

# Thread Safety

A *System returned by Load is immutable after return, safe for concurrent
reads without synchronization.

# See Also

  - github.com/knadh/koanf/v2: underlying layered config loader
  - internal/validation: validates the System fields Load produces
*/
package config
