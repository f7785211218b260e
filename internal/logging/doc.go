// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

// Package logging provides centralized zerolog-based structured logging
// used by mooring's own components and by cmd/demo.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output format for production (machine-parseable)
//   - Console output format for development (human-readable)
//   - Global logger configuration via Init(Config)
//   - An slog adapter (slog_adapter.go) bridging to mooring.Logger and to
//     sutureslog's EventHook
//
// # Quick Start
//
//	import "github.com/mooring-go/mooring/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Caller: false,
//	})
//
//	// Log messages with structured fields
//	logging.Info().Str("service", "worker").Msg("started")
//	logging.Error().Err(err).Msg("activity crashed")
//
// # Configuration
//
// The package reads no environment variables for its settings; the only one
// it consults is FUZZ_MODE=1, which makes the initial logger log only fatal
// messages. Hosts pass settings to Init through Config:
//
//	Level   - Minimum log level: trace, debug, info, warn, error (default: info)
//	Format  - Output format: json, console (default: json)
//	Caller  - Include caller file:line: true, false (default: false)
//
// cmd/demo fills these from internal/config (MOORING_LOG_LEVEL,
// MOORING_LOG_FORMAT, MOORING_LOG_CALLER).
//
// # Log Levels
//
// Supported log levels (from most to least verbose):
//
//	trace  - Very detailed diagnostic information
//	debug  - Detailed diagnostic information
//	info   - General operational information (default)
//	warn   - Warning conditions that should be addressed
//	error  - Error conditions requiring attention
//	fatal  - Fatal errors that terminate the program
//	panic  - Panic conditions that crash the program
//
// # Component Loggers
//
// Create component-specific loggers with default fields:
//
//	registryLogger := logging.With().Str("component", "registry").Logger()
//	registryLogger.Info().Msg("task registry started")
//
// # slog Adapter
//
// The package provides an slog adapter for libraries that require
// slog.Logger, and for satisfying mooring.NewSlogLogger:
//
//	slogLogger := logging.NewSlogLogger()
//	hostLogger := mooring.NewSlogLogger(slogLogger)
//
// # Thread Safety
//
// All exported functions are safe for concurrent use. The global logger
// is protected by sync.RWMutex for configuration changes.
//
// # Testing
//
// Create test loggers that capture output:
//
//	var buf bytes.Buffer
//	logger := logging.NewTestLogger(&buf)
//	logger.Info().Msg("test message")
//	output := buf.String()
//
// # See Also
//
//   - github.com/rs/zerolog: Underlying logging library
//   - github.com/thejerf/sutureslog: EventHook bridge consuming this
//     package's slog adapter
package logging
