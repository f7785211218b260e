// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where a config file is searched for,
// in order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mooring/config.yaml",
	"/etc/mooring/config.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config
// file search path.
const ConfigPathEnvVar = "MOORING_CONFIG_PATH"

// defaultSystem returns the built-in defaults, matching mooring.DefaultConfig
// and internal/logging.DefaultConfig so an unconfigured host still gets
// sane production values.
func defaultSystem() *System {
	return &System{
		ShutdownTimeout:  10 * time.Second,
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		LogLevel:         "info",
		LogFormat:        "json",
		LogCaller:        false,
		CronTimezone:     "UTC",
	}
}

// Load loads a System using Koanf v2 with layered sources, in increasing
// order of precedence:
//
//  1. Defaults: the built-in values from defaultSystem
//  2. Config File: an optional YAML file, found via ConfigPathEnvVar or
//     DefaultConfigPaths
//  3. Environment Variables: MOORING_* overrides
func Load() (*System, error) {
	k := koanf.New(".")

	defaults := defaultSystem()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("MOORING_", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	sys := &System{}
	if err := k.Unmarshal("", sys); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	return sys, nil
}

// findConfigFile searches for a config file in the default paths, honoring
// ConfigPathEnvVar first.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc maps MOORING_-prefixed environment variable names to
// koanf config paths, e.g. MOORING_SHUTDOWN_TIMEOUT -> shutdown_timeout.
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, "MOORING_")
	return strings.ToLower(key)
}

// GetKoanfInstance returns a fresh Koanf instance for advanced usage, such
// as a host layering its own config sources on top of Load's result.
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}
