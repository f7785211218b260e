// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	sys, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, sys.ShutdownTimeout)
	assert.Equal(t, 5.0, sys.FailureThreshold)
	assert.Equal(t, 30.0, sys.FailureDecay)
	assert.Equal(t, 15*time.Second, sys.FailureBackoff)
	assert.Equal(t, "info", sys.LogLevel)
	assert.Equal(t, "json", sys.LogFormat)
	assert.Equal(t, "UTC", sys.CronTimezone)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MOORING_LOG_LEVEL", "debug")
	t.Setenv("MOORING_SHUTDOWN_TIMEOUT", "2s")

	sys, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", sys.LogLevel)
	assert.Equal(t, 2*time.Second, sys.ShutdownTimeout)
}

func TestFindConfigFileNone(t *testing.T) {
	assert.Equal(t, "", findConfigFile())
}
