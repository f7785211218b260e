// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleepTimerExpires(t *testing.T) {
	wk, idx := Sleep(context.Background(), 10*time.Millisecond)
	assert.Equal(t, WakeupTimer, wk)
	assert.Equal(t, -1, idx)
}

func TestSleepZeroDurationYieldsOnce(t *testing.T) {
	start := time.Now()
	wk, _ := Sleep(context.Background(), 0)
	assert.Equal(t, WakeupTimer, wk)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wk, idx := Sleep(ctx, time.Hour)
	assert.Equal(t, WakeupContext, wk)
	assert.Equal(t, -1, idx)
}

func TestSleepSignal(t *testing.T) {
	sig0 := make(chan struct{})
	sig1 := make(chan struct{})
	close(sig1)

	wk, idx := Sleep(context.Background(), time.Hour, sig0, sig1)
	assert.Equal(t, WakeupSignal, wk)
	assert.Equal(t, 1, idx)
}
