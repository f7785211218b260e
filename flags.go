// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import "sync"

// Flag is a one-way latch: once Set, it stays set for the lifetime of the
// process. Done returns a channel that is closed exactly once, at the moment
// Set is called, so any number of goroutines can select on it without
// missing the transition regardless of when they start watching.
//
// This is the level-triggered signal primitive the lifecycle state machine
// uses for "started", "crashed" and "stopped" — each is a fact that, once
// true, is never un-true for that Service instance.
type Flag struct {
	mu   sync.Mutex
	ch   chan struct{}
	isSet bool
}

// NewFlag returns an unset Flag.
func NewFlag() *Flag {
	return &Flag{ch: make(chan struct{})}
}

// Set latches the flag. Calling Set more than once is a no-op.
func (f *Flag) Set() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isSet {
		return
	}
	f.isSet = true
	close(f.ch)
}

// IsSet reports whether Set has been called.
func (f *Flag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isSet
}

// Done returns a channel that is closed when the flag is set. Safe to call
// before or after Set.
func (f *Flag) Done() <-chan struct{} {
	return f.ch
}
