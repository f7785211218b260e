// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"
)

// ActivityFunc is the body of a background activity. It must return
// promptly once ctx is cancelled.
type ActivityFunc func(ctx context.Context) error

type activityKind int

const (
	kindFuture activityKind = iota
	kindLoop
	kindInterval
	kindCron
)

// IntervalMode selects how an interval activity schedules its next run.
type IntervalMode int

const (
	// IntervalEager runs immediately, then waits interval between runs.
	IntervalEager IntervalMode = iota
	// IntervalLazy waits interval before the first run, and before every
	// run after that.
	IntervalLazy
	// IntervalDriftCorrected schedules each run at a fixed offset from the
	// activity's start time instead of from the end of the previous run,
	// so a slow run does not push every subsequent run later.
	IntervalDriftCorrected
)

// activity adapts one of the four activity kinds (one-shot future,
// repeating loop, fixed-interval, crontab) to suture.Service, the unit the
// task registry actually supervises: one struct, driven entirely by the
// data set on it, instead of four separate suture.Service types.
type activity struct {
	name string
	kind activityKind
	fn   ActivityFunc

	interval time.Duration
	mode     IntervalMode
	oracle   NextFireOracle

	logger  Logger
	onCrash func(err error)

	// stopSignal is the owning Service's should_stop flag. It is the
	// primary cooperative wake-up inside Sleep; ctx cancellation is the
	// hard-cancel fallback a Registry escalates to only past its drain
	// deadline.
	stopSignal <-chan struct{}
}

var _ suture.Service = (*activity)(nil)

func (a *activity) String() string {
	return a.name
}

// Serve runs the activity body according to its kind until ctx is
// cancelled. A returned error or panic from fn is reported via onCrash and
// then swallowed as suture.ErrDoNotRestart: the owning Service's own
// crash/restart policy is authoritative, not suture's built-in backoff
// restart loop.
func (a *activity) Serve(ctx context.Context) error {
	var runErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				runErr = fmt.Errorf("activity %q panicked: %v", a.name, r)
			}
		}()
		switch a.kind {
		case kindFuture:
			runErr = a.runFuture(ctx)
		case kindLoop:
			runErr = a.runLoop(ctx)
		case kindInterval:
			runErr = a.runInterval(ctx)
		case kindCron:
			runErr = a.runCron(ctx)
		}
	}()

	if runErr != nil && ctx.Err() == nil {
		crashErr := newError(ActivityCrash, "Activity.Serve", a.name, runErr)
		if a.onCrash != nil {
			a.onCrash(crashErr)
		}
		if a.logger != nil {
			a.logger.Error("activity crashed", "activity", a.name, "error", runErr)
		}
	}

	return suture.ErrDoNotRestart
}

func (a *activity) runFuture(ctx context.Context) error {
	return a.fn(ctx)
}

func (a *activity) runLoop(ctx context.Context) error {
	for {
		if err := a.fn(ctx); err != nil {
			return err
		}
		if a.stopRequested(ctx) {
			return nil
		}
	}
}

// stopRequested reports whether ctx has been cancelled or stopSignal has
// been raised, without blocking. A nil stopSignal never fires.
func (a *activity) stopRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-a.stopSignal:
		return true
	default:
		return false
	}
}

func (a *activity) runInterval(ctx context.Context) error {
	switch a.mode {
	case IntervalEager:
		return a.runIntervalEager(ctx)
	case IntervalDriftCorrected:
		return a.runIntervalDriftCorrected(ctx)
	default:
		return a.runIntervalLazy(ctx)
	}
}

func (a *activity) runIntervalLazy(ctx context.Context) error {
	for {
		if wk, _ := Sleep(ctx, a.interval, a.stopSignal); wk != WakeupTimer {
			return nil
		}
		if err := a.fn(ctx); err != nil {
			return err
		}
	}
}

func (a *activity) runIntervalEager(ctx context.Context) error {
	for {
		if err := a.fn(ctx); err != nil {
			return err
		}
		if wk, _ := Sleep(ctx, a.interval, a.stopSignal); wk != WakeupTimer {
			return nil
		}
	}
}

func (a *activity) runIntervalDriftCorrected(ctx context.Context) error {
	next := time.Now().Add(a.interval)
	for {
		if err := a.fn(ctx); err != nil {
			return err
		}
		wait := time.Until(next)
		if wk, _ := Sleep(ctx, wait, a.stopSignal); wk != WakeupTimer {
			return nil
		}
		next = next.Add(a.interval)
		if next.Before(time.Now()) {
			// The run overran by more than one interval; resync instead
			// of firing a burst of catch-up runs.
			next = time.Now().Add(a.interval)
		}
	}
}

func (a *activity) runCron(ctx context.Context) error {
	if a.oracle == nil {
		return newError(InvalidArgument, "Activity.runCron", a.name, fmt.Errorf("no NextFireOracle configured"))
	}
	for {
		now := time.Now()
		next := a.oracle.Next(now)
		wait := next.Sub(now)
		if wk, _ := Sleep(ctx, wait, a.stopSignal); wk != WakeupTimer {
			return nil
		}
		if err := a.fn(ctx); err != nil {
			return err
		}
	}
}
