// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Registry is a Service's Task Registry: the set of background activities
// it has spawned. Each Service owns exactly one Registry, created lazily on
// first use, backed by one *suture.Supervisor scoped to that Service.
type Registry struct {
	mu      sync.Mutex
	owner   string
	cfg     Config
	sup     *suture.Supervisor
	tokens  map[string]suture.ServiceToken
	names   map[suture.ServiceToken]string
	started bool
	errCh   <-chan error
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func newRegistry(owner string, cfg Config) *Registry {
	return &Registry{
		owner:  owner,
		cfg:    cfg,
		tokens: make(map[string]suture.ServiceToken),
		names:  make(map[suture.ServiceToken]string),
	}
}

// ensureStarted lazily builds the underlying suture.Supervisor and starts
// it serving in the background, against a context derived from parentCtx.
func (r *Registry) ensureStarted(parentCtx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}

	slogger := r.cfg.slogLogger()
	hook := (&sutureslog.Handler{Logger: slogger}).MustHook()

	r.sup = suture.New(r.owner, suture.Spec{
		EventHook:        hook,
		FailureThreshold: r.cfg.FailureThreshold,
		FailureDecay:     r.cfg.FailureDecay,
		FailureBackoff:   r.cfg.FailureBackoff,
		Timeout:          r.cfg.ShutdownTimeout,
	})

	r.ctx, r.cancel = context.WithCancel(parentCtx)
	r.errCh = r.sup.ServeBackground(r.ctx)
	r.started = true
}

// spawn registers svc under name and adds it to the supervisor, starting
// the registry if this is its first activity. svc is wrapped in
// trackedService so r.wg reaches zero only once every spawned activity has
// actually returned from Serve, independent of suture's own supervisor
// context: that is what lets Drain wait for cooperative exit without
// depending on ctx cancellation.
func (r *Registry) spawn(parentCtx context.Context, name string, svc suture.Service) {
	r.ensureStarted(parentCtx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.wg.Add(1)
	token := r.sup.Add(&trackedService{Service: svc, wg: &r.wg})
	r.tokens[name] = token
	r.names[token] = name
}

// trackedService wraps a suture.Service so its owning Registry's wg is
// decremented when Serve returns, for any reason: clean exit, crash, or
// hard cancellation.
type trackedService struct {
	suture.Service
	wg *sync.WaitGroup
}

func (t *trackedService) Serve(ctx context.Context) error {
	defer t.wg.Done()
	return t.Service.Serve(ctx)
}

// String reports the wrapped activity's name, so UnstoppedServiceReport and
// sutureslog's event logging still identify services by name instead of by
// trackedService's own type.
func (t *trackedService) String() string {
	if s, ok := t.Service.(fmt.Stringer); ok {
		return s.String()
	}
	return "trackedService"
}

// Spawn runs fn once, as a future activity. stopSignal, when non-nil, is
// the owning Service's should_stop flag: an activity waiting inside Sleep
// wakes as soon as it is raised, instead of only on ctx cancellation.
func (r *Registry) Spawn(ctx context.Context, name string, fn ActivityFunc, onCrash func(error), stopSignal <-chan struct{}) {
	r.spawn(ctx, name, &activity{name: name, kind: kindFuture, fn: fn, logger: r.cfg.Logger, onCrash: onCrash, stopSignal: stopSignal})
}

// SpawnLoop runs fn repeatedly until it errors or ctx is cancelled or
// stopSignal is raised.
func (r *Registry) SpawnLoop(ctx context.Context, name string, fn ActivityFunc, onCrash func(error), stopSignal <-chan struct{}) {
	r.spawn(ctx, name, &activity{name: name, kind: kindLoop, fn: fn, logger: r.cfg.Logger, onCrash: onCrash, stopSignal: stopSignal})
}

// SpawnInterval runs fn on a fixed interval under the given mode.
func (r *Registry) SpawnInterval(ctx context.Context, name string, interval time.Duration, mode IntervalMode, fn ActivityFunc, onCrash func(error), stopSignal <-chan struct{}) {
	r.spawn(ctx, name, &activity{name: name, kind: kindInterval, interval: interval, mode: mode, fn: fn, logger: r.cfg.Logger, onCrash: onCrash, stopSignal: stopSignal})
}

// SpawnCron runs fn each time oracle's next fire time arrives.
func (r *Registry) SpawnCron(ctx context.Context, name string, oracle NextFireOracle, fn ActivityFunc, onCrash func(error), stopSignal <-chan struct{}) {
	r.spawn(ctx, name, &activity{name: name, kind: kindCron, oracle: oracle, fn: fn, logger: r.cfg.Logger, onCrash: onCrash, stopSignal: stopSignal})
}

// CancelAll cancels every activity in the registry by cancelling the
// context their Serve methods were started with, and waits up to grace for
// the underlying supervisor to finish. Activities still running after
// grace are reported by name, via suture's UnstoppedServiceReport. This is
// the hard-cancel escalation path: callers should prefer Drain first and
// only fall back to CancelAll once Drain's deadline has elapsed.
func (r *Registry) CancelAll(grace time.Duration) []string {
	r.mu.Lock()
	started := r.started
	sup := r.sup
	cancel := r.cancel
	errCh := r.errCh
	r.mu.Unlock()

	if !started {
		return nil
	}

	cancel()

	select {
	case <-errCh:
	case <-time.After(grace):
	}

	unstopped, err := sup.UnstoppedServiceReport()
	if err != nil || len(unstopped) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(unstopped))
	for _, entry := range unstopped {
		if name, ok := r.names[entry.ServiceToken]; ok {
			names = append(names, name)
		} else {
			names = append(names, entry.Name)
		}
	}
	return names
}

// Drain waits for every activity currently in the registry to return from
// Serve on its own, or for ctx to be cancelled, without itself cancelling
// anything. It is the cooperative half of shutdown: the caller raises the
// should_stop flag activities are watching, then calls Drain to wait for
// them to notice and return. suture's own supervisor context keeps running
// independent of its children, so Drain tracks completion through the
// registry's wg rather than the supervisor's errCh. Drain returning a
// Timeout error means the deadline passed first; the caller should then
// escalate to CancelAll.
func (r *Registry) Drain(ctx context.Context) error {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return newError(Timeout, "Registry.Drain", r.owner, ctx.Err())
	}
}

// slogLogger returns the Config's slog backend, defaulting to slog.Default
// when none was configured.
func (c Config) slogLogger() *slog.Logger {
	if c.SlogLogger != nil {
		return c.SlogLogger
	}
	return slog.Default()
}
