// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service is a node in a supervision tree: it has a lifecycle (Init →
// Starting → Running → Stopping → Shutdown, or → Crashed on failure), an
// optional set of declared children started and stopped with it, an
// optional set of runtime dependencies added after it started, and its own
// Task Registry of background activities. A Service is a stable identity,
// a state, and a small set of one-way flags.
type Service struct {
	id   string
	name string
	impl any

	cfg Config

	mu               sync.Mutex
	state            State
	parent           *Service
	declaredChildren []*Service
	runtimeChildren  []*Service

	registry *Registry

	startedFlag    *Flag
	stoppedFlag    *Flag
	crashedFlag    *Flag
	shouldStopFlag *Flag

	firstStartDone bool
	restartCount   int
	exception      error
	crashReason    error
}

// NewService constructs a Service named name, wrapping impl. impl may
// implement any subset of ChildDeclarer, FirstStarter, Starter, Started,
// Stopper, ShutdownHook, Restarter; a nil impl is valid for a Service that
// exists purely to own a Task Registry and/or children.
func NewService(name string, impl any) *Service {
	return &Service{
		id:             uuid.NewString(),
		name:           name,
		impl:           impl,
		state:          StateInit,
		startedFlag:    NewFlag(),
		stoppedFlag:    NewFlag(),
		crashedFlag:    NewFlag(),
		shouldStopFlag: NewFlag(),
	}
}

// ID returns the Service's stable, process-unique identifier.
func (s *Service) ID() string { return s.id }

// Name returns the name passed to NewService.
func (s *Service) Name() string { return s.name }

// State returns the Service's current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Started returns a channel closed once the Service first reaches
// StateRunning.
func (s *Service) Started() <-chan struct{} { return s.startedFlag.Done() }

// Stopped returns a channel closed once the Service reaches StateShutdown,
// or once Stop is called on it in StateInit or StateCrashed.
func (s *Service) Stopped() <-chan struct{} { return s.stoppedFlag.Done() }

// Crashed returns a channel closed once the Service first reaches
// StateCrashed.
func (s *Service) Crashed() <-chan struct{} { return s.crashedFlag.Done() }

// ShouldStop returns a channel closed once Stop has been called on this
// Service. It is a level-triggered signal for activity bodies that want to
// check cooperatively inside a loop, distinct from ctx.Done(): ShouldStop
// fires at the start of the stop sequence, before the task registry drains
// or escalates to a hard context cancel.
func (s *Service) ShouldStop() <-chan struct{} { return s.shouldStopFlag.Done() }

// Exception returns the error recorded by the most recent failed Start (a
// hook or a declared child failing) or by Stop (an OnStop or OnShutdown hook
// failing, or activities not stopping in time), or nil. An activity crash is
// not recorded here, and a failing OnRestart is only returned by Restart.
func (s *Service) Exception() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exception
}

// CrashReason returns the error passed to the most recent Crash: an
// activity crash, or the error of a failed Start sequence. It differs from
// Exception in that an activity crash sets only CrashReason, while Stop
// failures set only Exception.
func (s *Service) CrashReason() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.crashReason
}

// RestartCount returns how many times Restart has reset the Service and
// begun a new Start, whether or not that Start then succeeded. A Restart
// rejected for its state or by a failing OnRestart is not counted.
func (s *Service) RestartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restartCount
}

// AddDependency declares child as a structural child of s. It must be
// called before s.Start; declared children are started, in the order
// added, as part of s.Start, and stopped in reverse order as part of
// s.Stop. Prefer implementing ChildDeclarer on impl for children known at
// construction time — AddDependency is for children assembled
// imperatively.
func (s *Service) AddDependency(child *Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	child.parent = s
	s.declaredChildren = append(s.declaredChildren, child)
}

// AddRuntimeDependency starts child immediately and adds it as a runtime
// dependency of s: a dependency discovered after s was already running,
// rather than declared upfront. If child crashes, its failure is reported
// to s as a DependencyFailure.
func (s *Service) AddRuntimeDependency(ctx context.Context, child *Service) error {
	s.mu.Lock()
	if s.state != StateRunning && s.state != StateStarting {
		state := s.state
		s.mu.Unlock()
		return newError(InvalidState, "Service.AddRuntimeDependency", s.name, errInvalidStateFor("AddRuntimeDependency", state))
	}
	child.parent = s
	cfg := s.cfg
	s.runtimeChildren = append(s.runtimeChildren, child)
	s.mu.Unlock()

	child.setConfig(cfg)
	if err := child.Start(ctx); err != nil {
		return newError(DependencyFailure, "Service.AddRuntimeDependency", s.name, err)
	}
	return nil
}

// setConfig assigns cfg to this Service and, recursively, to every
// declared child, so a tree built with AddDependency/ChildDeclarer shares
// one Config without every call site having to pass it explicitly.
func (s *Service) setConfig(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	for _, child := range s.children() {
		child.setConfig(cfg)
	}
}

// registryFor lazily creates this Service's Task Registry.
func (s *Service) registryFor() *Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry == nil {
		s.registry = newRegistry(s.name, s.cfg)
	}
	return s.registry
}

// Spawn, SpawnLoop, SpawnInterval and SpawnCron register background
// activities on this Service's Task Registry. They may be called any time
// after Start begins (typically from OnStart or OnStarted). A crashing
// activity calls s.Crash with an ActivityCrash error.
func (s *Service) Spawn(ctx context.Context, name string, fn ActivityFunc) {
	s.registryFor().Spawn(ctx, name, fn, s.crashFromActivity, s.shouldStopFlag.Done())
}

func (s *Service) SpawnLoop(ctx context.Context, name string, fn ActivityFunc) {
	s.registryFor().SpawnLoop(ctx, name, fn, s.crashFromActivity, s.shouldStopFlag.Done())
}

func (s *Service) SpawnInterval(ctx context.Context, name string, interval time.Duration, mode IntervalMode, fn ActivityFunc) {
	s.registryFor().SpawnInterval(ctx, name, interval, mode, fn, s.crashFromActivity, s.shouldStopFlag.Done())
}

func (s *Service) SpawnCron(ctx context.Context, name string, oracle NextFireOracle, fn ActivityFunc) {
	s.registryFor().SpawnCron(ctx, name, oracle, fn, s.crashFromActivity, s.shouldStopFlag.Done())
}

func (s *Service) crashFromActivity(err error) {
	s.Crash(err)
}

// Crash transitions the Service to StateCrashed, records reason as its
// CrashReason, and — if it has a parent — reports the failure to the
// parent as a DependencyFailure. Restart policy is deliberately not
// automatic: per DESIGN.md's Open Question decision, something above this
// Service (its parent, or the embedding caller) must call Restart.
func (s *Service) Crash(reason error) {
	s.mu.Lock()
	if s.state == StateCrashed {
		s.mu.Unlock()
		return
	}
	s.state = StateCrashed
	s.crashReason = reason
	parent := s.parent
	logger := s.cfg.logger()
	s.mu.Unlock()

	s.crashedFlag.Set()
	logger.Error("service crashed", "service", s.name, "error", reason)

	if parent != nil {
		parent.reportDependencyFailure(s, reason)
	}
}

func (s *Service) reportDependencyFailure(child *Service, reason error) {
	s.cfg.logger().Warn("dependency failed", "service", s.name, "dependency", child.name,
		"error", newError(DependencyFailure, "Service.Crash", child.name, reason))
}

// Start runs the lifecycle start sequence: OnFirstStart (once ever),
// OnStart, declared children (in order), OnStarted, then transitions to
// StateRunning. Start is idempotent: calling it again while already
// Running returns nil, and calling it while Starting waits for the
// in-flight call and returns its outcome (nil on success).
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateRunning:
		s.mu.Unlock()
		return nil
	case StateStarting:
		started, crashed := s.startedFlag.Done(), s.crashedFlag.Done()
		s.mu.Unlock()
		select {
		case <-started:
		case <-crashed:
		}
		return s.Exception()
	case StateStopping, StateShutdown, StateCrashed:
		state := s.state
		s.mu.Unlock()
		return newError(InvalidState, "Service.Start", s.name, errInvalidStateFor("Start", state))
	}
	s.state = StateStarting
	s.mu.Unlock()

	if err := s.runStartSequence(ctx); err != nil {
		s.mu.Lock()
		s.exception = err
		s.mu.Unlock()
		s.Crash(err)
		return err
	}

	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()
	s.startedFlag.Set()
	s.cfg.logger().Info("service started", "service", s.name)
	return nil
}

func (s *Service) runStartSequence(ctx context.Context) error {
	s.mu.Lock()
	firstStart := !s.firstStartDone
	s.firstStartDone = true
	impl := s.impl
	s.mu.Unlock()

	if firstStart {
		if fs, ok := impl.(FirstStarter); ok {
			if err := fs.OnFirstStart(ctx); err != nil {
				return newError(InvalidState, "Service.OnFirstStart", s.name, err)
			}
		}
	}

	if st, ok := impl.(Starter); ok {
		if err := st.OnStart(ctx); err != nil {
			return newError(InvalidState, "Service.OnStart", s.name, err)
		}
	}

	children := s.children()
	started := make([]*Service, 0, len(children))
	for _, child := range children {
		if err := child.Start(ctx); err != nil {
			for i := len(started) - 1; i >= 0; i-- {
				_ = started[i].Stop(ctx)
			}
			return newError(DependencyFailure, "Service.Start", s.name, err)
		}
		started = append(started, child)
	}

	if started, ok := impl.(Started); ok {
		if err := started.OnStarted(ctx); err != nil {
			return newError(InvalidState, "Service.OnStarted", s.name, err)
		}
	}

	return nil
}

// children returns declared children, preferring an impl-provided
// ChildDeclarer over the imperative AddDependency list if both are
// present the declarer wins, matching a single source of truth for
// structural children.
func (s *Service) children() []*Service {
	s.mu.Lock()
	impl := s.impl
	declared := append([]*Service(nil), s.declaredChildren...)
	s.mu.Unlock()

	if cd, ok := impl.(ChildDeclarer); ok {
		return cd.DeclareChildren()
	}
	return declared
}

// Stop runs the lifecycle stop sequence in reverse of Start: OnStop,
// runtime dependencies then declared children (both in reverse start
// order), Task Registry drain (escalating to force-cancel only past the
// drain deadline), OnShutdown, then transitions to StateShutdown. Stop is
// idempotent, and always eventually raises stoppedFlag — even when called
// from StateInit or StateCrashed, where it only raises stoppedFlag: no hooks
// run and no children or activities are stopped.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateShutdown:
		s.mu.Unlock()
		return nil
	case StateStopping:
		s.mu.Unlock()
		<-s.stoppedFlag.Done()
		return s.Exception()
	case StateInit, StateCrashed:
		s.mu.Unlock()
		s.stoppedFlag.Set()
		return nil
	}
	s.state = StateStopping
	impl := s.impl
	s.mu.Unlock()

	s.shouldStopFlag.Set()

	if stopper, ok := impl.(Stopper); ok {
		if err := stopper.OnStop(ctx); err != nil {
			s.mu.Lock()
			s.exception = err
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	runtimeChildren := append([]*Service(nil), s.runtimeChildren...)
	reg := s.registry
	grace := s.cfg.ShutdownTimeout
	s.mu.Unlock()

	for i := len(runtimeChildren) - 1; i >= 0; i-- {
		_ = runtimeChildren[i].Stop(ctx)
	}

	children := s.children()
	for i := len(children) - 1; i >= 0; i-- {
		_ = children[i].Stop(ctx)
	}

	if reg != nil {
		if grace <= 0 {
			grace = DefaultConfig().ShutdownTimeout
		}
		unstopped := s.drainOrCancel(ctx, reg, grace)
		if len(unstopped) > 0 {
			err := newError(Timeout, "Service.Stop", s.name, errUnstoppedActivities(unstopped))
			s.mu.Lock()
			s.exception = err
			s.mu.Unlock()
			s.cfg.logger().Warn("activities did not stop in time", "service", s.name, "activities", unstopped)
		}
	}

	if shutdown, ok := impl.(ShutdownHook); ok {
		if err := shutdown.OnShutdown(ctx); err != nil {
			s.mu.Lock()
			s.exception = err
			s.mu.Unlock()
		}
	}

	s.mu.Lock()
	s.state = StateShutdown
	finalErr := s.exception
	s.mu.Unlock()
	s.stoppedFlag.Set()
	s.cfg.logger().Info("service stopped", "service", s.name)
	return finalErr
}

// escalationGrace bounds the hard-cancel phase CancelAll runs once Drain's
// deadline has elapsed. It is deliberately small: Drain already spent the
// overall shutdown deadline waiting cooperatively.
const escalationGrace = 2 * time.Second

// drainOrCancel waits up to deadline for reg's activities to exit on their
// own in response to shouldStopFlag (already raised by the caller), via
// Drain. If deadline elapses before they do, it escalates to a hard
// context cancel via CancelAll, bounded by escalationGrace.
func (s *Service) drainOrCancel(ctx context.Context, reg *Registry, deadline time.Duration) []string {
	drainCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	if err := reg.Drain(drainCtx); err == nil {
		return nil
	}
	return reg.CancelAll(escalationGrace)
}

// WaitUntilStopped blocks until the Stopped channel is closed (see Stopped)
// or ctx is cancelled.
func (s *Service) WaitUntilStopped(ctx context.Context) error {
	select {
	case <-s.stoppedFlag.Done():
		return nil
	case <-ctx.Done():
		return newError(Cancelled, "Service.WaitUntilStopped", s.name, ctx.Err())
	}
}

// Restart runs OnRestart, then the full Start sequence again. It is valid
// from StateCrashed or StateShutdown only; Restart on a Running Service is
// an InvalidState error, matching the Start/Stop protocol's requirement
// that a Service be fully stopped (or crashed) before it restarts.
func (s *Service) Restart(ctx context.Context) error {
	s.mu.Lock()
	state := s.state
	impl := s.impl
	if state != StateCrashed && state != StateShutdown {
		s.mu.Unlock()
		return newError(InvalidState, "Service.Restart", s.name, errInvalidStateFor("Restart", state))
	}
	s.mu.Unlock()

	if r, ok := impl.(Restarter); ok {
		if err := r.OnRestart(ctx); err != nil {
			return newError(InvalidState, "Service.OnRestart", s.name, err)
		}
	}

	s.mu.Lock()
	s.state = StateInit
	s.startedFlag = NewFlag()
	s.stoppedFlag = NewFlag()
	s.crashedFlag = NewFlag()
	s.shouldStopFlag = NewFlag()
	s.exception = nil
	s.crashReason = nil
	s.restartCount++
	s.mu.Unlock()

	return s.Start(ctx)
}

func errInvalidStateFor(op string, state State) error {
	return &Error{Kind: InvalidState, Op: op, Err: errStateMsg{op: op, state: state}}
}

type errStateMsg struct {
	op    string
	state State
}

func (e errStateMsg) Error() string {
	return e.op + " is not valid from state " + e.state.String()
}

type errUnstoppedList []string

func errUnstoppedActivities(names []string) error {
	return errUnstoppedList(names)
}

func (e errUnstoppedList) Error() string {
	msg := "activities did not stop before grace period elapsed: "
	for i, n := range e {
		if i > 0 {
			msg += ", "
		}
		msg += n
	}
	return msg
}
