// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import "context"

// Services participate in the lifecycle by implementing any subset of these
// interfaces on the impl value passed to NewService. None are required —
// a Service with no hooks simply starts and stops its children and its
// activities.

// ChildDeclarer returns the Services this Service owns structurally. They
// are started, in order, after this Service's OnStart hook and before its
// OnStarted hook, and stopped, in reverse order, before OnShutdown runs.
type ChildDeclarer interface {
	DeclareChildren() []*Service
}

// FirstStarter runs once, the first time a Service is started. Unlike
// Starter it does not run again across a crash/Restart cycle.
type FirstStarter interface {
	OnFirstStart(ctx context.Context) error
}

// Starter runs on every Start and every Restart, before declared children
// are started.
type Starter interface {
	OnStart(ctx context.Context) error
}

// Started runs after all of this Service's declared children have reached
// StateRunning, immediately before this Service itself enters StateRunning
// and Start returns.
type Started interface {
	OnStarted(ctx context.Context) error
}

// Stopper runs at the beginning of Stop, before declared children are
// stopped and before the task registry is drained.
type Stopper interface {
	OnStop(ctx context.Context) error
}

// ShutdownHook runs after declared children have stopped and the task
// registry has drained, immediately before the Service reaches
// StateShutdown.
type ShutdownHook interface {
	OnShutdown(ctx context.Context) error
}

// Restarter runs when Restart is called on a crashed or stopped Service,
// before the normal Start sequence (OnStart, children, OnStarted) runs
// again.
type Restarter interface {
	OnRestart(ctx context.Context) error
}
