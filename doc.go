// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

/*
Package mooring provides cooperative service supervision: a lifecycle state
machine, a supervision tree of parent/child Services, a per-Service Task
Registry of background activities, and an embedding API for starting and
stopping the whole thing from a host process.

# Overview

A Service moves through a small state machine:

	Init -> Starting -> Running -> Stopping -> Shutdown
	                 \-> Crashed (via Crash) -> (Restart) -> Init

Services are organized into a tree. A parent declares children either
imperatively, via AddDependency before Start, or by implementing
ChildDeclarer on the value passed to NewService. Declared children start,
in order, as part of their parent's Start, and stop, in reverse order, as
part of their parent's Stop. A Service can also adopt a runtime dependency
after it is already running, via AddRuntimeDependency; a runtime
dependency's crash is reported to its parent as a DependencyFailure but
does not, by itself, crash the parent — see DESIGN.md for the restart-policy
decision this implies.

Each Service owns its own Task Registry: a set of background activities
(Spawn, SpawnLoop, SpawnInterval, SpawnCron) backed by a *suture.Supervisor.
suture's own restart loop is intentionally suppressed — every activity
reports its crash to the owning Service via Crash and then tells suture not
to restart it — so that Service-level crash/restart policy is the one
source of truth for what happens after a failure.

# Usage

	svc := mooring.NewService("worker", &myWorker{})
	handle, err := mooring.StartSystem(ctx, svc, mooring.DefaultConfig())
	if err != nil {
	    return err
	}
	defer handle.Stop(context.Background())
	return mooring.Join(ctx, handle)

# What Is Not Supervised

A Service's own goroutine — there isn't one. Start and Stop run on the
caller's goroutine; only background activities registered on a Task
Registry run on goroutines this package manages. A Service that never
calls Spawn/SpawnLoop/SpawnInterval/SpawnCron never creates a
*suture.Supervisor at all.
*/
package mooring
