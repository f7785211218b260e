// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import (
	"context"
)

// Handle is returned by StartSystem and is the embedding caller's only
// handle on a running supervision tree.
type Handle struct {
	root *Service
}

// Stop runs the full stop sequence on the tree's root Service.
func (h *Handle) Stop(ctx context.Context) error {
	return h.root.Stop(ctx)
}

// Root returns the tree's root Service, for callers that need to inspect
// state, wait on flags, or add runtime dependencies.
func (h *Handle) Root() *Service {
	return h.root
}

// StartSystem wires cfg (or DefaultConfig if none is given) into root and
// everything it declares as a child, then starts root: build a config,
// build the tree, start it, hand back something the caller can wait on and
// stop.
func StartSystem(ctx context.Context, root *Service, cfg ...Config) (*Handle, error) {
	c := DefaultConfig()
	if len(cfg) > 0 {
		c = cfg[0]
	}
	root.setConfig(c)

	if err := root.Start(ctx); err != nil {
		return nil, err
	}
	return &Handle{root: root}, nil
}

// Join blocks until the tree behind h has fully stopped, or ctx is
// cancelled, whichever comes first.
func Join(ctx context.Context, h *Handle) error {
	return h.root.WaitUntilStopped(ctx)
}

// RunScoped starts svc, runs fn, and guarantees svc.Stop(ctx) runs before
// RunScoped returns — including when fn panics, in which case the panic is
// recovered, Stop is run, and then the panic is re-raised. This gives
// callers a scoped "use this Service for the duration of fn" pattern
// without hand-rolling defer/recover around Start/Stop themselves.
func RunScoped(ctx context.Context, svc *Service, fn func(context.Context) error) error {
	if svc.State() == StateInit {
		svc.setConfig(DefaultConfig())
	}
	if err := svc.Start(ctx); err != nil {
		_ = svc.Stop(ctx)
		return err
	}

	var panicked any
	var fnErr error
	func() {
		defer func() {
			panicked = recover()
		}()
		fnErr = fn(ctx)
	}()

	stopErr := svc.Stop(ctx)

	if panicked != nil {
		panic(panicked)
	}
	if fnErr != nil {
		return fnErr
	}
	return stopErr
}
