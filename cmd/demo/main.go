// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

// Package main is a worked example of embedding mooring: a root Service
// with two declared children — a poller that runs on a fixed interval and
// a nightly job driven by a crontab expression — started under
// mooring.StartSystem and stopped on SIGINT/SIGTERM.
//
// # Application Architecture
//
// main initializes components in the following order:
//
//  1. Configuration: load System from environment and an optional config
//     file (Koanf v2, internal/config)
//  2. Logging: initialize the global zerolog logger (internal/logging)
//  3. Validation: check the loaded tree knobs and crontab expression
//     (internal/validation) before anything is built
//  4. Supervision tree: build the root Service and its declared children
//  5. Signal handling: SIGINT/SIGTERM cancels the root context, triggering
//     a cooperative Stop
//
// # Configuration
//
//	MOORING_LOG_LEVEL, MOORING_LOG_FORMAT, MOORING_SHUTDOWN_TIMEOUT, ...
//	see internal/config for the full list.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mooring-go/mooring"
	"github.com/mooring-go/mooring/internal/config"
	"github.com/mooring-go/mooring/internal/logging"
	"github.com/mooring-go/mooring/internal/metrics"
	"github.com/mooring-go/mooring/internal/validation"
)

// root is the top-level Service: it declares the poller and the nightly
// job Services as structural children via ChildDeclarer, and logs its own
// transitions through the remaining hooks. Both children are plain
// mooring.NewService(name, nil) values — their behavior comes entirely
// from the activities spawned on them in main, not from hooks.
type root struct {
	children []*mooring.Service
}

func (r *root) DeclareChildren() []*mooring.Service { return r.children }

func (r *root) OnStarted(ctx context.Context) error {
	logging.Info().Msg("demo tree running")
	return nil
}

func (r *root) OnShutdown(ctx context.Context) error {
	logging.Info().Msg("demo tree stopped")
	return nil
}

func main() {
	sys, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  sys.LogLevel,
		Format: sys.LogFormat,
		Caller: sys.LogCaller,
	})

	logging.Info().Msg("starting mooring demo")

	treeCfg := validation.TreeConfig{
		FailureThreshold: sys.FailureThreshold,
		FailureDecay:     sys.FailureDecay,
		FailureBackoff:   sys.FailureBackoff,
		ShutdownTimeout:  sys.ShutdownTimeout,
	}
	if err := validation.ValidateTreeConfig(treeCfg); err != nil {
		logging.Fatal().Err(err).Msg("invalid tree configuration")
	}

	cronSpec := validation.CronSpec{Name: "nightly-report", Expr: "0 3 * * *", Timezone: sys.CronTimezone}
	if err := validation.ValidateCronSpec(cronSpec); err != nil {
		logging.Fatal().Err(err).Msg("invalid crontab spec")
	}
	loc, err := time.LoadLocation(sys.CronTimezone)
	if err != nil {
		loc = time.UTC
	}
	oracle, err := mooring.NewCronOracle(cronSpec.Expr, loc)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build cron oracle")
	}

	pollerSvc := mooring.NewService("poller", nil)
	nightlySvc := mooring.NewService("nightly-report", nil)

	rootImpl := &root{children: []*mooring.Service{pollerSvc, nightlySvc}}
	rootSvc := mooring.NewService("demo", rootImpl)

	slogLogger := logging.NewSlogLogger()
	hostLogger := mooring.NewSlogLogger(slogLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	handle, err := mooring.StartSystem(ctx, rootSvc, mooring.Config{
		FailureThreshold: sys.FailureThreshold,
		FailureDecay:     sys.FailureDecay,
		FailureBackoff:   sys.FailureBackoff,
		ShutdownTimeout:  sys.ShutdownTimeout,
		Logger:           hostLogger,
		SlogLogger:       slogLogger,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to start supervision tree")
	}

	pollerSvc.SpawnInterval(ctx, "poll", 30*time.Second, mooring.IntervalDriftCorrected, func(ctx context.Context) error {
		metrics.RecordActivityRun("poller", "poll", "interval", 0, nil)
		logging.Debug().Msg("poll tick")
		return nil
	})

	nightlySvc.SpawnCron(ctx, cronSpec.Name, oracle, func(ctx context.Context) error {
		metrics.RecordActivityRun("nightly-report", cronSpec.Name, "cron", 0, nil)
		logging.Info().Msg("nightly report generated")
		return nil
	})

	<-ctx.Done()
	logging.Info().Msg("context cancelled, stopping supervision tree")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), sys.ShutdownTimeout+5*time.Second)
	defer stopCancel()

	if err := handle.Stop(stopCtx); err != nil {
		logging.Warn().Err(err).Msg("supervision tree stopped with errors")
	}

	if err := mooring.Join(stopCtx, handle); err != nil {
		logging.Warn().Err(err).Msg("timed out waiting for tree to stop")
	}

	logging.Info().Msg("demo exited")
}
