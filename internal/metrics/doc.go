// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

/*
Package metrics provides Prometheus instrumentation for mooring's lifecycle
engine: Service state transitions, crashes, restarts, activity outcomes,
and force-cancels at shutdown.

# Available Metrics

	mooring_service_state_transitions_total{service,state}  counter
	mooring_service_restarts_total{service}                 counter
	mooring_service_crashes_total{service,origin}            counter
	mooring_activity_runs_total{service,activity,kind}       counter
	mooring_activity_failures_total{service,activity,kind}   counter
	mooring_activity_run_duration_seconds{service,activity,kind}  histogram
	mooring_shutdown_force_cancelled_total{service,activity} counter
	mooring_shutdown_duration_seconds{service}               histogram
	mooring_cron_fire_drift_seconds{service,activity}        histogram
	mooring_running_services                                 gauge

# Usage Example

	import "github.com/mooring-go/mooring/internal/metrics"

	metrics.RecordStateTransition(svc.Name(), svc.State().String())
	metrics.RecordActivityRun(svc.Name(), "poll", "loop", elapsed, err)

# Cardinality

"service" and "activity" labels come from caller-chosen names, not
unbounded identifiers (never uuid.Service.ID()) — callers are expected to
pass a small, known set of names, keeping label cardinality bounded.

# See Also

  - github.com/prometheus/client_golang/prometheus/promauto: metric
    construction
  - internal/logging: structured logging these metrics complement
*/
package metrics
