// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Supervision-Tree Observability
// This package provides instrumentation for:
// - Service lifecycle state transitions
// - Crash and restart counts
// - Activity (future/loop/interval/cron) outcomes
// - Task registry force-cancel / timeout events
// - Crontab fire-time drift

var (
	// ServiceStateTransitions counts every lifecycle state transition a
	// Service makes, labeled by the state it entered.
	ServiceStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooring_service_state_transitions_total",
			Help: "Total number of Service lifecycle state transitions",
		},
		[]string{"service", "state"},
	)

	// ServiceRestartsTotal counts completed Restart calls.
	ServiceRestartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooring_service_restarts_total",
			Help: "Total number of times a Service has been restarted",
		},
		[]string{"service"},
	)

	// ServiceCrashesTotal counts crashes, labeled by whether the crash
	// originated from a hook or from a background activity.
	ServiceCrashesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooring_service_crashes_total",
			Help: "Total number of Service crashes",
		},
		[]string{"service", "origin"}, // origin: "hook", "activity", "dependency"
	)

	// ActivityRunsTotal counts activity body invocations.
	ActivityRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooring_activity_runs_total",
			Help: "Total number of activity function invocations",
		},
		[]string{"service", "activity", "kind"},
	)

	// ActivityFailuresTotal counts activity bodies that returned an error
	// or panicked.
	ActivityFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooring_activity_failures_total",
			Help: "Total number of activity runs that returned an error or panicked",
		},
		[]string{"service", "activity", "kind"},
	)

	// ActivityRunDuration observes how long one invocation of an activity
	// body took.
	ActivityRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mooring_activity_run_duration_seconds",
			Help:    "Duration of a single activity function invocation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "activity", "kind"},
	)

	// ShutdownForceCancelledTotal counts activities that had to be
	// force-cancelled because they did not stop within the configured
	// grace period.
	ShutdownForceCancelledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mooring_shutdown_force_cancelled_total",
			Help: "Total number of activities still running when a shutdown grace period elapsed",
		},
		[]string{"service", "activity"},
	)

	// ShutdownDuration observes how long a Service's Stop call took
	// end-to-end.
	ShutdownDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mooring_shutdown_duration_seconds",
			Help:    "Duration of Service.Stop from call to StateShutdown",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service"},
	)

	// CronFireDrift observes the delta, in seconds, between a crontab
	// activity's scheduled fire time and when it actually ran.
	CronFireDrift = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mooring_cron_fire_drift_seconds",
			Help:    "Delta between a crontab activity's scheduled and actual fire time",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"service", "activity"},
	)

	// RunningServices is the current number of Services in StateRunning,
	// sampled by the embedding host.
	RunningServices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mooring_running_services",
			Help: "Current number of Services in StateRunning",
		},
	)
)

// RecordStateTransition records a Service entering a new lifecycle state.
func RecordStateTransition(service, state string) {
	ServiceStateTransitions.WithLabelValues(service, state).Inc()
}

// RecordRestart records a completed Restart call.
func RecordRestart(service string) {
	ServiceRestartsTotal.WithLabelValues(service).Inc()
}

// RecordCrash records a crash and its origin.
func RecordCrash(service, origin string) {
	ServiceCrashesTotal.WithLabelValues(service, origin).Inc()
}

// RecordActivityRun records one activity invocation and its outcome.
func RecordActivityRun(service, activity, kind string, duration time.Duration, err error) {
	ActivityRunsTotal.WithLabelValues(service, activity, kind).Inc()
	ActivityRunDuration.WithLabelValues(service, activity, kind).Observe(duration.Seconds())
	if err != nil {
		ActivityFailuresTotal.WithLabelValues(service, activity, kind).Inc()
	}
}

// RecordForceCancel records an activity still running when its grace
// period elapsed.
func RecordForceCancel(service, activity string) {
	ShutdownForceCancelledTotal.WithLabelValues(service, activity).Inc()
}

// RecordShutdownDuration records how long a Stop call took end-to-end.
func RecordShutdownDuration(service string, duration time.Duration) {
	ShutdownDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordCronDrift records the delta between a crontab activity's scheduled
// and actual fire time.
func RecordCronDrift(service, activity string, drift time.Duration) {
	CronFireDrift.WithLabelValues(service, activity).Observe(drift.Seconds())
}

// SetRunningServices sets the current count of Services in StateRunning.
func SetRunningServices(count int) {
	RunningServices.Set(float64(count))
}
