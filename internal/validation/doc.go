// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

// Package validation validates the TimerSpec/CronSpec/TreeConfig values a
// host passes to mooring, using go-playground/validator v10 behind a
// thread-safe singleton.
//
// # Overview
//
// The package provides:
//   - A thread-safe singleton validator (initialized once, cached struct info)
//   - TimerSpec/CronSpec/TreeConfig, the three shapes a host builds from its
//     own configuration before calling Registry.SpawnInterval,
//     Registry.SpawnCron, or mooring.StartSystem
//   - Translation of validator.ValidationErrors into a single
//     *mooring.Error{Kind: mooring.InvalidArgument}, so a host can
//     errors.Is-match a rejected spec the same way it matches any other
//     mooring failure
//
// # Quick Start
//
//	spec := validation.TimerSpec{Name: "heartbeat", Interval: 5 * time.Second}
//	if err := validation.ValidateTimerSpec(spec); err != nil {
//	    return err
//	}
//
//	cron := validation.CronSpec{Name: "nightly-sync", Expr: "0 3 * * *", Timezone: "UTC"}
//	if err := validation.ValidateCronSpec(cron); err != nil {
//	    return err
//	}
//
// # Validation Tags
//
//	required          field must be non-zero
//	gt=0 / gte=0      numeric lower bound
//	oneof=a b c       must be one of the listed values
//
// CronSpec.Timezone is additionally checked against time.LoadLocation
// rather than a validator tag, since tz database names aren't expressible
// as a validator enum.
//
// # Thread Safety
//
// GetValidator and the Validate* functions are safe for concurrent use; the
// underlying validator.Validate caches struct reflection info across calls.
//
// # See Also
//
//   - github.com/go-playground/validator/v10: underlying library
//   - internal/config: loads the System values a host builds TreeConfig from
package validation
