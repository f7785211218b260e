// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

// Package validation validates the inputs a host passes to mooring before
// they reach a Service: interval/loop timer specs, crontab specs, and the
// supervision-tree knobs in a mooring.Config. It uses a singleton
// go-playground/validator instance and translates failures into
// *mooring.Error values of Kind InvalidArgument instead of raw
// validator.ValidationErrors.
//
// Example usage:
//
//	spec := validation.CronSpec{Name: "nightly-sync", Expr: "0 3 * * *"}
//	if err := validation.ValidateCronSpec(spec); err != nil {
//	    return err // *mooring.Error{Kind: mooring.InvalidArgument}
//	}
package validation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mooring-go/mooring"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the singleton validator instance, built on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// TimerSpec describes a loop/interval activity a host wants to register
// before it ever reaches Registry.SpawnInterval.
type TimerSpec struct {
	Name     string        `validate:"required"`
	Interval time.Duration `validate:"required,gt=0"`
	Mode     string        `validate:"omitempty,oneof=eager lazy drift_corrected"`
}

// CronSpec describes a crontab activity a host wants to register before it
// ever reaches Registry.SpawnCron.
type CronSpec struct {
	Name     string `validate:"required"`
	Expr     string `validate:"required"`
	Timezone string `validate:"omitempty"`
}

// TreeConfig mirrors the tunable knobs of a mooring.Config, validated before
// being handed to mooring.StartSystem.
type TreeConfig struct {
	FailureThreshold float64       `validate:"gte=0"`
	FailureDecay     float64       `validate:"gt=0"`
	FailureBackoff   time.Duration `validate:"gte=0"`
	ShutdownTimeout  time.Duration `validate:"gt=0"`
}

// ValidateTimerSpec validates a TimerSpec, returning a *mooring.Error of
// Kind InvalidArgument on failure.
func ValidateTimerSpec(spec TimerSpec) error {
	return validateAs("TimerSpec", spec, spec.Name)
}

// ValidateCronSpec validates a CronSpec, returning a *mooring.Error of Kind
// InvalidArgument on failure.
func ValidateCronSpec(spec CronSpec) error {
	if spec.Timezone != "" {
		if _, err := time.LoadLocation(spec.Timezone); err != nil {
			return mooring.NewError(mooring.InvalidArgument, "ValidateCronSpec", spec.Name,
				fmt.Errorf("timezone: %w", err))
		}
	}
	return validateAs("CronSpec", spec, spec.Name)
}

// ValidateTreeConfig validates a TreeConfig, returning a *mooring.Error of
// Kind InvalidArgument on failure.
func ValidateTreeConfig(cfg TreeConfig) error {
	return validateAs("TreeConfig", cfg, "")
}

// validateAs runs the singleton validator over s and, on failure, joins the
// individual field errors into one *mooring.Error.
func validateAs(op string, s interface{}, service string) error {
	if err := GetValidator().Struct(s); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return mooring.NewError(mooring.InvalidArgument, op, service, err)
		}
		return mooring.NewError(mooring.InvalidArgument, op, service, translateAll(fieldErrs))
	}
	return nil
}

// translateAll joins field-level validator errors into one human-readable
// message, formatted as "field: message".
func translateAll(fieldErrs validator.ValidationErrors) error {
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s: %s", fe.Field(), translateTag(fe)))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

// translateTag converts a single validator.FieldError into a human-readable
// fragment.
func translateTag(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	default:
		return fmt.Sprintf("failed %s validation", tag)
	}
}
