// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import (
	"time"

	"github.com/robfig/cron/v3"
)

// NextFireOracle computes the next fire time strictly after from. Crontab
// activities consult one of these on every cycle instead of hand-rolling
// crontab arithmetic.
type NextFireOracle interface {
	Next(from time.Time) time.Time
}

// CronOracle is the default NextFireOracle, backed by a standard five-field
// crontab expression.
type CronOracle struct {
	sched cron.Schedule
}

// NewCronOracle parses a standard five-field crontab expression
// ("minute hour dom month dow") evaluated in loc. A nil loc defaults to
// time.Local.
//
// An invalid expression is an *Error with Kind InvalidArgument — crontab
// syntax is checked once, at registration time, rather than surfacing a
// parse failure deep inside a running activity.
func NewCronOracle(expr string, loc *time.Location) (*CronOracle, error) {
	if loc == nil {
		loc = time.Local
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, newError(InvalidArgument, "NewCronOracle", "", err)
	}
	return &CronOracle{sched: &locSchedule{sched: sched, loc: loc}}, nil
}

func (c *CronOracle) Next(from time.Time) time.Time {
	return c.sched.Next(from)
}

// locSchedule evaluates an underlying cron.Schedule in a fixed location
// regardless of what location "from" arrives in, so a crontab activity's
// fire times are stable even if the caller passes time.Now() in UTC.
type locSchedule struct {
	sched cron.Schedule
	loc   *time.Location
}

func (l *locSchedule) Next(from time.Time) time.Time {
	return l.sched.Next(from.In(l.loc))
}
