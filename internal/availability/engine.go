// Package availability decides whether a court slot is free and, when it
// is not, which slot of the same length is the closest free one.
//
// Everything here is pure: callers fetch reservations from the store and
// pass them in as TimeWindows. Nothing in the package blocks, performs I/O
// or keeps state between calls, so an Engine is safe for concurrent use.
package availability

import (
	"slices"
	"time"
)

type Engine struct {
	policy Policy
	clock  Clock
}

func New(policy Policy, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{policy: policy, clock: clock}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// EarliestStart is the first instant a new reservation may begin.
func (e *Engine) EarliestStart() time.Time {
	return e.clock.Now().Add(e.policy.LeadTime)
}

// Aligned reports whether t sits on a slot boundary.
func (e *Engine) Aligned(t time.Time) bool {
	return t.Sub(StartOfDay(t))%e.policy.SlotLength == 0
}

// WithinOpeningHours reports whether a reservation may start at t.
func (e *Engine) WithinOpeningHours(t time.Time) bool {
	offset := t.Sub(StartOfDay(t))
	return offset >= e.policy.Opening && offset < e.policy.Closing
}

// WithinBusinessHours reports whether [start, start+d) fits between
// opening and closing of start's day.
func (e *Engine) WithinBusinessHours(start time.Time, d time.Duration) bool {
	offset := start.Sub(StartOfDay(start))
	return offset >= e.policy.Opening && offset+d <= e.policy.Closing
}

// DurationAllowed reports whether d is offered at all and, for long
// bookings, whether start is early enough.
func (e *Engine) DurationAllowed(start time.Time, d time.Duration) bool {
	if !slices.Contains(e.policy.Durations, d) {
		return false
	}
	if d >= e.policy.LongDuration && start.Hour() >= e.policy.LongDurationCutoffHour {
		return false
	}
	return true
}

// DurationsFor lists the durations that may be booked at start and still
// end by closing time.
func (e *Engine) DurationsFor(start time.Time) []time.Duration {
	var out []time.Duration
	for _, d := range e.policy.Durations {
		if e.DurationAllowed(start, d) && e.WithinBusinessHours(start, d) {
			out = append(out, d)
		}
	}
	return out
}

func (e *Engine) RespectsLeadTime(start time.Time) bool {
	return !start.Before(e.EarliestStart())
}

// WithinHorizon reports whether t's calendar day is not after the horizon.
func (e *Engine) WithinHorizon(t time.Time) bool {
	return !StartOfDay(t).After(StartOfDay(e.policy.Horizon))
}

// SlotStarts lists the grid boundaries covered by w.
func (e *Engine) SlotStarts(w TimeWindow) []time.Time {
	var out []time.Time
	for t := w.Start; t.Before(w.End); t = t.Add(e.policy.SlotLength) {
		out = append(out, t)
	}
	return out
}

// ProposeAlternative searches requested's day for the free run of length d
// whose start is nearest to requested. The search covers the whole day from
// opening; starts earlier than EarliestStart or violating the duration rules
// are never offered.
func (e *Engine) ProposeAlternative(requested time.Time, d time.Duration, existing []TimeWindow) (time.Time, bool) {
	grid := e.BuildGrid(StartOfDay(requested).Add(e.policy.Opening))
	if len(grid) == 0 {
		return time.Time{}, false
	}

	free := FilterFree(grid, existing)
	runs := e.FindRuns(free, d)

	earliest := e.EarliestStart()
	candidates := runs[:0]
	for _, start := range runs {
		if start.Before(earliest) || !e.WithinOpeningHours(start) || !e.DurationAllowed(start, d) {
			continue
		}
		candidates = append(candidates, start)
	}

	return SelectClosest(candidates, requested)
}
