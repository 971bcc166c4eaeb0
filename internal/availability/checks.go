package availability

import "time"

// IsAvailable reports whether proposed overlaps none of existing.
func IsAvailable(proposed TimeWindow, existing []TimeWindow) bool {
	for _, w := range existing {
		if Overlaps(proposed, w) {
			return false
		}
	}
	return true
}

// CountInISOWeek counts the timestamps falling in date's ISO 8601 week.
func CountInISOWeek(date time.Time, stamps []time.Time) int {
	year, week := date.ISOWeek()
	count := 0
	for _, s := range stamps {
		y, w := s.ISOWeek()
		if y == year && w == week {
			count++
		}
	}
	return count
}

// WithinWeeklyQuota reports whether a holder whose existing reservations
// end at holderEnds may book again in date's ISO week. Up to WeeklyQuota
// existing reservations are tolerated. Counting uses the reservation end,
// not the start.
func (e *Engine) WithinWeeklyQuota(date time.Time, holderEnds []time.Time) bool {
	return CountInISOWeek(date, holderEnds) <= e.policy.WeeklyQuota
}

type Purpose int

const (
	PurposeExport Purpose = iota
	PurposePrint
)

func (p Purpose) String() string {
	switch p {
	case PurposePrint:
		return "print"
	case PurposeExport:
		return "export"
	default:
		return "unknown"
	}
}

// ValidateRange bounds-checks a multi-day query window. Every purpose needs
// start <= end and end within the horizon; printing additionally needs a
// start no earlier than today and a span of at most MaxPrintSpan.
func (e *Engine) ValidateRange(start, end time.Time, purpose Purpose) bool {
	if start.After(end) {
		return false
	}
	if !e.WithinHorizon(end) {
		return false
	}
	if purpose != PurposePrint {
		return true
	}
	if StartOfDay(start).Before(StartOfDay(e.clock.Now())) {
		return false
	}
	return end.Sub(start) <= e.policy.MaxPrintSpan
}
