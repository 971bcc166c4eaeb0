package availability

import "time"

type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock and returns it as a naive
// timestamp, that is the same wall-clock fields labelled UTC. Every
// timestamp in the system uses this representation.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return Naive(time.Now())
}

type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Naive drops the location of t while keeping its wall-clock fields.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// StartOfDay truncates t to midnight of its calendar day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
