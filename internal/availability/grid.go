package availability

import "time"

// Slot is one grid cell, [Start, Start+SlotLength).
type Slot struct {
	Start time.Time
	End   time.Time
}

func (s Slot) Window() TimeWindow {
	return TimeWindow(s)
}

// BuildGrid returns the slots of t's day starting at t.Hour():00 and
// stopping before the first slot that would start at or after closing.
// Minutes and seconds of t are ignored. An empty grid means no search is
// possible, not that the day is free.
func (e *Engine) BuildGrid(t time.Time) []Slot {
	day := StartOfDay(t)
	first := day.Add(time.Duration(t.Hour()) * time.Hour)
	closing := day.Add(e.policy.Closing)

	var grid []Slot
	for start := first; start.Before(closing); start = start.Add(e.policy.SlotLength) {
		grid = append(grid, Slot{Start: start, End: start.Add(e.policy.SlotLength)})
	}
	return grid
}
