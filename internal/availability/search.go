package availability

import "time"

// FilterFree keeps the slots whose start point is not covered by any
// existing window. Slots and reservations share the same grid, so a slot is
// either fully covered or not at all. Order is preserved; an empty result
// means the day is fully booked.
func FilterFree(grid []Slot, existing []TimeWindow) []Slot {
	free := make([]Slot, 0, len(grid))
	for _, s := range grid {
		if !covered(s.Start, existing) {
			free = append(free, s)
		}
	}
	return free
}

func covered(t time.Time, windows []TimeWindow) bool {
	for _, w := range windows {
		if !t.Before(w.Start) && t.Before(w.End) {
			return true
		}
	}
	return false
}

// FindRuns returns, in ascending order, the starts of every sequence of
// consecutive free slots long enough to host d. A run is only valid when
// the slots are adjacent in time: the end of its last slot must be exactly
// d after its first start, so a booked slot filtered out in between breaks
// it.
func (e *Engine) FindRuns(free []Slot, d time.Duration) []time.Time {
	if d <= 0 || d%e.policy.SlotLength != 0 {
		return nil
	}
	n := int(d / e.policy.SlotLength)

	var starts []time.Time
	for i := 0; i+n-1 < len(free); i++ {
		if free[i].Start.Add(d).Equal(free[i+n-1].End) {
			starts = append(starts, free[i].Start)
		}
	}
	return starts
}

// SelectClosest returns the candidate nearest to requested. On a tie the
// candidate met first wins, which for ascending input is the earlier one.
// It reports false when there are no candidates.
func SelectClosest(candidates []time.Time, requested time.Time) (time.Time, bool) {
	if len(candidates) == 0 {
		return time.Time{}, false
	}

	best := candidates[0]
	bestDistance := distance(best, requested)
	for _, c := range candidates[1:] {
		if d := distance(c, requested); d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best, true
}

func distance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
