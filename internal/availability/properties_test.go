package availability

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
	"time"
)

var propertyBase = at(2050, 6, 1, 0, 0)

// window builds an arbitrary interval from two minute offsets.
func window(startMin, lengthMin uint16) TimeWindow {
	start := propertyBase.Add(time.Duration(startMin%2000) * time.Minute)
	return TimeWindow{Start: start, End: start.Add(time.Duration(lengthMin%300) * time.Minute)}
}

// bookedDay is a random set of non-overlapping grid aligned reservations
// on propertyBase's day.
type bookedDay []TimeWindow

func (bookedDay) Generate(r *rand.Rand, _ int) reflect.Value {
	var day bookedDay
	cursor := propertyBase.Add(8 * time.Hour)
	closing := propertyBase.Add(18*time.Hour + 30*time.Minute)
	for cursor.Before(closing) {
		cursor = cursor.Add(time.Duration(r.Intn(4)) * 30 * time.Minute)
		length := time.Duration(1+r.Intn(3)) * 30 * time.Minute
		if cursor.Add(length).After(closing) {
			break
		}
		day = append(day, TimeWindow{Start: cursor, End: cursor.Add(length)})
		cursor = cursor.Add(length)
	}
	return reflect.ValueOf(day)
}

func TestProperty_OverlapSymmetry(t *testing.T) {
	f := func(as, al, bs, bl uint16) bool {
		a, b := window(as, al), window(bs, bl)
		return Overlaps(a, b) == Overlaps(b, a)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestProperty_ZeroLengthNeverOverlaps(t *testing.T) {
	f := func(as, bs, bl uint16) bool {
		a := window(as, 0)
		return !Overlaps(a, window(bs, bl)) && !Overlaps(a, a)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestProperty_ConflictFilterSoundness(t *testing.T) {
	e := newTestEngine(at(2026, 10, 16, 9, 0))
	f := func(day bookedDay, hour uint8) bool {
		grid := e.BuildGrid(propertyBase.Add(time.Duration(hour%24) * time.Hour))
		for _, s := range FilterFree(grid, day) {
			for _, w := range day {
				if !s.Start.Before(w.Start) && s.Start.Before(w.End) {
					return false
				}
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestProperty_RunContiguity(t *testing.T) {
	e := newTestEngine(at(2026, 10, 16, 9, 0))
	f := func(day bookedDay, pick uint8) bool {
		d := e.Policy().Durations[int(pick)%len(e.Policy().Durations)]
		free := FilterFree(e.BuildGrid(propertyBase.Add(8*time.Hour)), day)
		for _, start := range e.FindRuns(free, d) {
			// every slot of the run is free and the run is bookable
			if !IsAvailable(Window(start, d), day) {
				return false
			}
			for _, slotStart := range e.SlotStarts(Window(start, d)) {
				if covered(slotStart, day) {
					return false
				}
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestProperty_SelectClosestIsStableMin(t *testing.T) {
	f := func(offsets []uint16, requestedMin uint16) bool {
		if len(offsets) == 0 {
			_, ok := SelectClosest(nil, propertyBase)
			return !ok
		}
		candidates := make([]time.Time, len(offsets))
		for i, o := range offsets {
			candidates[i] = propertyBase.Add(time.Duration(o%1440) * time.Minute)
		}
		requested := propertyBase.Add(time.Duration(requestedMin%1440) * time.Minute)

		got, ok := SelectClosest(candidates, requested)
		if !ok {
			return false
		}
		firstBest := -1
		for i, c := range candidates {
			if firstBest < 0 || distance(c, requested) < distance(candidates[firstBest], requested) {
				firstBest = i
			}
		}
		return got.Equal(candidates[firstBest])
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestProperty_EquidistantTieTakesEarlier(t *testing.T) {
	f := func(requestedMin uint16, gapMin uint8) bool {
		requested := propertyBase.Add(time.Duration(requestedMin%1440) * time.Minute)
		gap := time.Duration(gapMin%120+1) * time.Minute
		earlier, later := requested.Add(-gap), requested.Add(gap)
		got, ok := SelectClosest([]time.Time{earlier, later}, requested)
		return ok && got.Equal(earlier)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestProperty_AlternativeIsAlwaysBookable(t *testing.T) {
	e := newTestEngine(at(2026, 10, 16, 9, 0))
	f := func(day bookedDay, slot uint8, pick uint8) bool {
		d := e.Policy().Durations[int(pick)%len(e.Policy().Durations)]
		requested := propertyBase.Add(8*time.Hour + time.Duration(slot%21)*30*time.Minute)
		alt, ok := e.ProposeAlternative(requested, d, day)
		if !ok {
			return true
		}
		return IsAvailable(Window(alt, d), day) &&
			e.WithinBusinessHours(alt, d) &&
			e.DurationAllowed(alt, d) &&
			e.Aligned(alt)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
