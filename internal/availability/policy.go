package availability

import (
	"fmt"
	"time"
)

// Policy holds the business rules for the court. All clock values are
// offsets from midnight of the day being reasoned about.
type Policy struct {
	Opening                time.Duration
	Closing                time.Duration
	SlotLength             time.Duration
	Durations              []time.Duration
	LongDuration           time.Duration
	LongDurationCutoffHour int
	WeeklyQuota            int
	LeadTime               time.Duration
	Horizon                time.Time
	MaxPrintSpan           time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Opening:                8 * time.Hour,
		Closing:                18*time.Hour + 30*time.Minute,
		SlotLength:             30 * time.Minute,
		Durations:              []time.Duration{30 * time.Minute, 60 * time.Minute, 90 * time.Minute},
		LongDuration:           90 * time.Minute,
		LongDurationCutoffHour: 17,
		WeeklyQuota:            2,
		LeadTime:               time.Hour,
		Horizon:                time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC),
		MaxPrintSpan:           7 * 24 * time.Hour,
	}
}

func (p Policy) Validate() error {
	if p.SlotLength <= 0 {
		return fmt.Errorf("slot length must be positive, got %s", p.SlotLength)
	}
	if p.Opening < 0 || p.Closing > 24*time.Hour || p.Opening >= p.Closing {
		return fmt.Errorf("opening (%s) must be before closing (%s) within one day", p.Opening, p.Closing)
	}
	if p.Opening%p.SlotLength != 0 || p.Closing%p.SlotLength != 0 {
		return fmt.Errorf("opening and closing must be aligned to %s", p.SlotLength)
	}
	if len(p.Durations) == 0 {
		return fmt.Errorf("at least one duration is required")
	}
	for _, d := range p.Durations {
		if d <= 0 || d%p.SlotLength != 0 {
			return fmt.Errorf("duration %s must be a positive multiple of %s", d, p.SlotLength)
		}
	}
	if p.WeeklyQuota < 0 {
		return fmt.Errorf("weekly quota cannot be negative, got %d", p.WeeklyQuota)
	}
	if p.LeadTime < 0 {
		return fmt.Errorf("lead time cannot be negative, got %s", p.LeadTime)
	}
	if p.MaxPrintSpan <= 0 {
		return fmt.Errorf("max print span must be positive, got %s", p.MaxPrintSpan)
	}
	if p.Horizon.IsZero() {
		return fmt.Errorf("horizon is required")
	}
	return nil
}
