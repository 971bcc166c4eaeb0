package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtbook/internal/availability"
	"courtbook/internal/events"
	"courtbook/internal/export"
	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/internal/reservations/repository"
	"courtbook/internal/reservations/validator"
	"courtbook/pkg/config"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/model"
	"courtbook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReservationService interface {
	CheckStart(ctx context.Context, holder string, start time.Time) error
	Durations(start time.Time) []time.Duration
	CheckAvailability(ctx context.Context, start time.Time, duration time.Duration) (bool, error)
	FindAlternative(ctx context.Context, start time.Time, duration time.Duration) (time.Time, bool, error)
	Reserve(ctx context.Context, holder string, start time.Time, duration time.Duration) (*model.Reservation, error)
	Cancel(ctx context.Context, holder string, start time.Time) error
	Schedule(ctx context.Context, from, to time.Time) ([]DaySchedule, error)
	Export(ctx context.Context, req ExportRequest) (string, error)
}

// DaySchedule is one calendar day of the printed schedule.
type DaySchedule struct {
	Day          time.Time
	Reservations []*model.Reservation
}

type ExportRequest struct {
	From         time.Time
	To           time.Time
	Format       string
	Filename     string
	IncludeEmpty bool
}

type reservationService struct {
	repo      repository.ReservationRepository
	claims    repository.SlotClaimRepository
	validator *validator.ReservationValidator
	engine    *availability.Engine
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	claims repository.SlotClaimRepository,
	validator *validator.ReservationValidator,
	engine *availability.Engine,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		claims:    claims,
		validator: validator,
		engine:    engine,
		publisher: publisher,
		cfg:       cfg,
	}
}

// CheckStart applies the rules that depend only on who books and when the
// reservation begins.
func (s *reservationService) CheckStart(ctx context.Context, holder string, start time.Time) error {
	policy := s.engine.Policy()

	if !s.engine.Aligned(start) {
		return apperrors.BusinessRule(fmt.Sprintf("Reservations start on a %d minute boundary", int(policy.SlotLength.Minutes())))
	}
	if !s.engine.WithinOpeningHours(start) {
		return apperrors.BusinessRule(fmt.Sprintf("The court is open from %s to %s", clock(policy.Opening), clock(policy.Closing)))
	}
	if !s.engine.RespectsLeadTime(start) {
		return apperrors.BusinessRule(fmt.Sprintf("Reservations must start at least %s from now", policy.LeadTime))
	}
	if !s.engine.WithinHorizon(start) {
		return apperrors.BusinessRule(fmt.Sprintf("Reservations are accepted until %s", policy.Horizon.Format(validator.DateLayout)))
	}

	holder = sanitizer.SanitizeHolder(holder)
	existing, err := s.repo.FindByHolder(ctx, holder)
	if err != nil {
		s.cfg.Log.Error("Failed to load holder reservations", "holder", holder, "error", err)
		return apperrors.Internal("Failed to check weekly quota", err)
	}
	ends := make([]time.Time, len(existing))
	for i, r := range existing {
		ends[i] = r.End
	}
	if !s.engine.WithinWeeklyQuota(start, ends) {
		return apperrors.BusinessRule(fmt.Sprintf("%s already has %d reservations this week", holder, availability.CountInISOWeek(start, ends))).
			WithDetails(map[string]any{"weekly_quota": policy.WeeklyQuota})
	}

	return nil
}

func (s *reservationService) Durations(start time.Time) []time.Duration {
	return s.engine.DurationsFor(start)
}

func (s *reservationService) CheckAvailability(ctx context.Context, start time.Time, duration time.Duration) (bool, error) {
	proposed := availability.Window(start, duration)
	existing, err := s.repo.FindOverlapping(ctx, proposed.Start, proposed.End)
	if err != nil {
		s.cfg.Log.Error("Failed to check availability", "start", start, "error", err)
		return false, apperrors.Internal("Failed to check availability", err)
	}
	return availability.IsAvailable(proposed, windows(existing)), nil
}

// FindAlternative proposes the free start closest to start on the same day.
// The search considers the day's upcoming reservations; a proposal that
// collides with one already in progress is discarded and the search is
// repeated against the whole day.
func (s *reservationService) FindAlternative(ctx context.Context, start time.Time, duration time.Duration) (time.Time, bool, error) {
	upcoming, err := s.repo.FindFutureOnDay(ctx, start, s.engine.EarliestStart())
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations for alternative search", "day", start, "error", err)
		return time.Time{}, false, apperrors.Internal("Failed to search for an alternative", err)
	}

	alt, ok := s.engine.ProposeAlternative(start, duration, windows(upcoming))
	if !ok {
		return time.Time{}, false, nil
	}

	dayStart := availability.StartOfDay(start)
	wholeDay, err := s.repo.FindOverlapping(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		s.cfg.Log.Error("Failed to verify alternative", "day", start, "error", err)
		return time.Time{}, false, apperrors.Internal("Failed to search for an alternative", err)
	}

	dayWindows := windows(wholeDay)
	if availability.IsAvailable(availability.Window(alt, duration), dayWindows) {
		return alt, true, nil
	}

	s.cfg.Log.Debug("Alternative collides with a reservation in progress, searching again", "alternative", alt)
	alt, ok = s.engine.ProposeAlternative(start, duration, dayWindows)
	return alt, ok, nil
}

func (s *reservationService) Reserve(ctx context.Context, holder string, start time.Time, duration time.Duration) (*model.Reservation, error) {
	reservation := &model.Reservation{
		Holder: sanitizer.SanitizeHolder(holder),
		Start:  start,
		End:    start.Add(duration),
	}
	if err := s.validate(reservation); err != nil {
		return nil, err
	}
	if err := s.CheckStart(ctx, reservation.Holder, start); err != nil {
		return nil, err
	}
	if !s.engine.DurationAllowed(start, duration) {
		return nil, apperrors.BusinessRule(fmt.Sprintf("A %d minute reservation cannot start at %s", int(duration.Minutes()), start.Format(config.ClockLayout)))
	}
	if !s.engine.WithinBusinessHours(start, duration) {
		return nil, apperrors.BusinessRule(fmt.Sprintf("Reservations must end by %s", clock(s.engine.Policy().Closing)))
	}

	window := availability.Window(start, duration)
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindOverlapping(sessCtx, window.Start, window.End)
		if err != nil {
			return apperrors.Internal("Failed to check existing reservations", err)
		}
		if !availability.IsAvailable(window, windows(existing)) {
			return apperrors.Wrap(reservationserrors.ErrTimeConflict, apperrors.CodeConflict, "The time you chose is unavailable")
		}

		if err := s.repo.Insert(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}

		if err := s.claims.Claim(sessCtx, reservation.ID, s.engine.SlotStarts(window)); err != nil {
			if errors.Is(err, reservationserrors.ErrSlotTaken) {
				return apperrors.Wrap(err, apperrors.CodeConflict, "The time you chose is unavailable")
			}
			return apperrors.Internal("Failed to claim court slots", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			s.cfg.Log.Info("Reservation conflict", "start", start, "duration", duration)
		} else {
			s.cfg.Log.Error("Failed to create reservation", "error", err)
		}
		return nil, err
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"holder", reservation.Holder,
		"start_time", reservation.Start,
		"end_time", reservation.End,
	)
	if err := s.publisher.ReservationCreated(ctx, reservation); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event", "id", reservation.ID, "error", err)
	}
	return reservation, nil
}

func (s *reservationService) Cancel(ctx context.Context, holder string, start time.Time) error {
	holder = sanitizer.SanitizeHolder(holder)

	var cancelled *model.Reservation
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		deleted, err := s.repo.Delete(sessCtx, holder, start)
		if err != nil {
			if errors.Is(err, reservationserrors.ErrNotFound) {
				return apperrors.NotFound("Reservation")
			}
			return apperrors.Internal("Failed to cancel reservation", err)
		}
		if _, err := s.claims.Release(sessCtx, deleted.ID); err != nil {
			return apperrors.Internal("Failed to release court slots", err)
		}
		cancelled = deleted
		return nil
	})
	if err != nil {
		if !apperrors.HasCode(err, apperrors.CodeNotFound) {
			s.cfg.Log.Error("Failed to cancel reservation", "holder", holder, "start", start, "error", err)
		}
		return err
	}

	s.cfg.Log.Info("Reservation cancelled successfully", "id", cancelled.ID, "holder", holder, "start_time", start)
	if err := s.publisher.ReservationCancelled(ctx, cancelled); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event", "id", cancelled.ID, "error", err)
	}
	return nil
}

// Schedule lists reservations per day for every day in [from, to],
// including days without any.
func (s *reservationService) Schedule(ctx context.Context, from, to time.Time) ([]DaySchedule, error) {
	from, to = availability.StartOfDay(from), availability.StartOfDay(to)
	if !s.engine.ValidateRange(from, to, availability.PurposePrint) {
		return nil, apperrors.BusinessRule(fmt.Sprintf(
			"Schedules can be printed from today for at most %d days", int(s.engine.Policy().MaxPrintSpan.Hours()/24)))
	}

	reservations, err := s.findRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var days []DaySchedule
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		days = append(days, DaySchedule{Day: day})
	}
	for _, r := range reservations {
		idx := int(availability.StartOfDay(r.Start).Sub(from).Hours() / 24)
		if idx >= 0 && idx < len(days) {
			days[idx].Reservations = append(days[idx].Reservations, r)
		}
	}
	return days, nil
}

func (s *reservationService) Export(ctx context.Context, req ExportRequest) (string, error) {
	format, err := export.ValidateFormat(sanitizer.SanitizeFormat(req.Format))
	if err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}
	filename := sanitizer.SanitizeFilename(req.Filename, string(format))
	if err := export.ValidateFilename(filename); err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}

	from, to := availability.StartOfDay(req.From), availability.StartOfDay(req.To)
	if !s.engine.ValidateRange(from, to, availability.PurposeExport) {
		return "", apperrors.BusinessRule(fmt.Sprintf(
			"The start date must not be after the end date, which must not be after %s", s.engine.Policy().Horizon.Format(validator.DateLayout)))
	}

	reservations, err := s.findRange(ctx, from, to)
	if err != nil {
		return "", err
	}

	path, err := export.WriteFile(s.cfg.ExportDir, filename, format, reservations, from, to, req.IncludeEmpty)
	if err != nil {
		s.cfg.Log.Error("Failed to export schedule", "filename", filename, "error", err)
		return "", apperrors.Internal("Failed to save schedule", err)
	}

	s.cfg.Log.Info("Schedule exported", "path", path, "reservations", len(reservations))
	return path, nil
}

// --- Helpers ---

// findRange loads reservations lying within the calendar days [from, to].
func (s *reservationService) findRange(ctx context.Context, from, to time.Time) ([]*model.Reservation, error) {
	reservations, err := s.repo.FindByRange(ctx, from, to.AddDate(0, 0, 1))
	if errors.Is(err, reservationserrors.ErrInvalidTimeRange) {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidInput, "The end date cannot be before the start date")
	}
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations", "from", from, "to", to, "error", err)
		return nil, apperrors.Internal("Failed to load reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) validate(r *model.Reservation) error {
	if err := s.validator.Validate(r); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func windows(reservations []*model.Reservation) []availability.TimeWindow {
	out := make([]availability.TimeWindow, len(reservations))
	for i, r := range reservations {
		out[i] = availability.TimeWindow{Start: r.Start, End: r.End}
	}
	return out
}

func clock(offset time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(offset.Hours()), int(offset.Minutes())%60)
}
