package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"courtbook/internal/reservations/service"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"
)

var now = time.Date(2050, 6, 1, 9, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2050, 6, day, hour, minute, 0, 0, time.UTC)
}

type mockReservationService struct {
	checkStartFunc        func(ctx context.Context, holder string, start time.Time) error
	durationsFunc         func(start time.Time) []time.Duration
	checkAvailabilityFunc func(ctx context.Context, start time.Time, d time.Duration) (bool, error)
	findAlternativeFunc   func(ctx context.Context, start time.Time, d time.Duration) (time.Time, bool, error)
	reserveFunc           func(ctx context.Context, holder string, start time.Time, d time.Duration) (*model.Reservation, error)
	cancelFunc            func(ctx context.Context, holder string, start time.Time) error
	scheduleFunc          func(ctx context.Context, from, to time.Time) ([]service.DaySchedule, error)
	exportFunc            func(ctx context.Context, req service.ExportRequest) (string, error)
}

func (m *mockReservationService) CheckStart(ctx context.Context, holder string, start time.Time) error {
	if m.checkStartFunc != nil {
		return m.checkStartFunc(ctx, holder, start)
	}
	return nil
}

func (m *mockReservationService) Durations(start time.Time) []time.Duration {
	if m.durationsFunc != nil {
		return m.durationsFunc(start)
	}
	return []time.Duration{30 * time.Minute, time.Hour, 90 * time.Minute}
}

func (m *mockReservationService) CheckAvailability(ctx context.Context, start time.Time, d time.Duration) (bool, error) {
	if m.checkAvailabilityFunc != nil {
		return m.checkAvailabilityFunc(ctx, start, d)
	}
	return true, nil
}

func (m *mockReservationService) FindAlternative(ctx context.Context, start time.Time, d time.Duration) (time.Time, bool, error) {
	if m.findAlternativeFunc != nil {
		return m.findAlternativeFunc(ctx, start, d)
	}
	return time.Time{}, false, nil
}

func (m *mockReservationService) Reserve(ctx context.Context, holder string, start time.Time, d time.Duration) (*model.Reservation, error) {
	if m.reserveFunc != nil {
		return m.reserveFunc(ctx, holder, start, d)
	}
	return &model.Reservation{Holder: holder, Start: start, End: start.Add(d)}, nil
}

func (m *mockReservationService) Cancel(ctx context.Context, holder string, start time.Time) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, holder, start)
	}
	return nil
}

func (m *mockReservationService) Schedule(ctx context.Context, from, to time.Time) ([]service.DaySchedule, error) {
	if m.scheduleFunc != nil {
		return m.scheduleFunc(ctx, from, to)
	}
	return nil, nil
}

func (m *mockReservationService) Export(ctx context.Context, req service.ExportRequest) (string, error) {
	if m.exportFunc != nil {
		return m.exportFunc(ctx, req)
	}
	return "/tmp/" + req.Filename + "." + req.Format, nil
}

// run feeds lines to a new App and returns everything it printed.
func run(t *testing.T, svc service.ReservationService, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	app := NewApp(svc, NewPrompter(in, &out), logger.Discard(), func() time.Time { return now })

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return out.String()
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output does not contain %q:\n%s", w, out)
		}
	}
}

func TestRun_Menu(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{name: "exit", lines: []string{"5"}, want: []string{"What do you want to do?", "4. Save schedule to a file", "Bye!"}},
		{name: "not a number", lines: []string{"abc", "5"}, want: []string{`Invalid number "abc"`, "Bye!"}},
		{name: "unknown option", lines: []string{"9", "5"}, want: []string{"Invalid option 9", "Bye!"}},
		{name: "end of input", lines: []string{"0"}, want: []string{"Invalid option 0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, &mockReservationService{}, tt.lines...)
			assertContains(t, out, tt.want...)
		})
	}
}

func TestReserve(t *testing.T) {
	var gotHolder string
	var gotStart time.Time
	var gotDuration time.Duration
	svc := &mockReservationService{
		reserveFunc: func(ctx context.Context, holder string, start time.Time, d time.Duration) (*model.Reservation, error) {
			gotHolder, gotStart, gotDuration = holder, start, d
			return &model.Reservation{Holder: holder, Start: start, End: start.Add(d)}, nil
		},
	}

	out := run(t, svc, "1", "anna", "Anna Nowak", "02.06.2050 10:15", "02.06.2050 10:00", "4", "2", "5")

	assertContains(t, out,
		"Invalid name",
		"minutes must be 00 or 30",
		"Invalid option 4",
		"Reservation successful! Anna Nowak, 02.06.2050 10:00 - 11:00",
	)
	if gotHolder != "Anna Nowak" || !gotStart.Equal(at(2, 10, 0)) || gotDuration != time.Hour {
		t.Errorf("Reserve called with %q, %s, %s", gotHolder, gotStart, gotDuration)
	}
}

func TestReserve_OnlyAllowedDurationsOffered(t *testing.T) {
	svc := &mockReservationService{
		durationsFunc: func(start time.Time) []time.Duration {
			return []time.Duration{30 * time.Minute, time.Hour}
		},
	}

	out := run(t, svc, "1", "Anna Nowak", "02.06.2050 17:00", "3", "1", "5")

	assertContains(t, out, "1) 30 minutes", "2) 60 minutes", "Invalid option 3", "17:00 - 17:30")
	if strings.Contains(out, "3) 90 minutes") {
		t.Error("90 minutes must not be offered")
	}
}

func TestReserve_RejectedStart(t *testing.T) {
	reserved := false
	svc := &mockReservationService{
		checkStartFunc: func(ctx context.Context, holder string, start time.Time) error {
			return apperrors.BusinessRule("Anna Nowak already has 3 reservations this week")
		},
		reserveFunc: func(ctx context.Context, holder string, start time.Time, d time.Duration) (*model.Reservation, error) {
			reserved = true
			return nil, nil
		},
	}

	out := run(t, svc, "1", "Anna Nowak", "02.06.2050 10:00", "5")

	assertContains(t, out, "Anna Nowak already has 3 reservations this week.", "Bye!")
	if reserved {
		t.Error("Reserve must not be called")
	}
}

func TestReserve_Alternative(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		wantBooked bool
	}{
		{name: "accepted", answer: "yes", wantBooked: true},
		{name: "declined", answer: "n", wantBooked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var booked *time.Time
			svc := &mockReservationService{
				checkAvailabilityFunc: func(ctx context.Context, start time.Time, d time.Duration) (bool, error) {
					return false, nil
				},
				findAlternativeFunc: func(ctx context.Context, start time.Time, d time.Duration) (time.Time, bool, error) {
					return at(2, 11, 0), true, nil
				},
				reserveFunc: func(ctx context.Context, holder string, start time.Time, d time.Duration) (*model.Reservation, error) {
					booked = &start
					return &model.Reservation{Holder: holder, Start: start, End: start.Add(d)}, nil
				},
			}

			out := run(t, svc, "1", "Anna Nowak", "02.06.2050 10:00", "2", "maybe", tt.answer, "5")

			assertContains(t, out,
				"The time you chose is unavailable, would you like to make a reservation for 11:00 instead?",
				`Invalid answer "maybe"`,
			)
			if tt.wantBooked {
				if booked == nil || !booked.Equal(at(2, 11, 0)) {
					t.Errorf("expected booking at 11:00, got %v", booked)
				}
				return
			}
			if booked != nil {
				t.Error("no booking expected")
			}
			assertContains(t, out, "Reservation abandoned.")
		})
	}
}

func TestReserve_NoAlternative(t *testing.T) {
	svc := &mockReservationService{
		checkAvailabilityFunc: func(ctx context.Context, start time.Time, d time.Duration) (bool, error) {
			return false, nil
		},
	}

	out := run(t, svc, "1", "Anna Nowak", "02.06.2050 10:00", "1", "5")
	assertContains(t, out, "no free time left that day")
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "cancelled", want: "Reservation cancelled."},
		{name: "not found", err: apperrors.NotFound("Reservation"), want: "Reservation not found."},
		{name: "store failure", err: apperrors.Internal("Failed to cancel reservation", errors.New("timeout")), want: "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockReservationService{
				cancelFunc: func(ctx context.Context, holder string, start time.Time) error {
					if holder != "Anna Nowak" || !start.Equal(at(2, 10, 0)) {
						t.Errorf("Cancel called with %q, %s", holder, start)
					}
					return tt.err
				},
			}

			out := run(t, svc, "2", "Anna Nowak", "02.06.2050 10:00", "5")
			assertContains(t, out, tt.want, "Bye!")
		})
	}
}

func TestPrintSchedule(t *testing.T) {
	svc := &mockReservationService{
		scheduleFunc: func(ctx context.Context, from, to time.Time) ([]service.DaySchedule, error) {
			if !from.Equal(at(1, 0, 0)) || !to.Equal(at(3, 0, 0)) {
				t.Errorf("Schedule called with %s, %s", from, to)
			}
			return []service.DaySchedule{
				{Day: at(1, 0, 0), Reservations: []*model.Reservation{
					{Holder: "Anna Nowak", Start: at(1, 12, 0), End: at(1, 13, 0)},
				}},
				{Day: at(2, 0, 0)},
				{Day: at(3, 0, 0), Reservations: []*model.Reservation{
					{Holder: "Jan Kowalski", Start: at(3, 8, 0), End: at(3, 9, 30)},
				}},
			}, nil
		},
	}

	out := run(t, svc, "3", "01.06.2050", "03.06.2050", "5")

	assertContains(t, out,
		"Today:\n* Anna Nowak 12:00 - 13:00",
		"Tomorrow:\nNo Reservations",
		"Friday 03.06.2050:\n* Jan Kowalski 08:00 - 09:30",
	)
}

func TestPrintSchedule_Rejected(t *testing.T) {
	svc := &mockReservationService{
		scheduleFunc: func(ctx context.Context, from, to time.Time) ([]service.DaySchedule, error) {
			return nil, apperrors.BusinessRule("Schedules can be printed from today for at most 7 days")
		},
	}

	out := run(t, svc, "3", "2050-06-01", "01.06.2050", "20.06.2050", "5")
	assertContains(t, out, "expected DD.MM.YYYY", "Schedules can be printed from today for at most 7 days.")
}

func TestSaveSchedule(t *testing.T) {
	var got service.ExportRequest
	svc := &mockReservationService{
		exportFunc: func(ctx context.Context, req service.ExportRequest) (string, error) {
			got = req
			return "/exports/week.json", nil
		},
	}

	out := run(t, svc, "4", "01.05.2050", "07.05.2050", "xml", " .JSON", "y", "../week", "week.json", "5")

	assertContains(t, out,
		`Unsupported format "xml"`,
		"Include days without reservations?",
		"Schedule saved to /exports/week.json",
	)
	want := service.ExportRequest{
		From:         time.Date(2050, 5, 1, 0, 0, 0, 0, time.UTC),
		To:           time.Date(2050, 5, 7, 0, 0, 0, 0, time.UTC),
		Format:       "json",
		Filename:     "week.json",
		IncludeEmpty: true,
	}
	if got != want {
		t.Errorf("Export called with %+v, want %+v", got, want)
	}
}

func TestSaveSchedule_CSVSkipsEmptyDaysQuestion(t *testing.T) {
	svc := &mockReservationService{}

	out := run(t, svc, "4", "01.05.2050", "07.05.2050", "csv", "week", "5")

	if strings.Contains(out, "Include days without reservations?") {
		t.Error("CSV export must not ask about empty days")
	}
	assertContains(t, out, "Schedule saved to /tmp/week.csv")
}

func TestRun_RecoversFromPanic(t *testing.T) {
	svc := &mockReservationService{
		cancelFunc: func(ctx context.Context, holder string, start time.Time) error {
			panic("boom")
		},
	}

	out := run(t, svc, "2", "Anna Nowak", "02.06.2050 10:00", "5")
	assertContains(t, out, "Something went wrong", "Bye!")
}

func TestDayHeader(t *testing.T) {
	today := at(1, 0, 0)
	tests := []struct {
		day  time.Time
		want string
	}{
		{at(1, 0, 0), "Today"},
		{at(2, 0, 0), "Tomorrow"},
		{time.Date(2050, 5, 31, 0, 0, 0, 0, time.UTC), "Yesterday"},
		{at(6, 0, 0), "Monday 06.06.2050"},
	}

	for _, tt := range tests {
		if got := dayHeader(tt.day, today); got != tt.want {
			t.Errorf("dayHeader(%s) = %q, want %q", tt.day.Format("2006-01-02"), got, tt.want)
		}
	}
}
