// Package cli is the operator facing menu loop of courtbook.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"courtbook/internal/availability"
	"courtbook/internal/export"
	"courtbook/internal/reservations/service"
	"courtbook/internal/reservations/validator"
	apperrors "courtbook/pkg/errors"
	"courtbook/pkg/logger"
	"courtbook/pkg/middleware"
	"courtbook/pkg/sanitizer"
)

const clockLayout = "15:04"

const (
	optionReserve = iota + 1
	optionCancel
	optionPrint
	optionExport
	optionExit
)

var menu = []string{
	"1. Make a reservation",
	"2. Cancel a reservation",
	"3. Print schedule",
	"4. Save schedule to a file",
	"5. Exit",
}

type App struct {
	svc     service.ReservationService
	prompt  *Prompter
	log     *logger.Logger
	now     func() time.Time
	actions map[int]middleware.Action
}

// NewApp wires the menu to svc. now decides which days are printed as
// Today, Tomorrow and Yesterday.
func NewApp(svc service.ReservationService, prompt *Prompter, log *logger.Logger, now func() time.Time) *App {
	if now == nil {
		now = availability.SystemClock{}.Now
	}
	a := &App{svc: svc, prompt: prompt, log: log, now: now}

	mws := []middleware.Middleware{middleware.ActionLogging(log), middleware.Recovery(log)}
	a.actions = map[int]middleware.Action{
		optionReserve: middleware.Chain("reserve", a.reserve, mws...),
		optionCancel:  middleware.Chain("cancel", a.cancel, mws...),
		optionPrint:   middleware.Chain("print_schedule", a.printSchedule, mws...),
		optionExport:  middleware.Chain("save_schedule", a.saveSchedule, mws...),
	}
	return a
}

// Run shows the menu until the operator picks Exit or input ends.
func (a *App) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		a.prompt.Println()
		a.prompt.Println("What do you want to do?")
		for _, item := range menu {
			a.prompt.Println(item)
		}

		choice, err := askUntil(a.prompt, "Enter your choice:", validator.ParseNumber)
		if err != nil {
			return endOfInput(err)
		}

		if choice == optionExit {
			a.prompt.Println("Bye!")
			return nil
		}
		action, ok := a.actions[choice]
		if !ok {
			a.prompt.Printf("Invalid option %d. Please provide a valid option.\n", choice)
			continue
		}

		if err := action(ctx); err != nil {
			if apperrors.IsAppError(err) {
				a.report(err)
				continue
			}
			return endOfInput(err)
		}
	}
}

func (a *App) reserve(ctx context.Context) error {
	holder, err := askUntil(a.prompt, "What's your name?", validator.ParseHolderName)
	if err != nil {
		return err
	}
	start, err := askUntil(a.prompt, "When would you like to book? {DD.MM.YYYY HH:MM}", validator.ParseStart)
	if err != nil {
		return err
	}
	if err := a.svc.CheckStart(ctx, holder, start); err != nil {
		a.report(err)
		return nil
	}

	durations := a.svc.Durations(start)
	if len(durations) == 0 {
		a.prompt.Printf("No reservation can start at %s.\n", start.Format(clockLayout))
		return nil
	}
	a.prompt.Println("How long would you like to book the court?")
	for i, d := range durations {
		a.prompt.Printf("%d) %d minutes\n", i+1, int(d.Minutes()))
	}
	duration, err := askUntil(a.prompt, "", func(s string) (time.Duration, error) {
		return validator.ParseChoice(s, durations)
	})
	if err != nil {
		return err
	}

	available, err := a.svc.CheckAvailability(ctx, start, duration)
	if err != nil {
		a.report(err)
		return nil
	}
	if !available {
		alt, ok, err := a.svc.FindAlternative(ctx, start, duration)
		if err != nil {
			a.report(err)
			return nil
		}
		if !ok {
			a.prompt.Println("The time you chose is unavailable and there is no free time left that day.")
			return nil
		}
		accept, err := askUntil(a.prompt,
			fmt.Sprintf("The time you chose is unavailable, would you like to make a reservation for %s instead? (yes/no)", alt.Format(clockLayout)),
			validator.ParseYesNo)
		if err != nil {
			return err
		}
		if !accept {
			a.prompt.Println("Reservation abandoned.")
			return nil
		}
		start = alt
	}

	r, err := a.svc.Reserve(ctx, holder, start, duration)
	if err != nil {
		a.report(err)
		return nil
	}
	a.prompt.Printf("Reservation successful! %s, %s %s - %s\n",
		r.Holder, r.Start.Format(validator.DateLayout), r.Start.Format(clockLayout), r.End.Format(clockLayout))
	return nil
}

func (a *App) cancel(ctx context.Context) error {
	holder, err := askUntil(a.prompt, "What's your name?", validator.ParseHolderName)
	if err != nil {
		return err
	}
	start, err := askUntil(a.prompt, "When does the reservation start? {DD.MM.YYYY HH:MM}", validator.ParseStart)
	if err != nil {
		return err
	}

	if err := a.svc.Cancel(ctx, holder, start); err != nil {
		a.report(err)
		return nil
	}
	a.prompt.Println("Reservation cancelled.")
	return nil
}

func (a *App) printSchedule(ctx context.Context) error {
	from, to, err := a.askRange()
	if err != nil {
		return err
	}

	days, err := a.svc.Schedule(ctx, from, to)
	if err != nil {
		a.report(err)
		return nil
	}

	today := availability.StartOfDay(a.now())
	for _, day := range days {
		a.prompt.Println(dayHeader(day.Day, today) + ":")
		if len(day.Reservations) == 0 {
			a.prompt.Println("No Reservations")
			continue
		}
		for _, r := range day.Reservations {
			a.prompt.Printf("* %s %s - %s\n", r.Holder, r.Start.Format(clockLayout), r.End.Format(clockLayout))
		}
	}
	return nil
}

func (a *App) saveSchedule(ctx context.Context) error {
	from, to, err := a.askRange()
	if err != nil {
		return err
	}

	format, err := askUntil(a.prompt, "Which format? (csv/json)", func(s string) (export.Format, error) {
		return export.ValidateFormat(sanitizer.SanitizeFormat(s))
	})
	if err != nil {
		return err
	}

	var includeEmpty bool
	if format == export.FormatJSON {
		includeEmpty, err = askUntil(a.prompt, "Include days without reservations? (yes/no)", validator.ParseYesNo)
		if err != nil {
			return err
		}
	}

	filename, err := askUntil(a.prompt, "File name:", func(s string) (string, error) {
		return s, export.ValidateFilename(sanitizer.SanitizeFilename(s, string(format)))
	})
	if err != nil {
		return err
	}

	path, err := a.svc.Export(ctx, service.ExportRequest{
		From:         from,
		To:           to,
		Format:       string(format),
		Filename:     filename,
		IncludeEmpty: includeEmpty,
	})
	if err != nil {
		a.report(err)
		return nil
	}
	a.prompt.Printf("Schedule saved to %s\n", path)
	return nil
}

func (a *App) askRange() (time.Time, time.Time, error) {
	from, err := askUntil(a.prompt, "From which day? {DD.MM.YYYY}", validator.ParseDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := askUntil(a.prompt, "Until which day? {DD.MM.YYYY}", validator.ParseDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// report shows rejections to the operator. Store failures are logged and
// the operator only learns that the operation was aborted.
func (a *App) report(err error) {
	appErr := apperrors.AsAppError(err)
	switch appErr.Code {
	case apperrors.CodeInternal, apperrors.CodeUnavailable:
		a.log.Error("Operation aborted", "error", err)
		a.prompt.Println("Something went wrong, the operation was aborted.")
	default:
		a.prompt.Println(appErr.Message + ".")
	}
}

func dayHeader(day, today time.Time) string {
	switch availability.StartOfDay(day).Sub(today) {
	case 0:
		return "Today"
	case 24 * time.Hour:
		return "Tomorrow"
	case -24 * time.Hour:
		return "Yesterday"
	default:
		return day.Format("Monday " + validator.DateLayout)
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
