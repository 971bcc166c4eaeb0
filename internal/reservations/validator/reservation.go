package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"courtbook/internal/availability"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	holderNameRegex = regexp.MustCompile(`^\p{Lu}\p{L}+ \p{Lu}\p{L}+$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate *validator.Validate
	policy   availability.Policy
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger, policy availability.Policy) *ReservationValidator {
	v := validator.New()
	rv := &ReservationValidator{validate: v, policy: policy, logger: log}

	registrations := map[string]validator.Func{
		"holder_name":    validateHolderName,
		"half_hour":      rv.validateSlotAligned,
		"court_duration": rv.validateCourtDuration,
	}
	for tag, fn := range registrations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	log.Debug("Reservation validator initialized successfully")
	return rv
}

// IsHolderName reports whether name is two capitalized words of letters
// separated by exactly one space.
func IsHolderName(name string) bool {
	return holderNameRegex.MatchString(name)
}

func validateHolderName(fl validator.FieldLevel) bool {
	return IsHolderName(fl.Field().String())
}

func (v *ReservationValidator) validateSlotAligned(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.Second() == 0 && t.Nanosecond() == 0 &&
		t.Sub(availability.StartOfDay(t))%v.policy.SlotLength == 0
}

func (v *ReservationValidator) validateCourtDuration(fl validator.FieldLevel) bool {
	end, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	start, ok := reflect.Indirect(fl.Parent()).FieldByName("Start").Interface().(time.Time)
	if !ok {
		return false
	}
	return slices.Contains(v.policy.Durations, end.Sub(start))
}

func (v *ReservationValidator) Validate(reservation *model.Reservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "holder_name":
			message = fmt.Sprintf("%s must be two capitalized words separated by one space", err.Field())
		case "half_hour":
			message = fmt.Sprintf("%s must be on a %s boundary", err.Field(), v.policy.SlotLength)
		case "court_duration":
			message = fmt.Sprintf("%s must be %s after Start", err.Field(), formatDurations(v.policy.Durations))
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

func formatDurations(ds []time.Duration) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = fmt.Sprintf("%d", int(d.Minutes()))
	}
	return strings.Join(parts, ", ") + " minutes"
}
