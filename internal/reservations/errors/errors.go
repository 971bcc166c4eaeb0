package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrSlotTaken = errors.New("court slot is already claimed")

	ErrTimeConflict = errors.New("reservation time conflicts with existing reservation")

	ErrInvalidTimeRange = errors.New("end time must be after start time")
)
