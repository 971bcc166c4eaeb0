package model

import (
	"time"
)

// Reservation is one booking of the court. Start and End are naive wall
// clock values; see availability.Naive.
type Reservation struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Holder    string    `json:"name" bson:"name" validate:"required,holder_name"`
	Start     time.Time `json:"start_time" bson:"start_time" validate:"required,half_hour"`
	End       time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=Start,court_duration"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (r *Reservation) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
