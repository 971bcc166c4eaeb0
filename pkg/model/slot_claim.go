package model

import (
	"fmt"
	"time"
)

const slotKeyLayout = "2006-01-02T15:04"

// SlotClaim marks one grid slot as taken by a reservation. The unique _id
// makes a second claim on the same slot fail with a duplicate key error.
type SlotClaim struct {
	ID            string    `bson:"_id" json:"id"`
	ReservationID string    `bson:"reservation_id" json:"reservation_id"`
	SlotStart     time.Time `bson:"slot_start" json:"slot_start"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

func SlotKey(slotStart time.Time) string {
	return fmt.Sprintf("court_slot_%s", slotStart.Format(slotKeyLayout))
}

func NewSlotClaim(reservationID string, slotStart time.Time) *SlotClaim {
	return &SlotClaim{
		ID:            SlotKey(slotStart),
		ReservationID: reservationID,
		SlotStart:     slotStart,
	}
}
