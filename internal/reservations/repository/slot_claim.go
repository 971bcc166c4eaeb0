package repository

import (
	"context"
	"fmt"
	"time"

	"courtbook/internal/availability"
	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/pkg/config"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	SlotClaimsCollection = "Court_slots"
)

// SlotClaimRepository records which grid slots are held by which
// reservation.
type SlotClaimRepository interface {
	Claim(ctx context.Context, reservationID string, slotStarts []time.Time) error
	Release(ctx context.Context, reservationID string) (int64, error)
}

type mongoSlotClaimRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewSlotClaimRepository(cfg *config.Config) SlotClaimRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotClaimRepository{
		cfg:        cfg,
		collection: db.Collection(SlotClaimsCollection),
	}
}

// Claim inserts one claim per slot. A slot that is already claimed makes
// the whole call fail with ErrSlotTaken.
func (r *mongoSlotClaimRepository) Claim(ctx context.Context, reservationID string, slotStarts []time.Time) error {
	if len(slotStarts) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := availability.Naive(time.Now()).Truncate(time.Millisecond)
	docs := make([]any, 0, len(slotStarts))
	for _, start := range slotStarts {
		claim := model.NewSlotClaim(reservationID, start)
		claim.CreatedAt = now
		docs = append(docs, claim)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reservationserrors.ErrSlotTaken
		}
		return fmt.Errorf("failed to claim slots: %w", err)
	}
	return nil
}

func (r *mongoSlotClaimRepository) Release(ctx context.Context, reservationID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"reservation_id": reservationID})
	if err != nil {
		return 0, fmt.Errorf("failed to release slots: %w", err)
	}
	return result.DeletedCount, nil
}
