package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtbook/internal/availability"
	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/pkg/config"
	mongotx "courtbook/pkg/db/mongo"
	"courtbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ReservationsCollection = "Reservations"
)

type ReservationRepository interface {
	Insert(ctx context.Context, reservation *model.Reservation) error
	Delete(ctx context.Context, holder string, start time.Time) (*model.Reservation, error)
	FindByRange(ctx context.Context, start, end time.Time) ([]*model.Reservation, error)
	FindOverlapping(ctx context.Context, start, end time.Time) ([]*model.Reservation, error)
	FindFutureOnDay(ctx context.Context, day, notBefore time.Time) ([]*model.Reservation, error)
	FindByHolder(ctx context.Context, holder string) ([]*model.Reservation, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(ReservationsCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo.Client),
	}
}

// withTimeout wraps the context with a timeout unless it is a transaction's
// SessionContext, which cannot be wrapped without losing the session.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoReservationRepository) Insert(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	reservation.CreatedAt = availability.Naive(time.Now()).Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

// Delete removes the reservation identified by holder and start and returns
// it, so the caller can release whatever was attached to its ID.
func (r *mongoReservationRepository) Delete(ctx context.Context, holder string, start time.Time) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"name": holder, "start_time": start}

	var deleted model.Reservation
	err := r.collection.FindOneAndDelete(ctx, filter).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete reservation: %w", err)
	}

	return &deleted, nil
}

// FindByRange returns reservations lying entirely inside [start, end],
// ordered by start.
func (r *mongoReservationRepository) FindByRange(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
	if end.Before(start) {
		return nil, reservationserrors.ErrInvalidTimeRange
	}
	filter := bson.M{
		"start_time": bson.M{"$gte": start},
		"end_time":   bson.M{"$lte": end},
	}
	return r.find(ctx, filter)
}

// FindOverlapping returns reservations intersecting [start, end).
func (r *mongoReservationRepository) FindOverlapping(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
	if !start.Before(end) {
		return nil, reservationserrors.ErrInvalidTimeRange
	}
	filter := bson.M{
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}
	return r.find(ctx, filter)
}

// FindFutureOnDay returns reservations ending on day's date that start at
// or after notBefore.
func (r *mongoReservationRepository) FindFutureOnDay(ctx context.Context, day, notBefore time.Time) ([]*model.Reservation, error) {
	dayStart := availability.StartOfDay(day)
	filter := bson.M{
		"end_time": bson.M{
			"$gte": dayStart,
			"$lt":  dayStart.AddDate(0, 0, 1),
		},
		"start_time": bson.M{"$gte": notBefore},
	}
	return r.find(ctx, filter)
}

func (r *mongoReservationRepository) FindByHolder(ctx context.Context, holder string) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{"name": holder})
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoReservationRepository) find(ctx context.Context, filter bson.M) ([]*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}
