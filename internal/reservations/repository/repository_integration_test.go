package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	reservationserrors "courtbook/internal/reservations/errors"
	"courtbook/pkg/client"
	"courtbook/pkg/config"
	"courtbook/pkg/logger"
	"courtbook/pkg/model"
)

// EnvTestMongoURI points the integration tests at a replica set; the tests
// are skipped when it is unset.
const EnvTestMongoURI = "COURTBOOK_TEST_MONGO_URI"

func setup(t *testing.T) (*config.Config, ReservationRepository, SlotClaimRepository) {
	t.Helper()

	uri := os.Getenv(EnvTestMongoURI)
	if uri == "" {
		t.Skipf("%s not set", EnvTestMongoURI)
	}

	cfg := config.FromEnv()
	cfg.MongoURI = uri
	cfg.MongoDatabaseName = "courtbook_it_" + time.Now().Format("20060102150405")
	cfg.Log = logger.Discard()
	cfg.Client = client.NewClient()

	mongoClient, err := client.NewMongoClient(context.Background(), uri, cfg.MongoConnTimeout)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	cfg.Client.Mongo = mongoClient

	t.Cleanup(func() {
		_ = mongoClient.Database(cfg.MongoDatabaseName).Drop(context.Background())
		cfg.GracefulShutdown()
	})

	return cfg, NewMongoReservationRepository(cfg), NewSlotClaimRepository(cfg)
}

func at(day, hour, min int) time.Time {
	return time.Date(2050, time.January, day, hour, min, 0, 0, time.UTC)
}

func insert(t *testing.T, repo ReservationRepository, holder string, start time.Time, d time.Duration) *model.Reservation {
	t.Helper()
	r := &model.Reservation{Holder: holder, Start: start, End: start.Add(d)}
	if err := repo.Insert(context.Background(), r); err != nil {
		t.Fatalf("Insert(%s, %s): %v", holder, start, err)
	}
	if r.ID == "" {
		t.Fatal("Insert did not assign an ID")
	}
	return r
}

func TestReservationRepository_Queries(t *testing.T) {
	_, repo, _ := setup(t)
	ctx := context.Background()

	insert(t, repo, "Jan Kowalski", at(10, 12, 0), time.Hour)
	insert(t, repo, "Anna Nowak", at(10, 9, 0), 30*time.Minute)
	insert(t, repo, "Jan Kowalski", at(11, 15, 30), 90*time.Minute)

	t.Run("range is ordered and bounded", func(t *testing.T) {
		got, err := repo.FindByRange(ctx, at(10, 0, 0), at(11, 0, 0))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0].Holder != "Anna Nowak" || got[1].Holder != "Jan Kowalski" {
			t.Errorf("FindByRange = %+v", got)
		}
	})

	t.Run("overlap is half open", func(t *testing.T) {
		got, err := repo.FindOverlapping(ctx, at(10, 12, 30), at(10, 13, 30))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 {
			t.Errorf("expected 1 overlapping reservation, got %d", len(got))
		}

		got, err = repo.FindOverlapping(ctx, at(10, 13, 0), at(10, 14, 0))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("adjacent reservation must not overlap, got %d", len(got))
		}
	})

	t.Run("future on day", func(t *testing.T) {
		got, err := repo.FindFutureOnDay(ctx, at(10, 0, 0), at(10, 10, 0))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || !got[0].Start.Equal(at(10, 12, 0)) {
			t.Errorf("FindFutureOnDay = %+v", got)
		}
	})

	t.Run("by holder", func(t *testing.T) {
		got, err := repo.FindByHolder(ctx, "Jan Kowalski")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 reservations, got %d", len(got))
		}
	})

	t.Run("reversed range", func(t *testing.T) {
		_, err := repo.FindByRange(ctx, at(11, 0, 0), at(10, 0, 0))
		if !errors.Is(err, reservationserrors.ErrInvalidTimeRange) {
			t.Errorf("FindByRange: expected ErrInvalidTimeRange, got %v", err)
		}
		_, err = repo.FindOverlapping(ctx, at(10, 9, 0), at(10, 9, 0))
		if !errors.Is(err, reservationserrors.ErrInvalidTimeRange) {
			t.Errorf("FindOverlapping: expected ErrInvalidTimeRange, got %v", err)
		}
	})
}

func TestReservationRepository_Delete(t *testing.T) {
	_, repo, _ := setup(t)
	ctx := context.Background()

	created := insert(t, repo, "Anna Nowak", at(12, 9, 0), time.Hour)

	deleted, err := repo.Delete(ctx, "Anna Nowak", at(12, 9, 0))
	if err != nil {
		t.Fatal(err)
	}
	if deleted.ID != created.ID {
		t.Errorf("deleted ID = %s, want %s", deleted.ID, created.ID)
	}

	if _, err := repo.Delete(ctx, "Anna Nowak", at(12, 9, 0)); !errors.Is(err, reservationserrors.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSlotClaimRepository(t *testing.T) {
	_, _, claims := setup(t)
	ctx := context.Background()

	slots := []time.Time{at(13, 12, 0), at(13, 12, 30)}
	if err := claims.Claim(ctx, "first", slots); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	err := claims.Claim(ctx, "second", []time.Time{at(13, 12, 30), at(13, 13, 0)})
	if !errors.Is(err, reservationserrors.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	released, err := claims.Release(ctx, "first")
	if err != nil {
		t.Fatal(err)
	}
	if released != 2 {
		t.Errorf("released %d claims, want 2", released)
	}

	if err := claims.Claim(ctx, "second", []time.Time{at(13, 12, 30)}); err != nil {
		t.Errorf("claim after release: %v", err)
	}
}
