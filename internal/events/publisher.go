// Package events announces reservation changes to other systems.
package events

import (
	"context"
	"fmt"
	"time"

	"courtbook/pkg/config"
	"courtbook/pkg/kafka"
	kafka_config "courtbook/pkg/kafka/config"
	kafka_middleware "courtbook/pkg/kafka/middleware"
	"courtbook/pkg/model"
)

const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"

	SchemaVersion = "1"
	keyLayout     = "2006-01-02"
)

type Publisher interface {
	ReservationCreated(ctx context.Context, r *model.Reservation) error
	ReservationCancelled(ctx context.Context, r *model.Reservation) error
	Close() error
}

// ReservationEvent is the JSON payload of every reservation event.
type ReservationEvent struct {
	ReservationID string    `json:"reservation_id"`
	Holder        string    `json:"name"`
	Start         time.Time `json:"start_time"`
	End           time.Time `json:"end_time"`
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messagePublisher
	source   string
}

// NewPublisher returns a Kafka backed publisher when Kafka is enabled and a
// no-op one otherwise.
func NewPublisher(cfg *config.Config, source string) (Publisher, error) {
	if !cfg.KafkaEnabled {
		cfg.Log.Debug("Kafka disabled, reservation events will not be published")
		return NoopPublisher{}, nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		return nil, err
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.ReservationEventsTopic, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	return newKafkaPublisher(producer, source), nil
}

func newKafkaPublisher(producer messagePublisher, source string) *kafkaPublisher {
	return &kafkaPublisher{producer: producer, source: source}
}

func (p *kafkaPublisher) ReservationCreated(ctx context.Context, r *model.Reservation) error {
	return p.publish(ctx, EventReservationCreated, r)
}

func (p *kafkaPublisher) ReservationCancelled(ctx context.Context, r *model.Reservation) error {
	return p.publish(ctx, EventReservationCancelled, r)
}

// publish keys events by the reservation's day, so events for one day stay
// ordered on one partition.
func (p *kafkaPublisher) publish(ctx context.Context, eventType string, r *model.Reservation) error {
	msg, err := kafka.NewMessage().
		WithKey(r.Start.Format(keyLayout)).
		WithValue(ReservationEvent{
			ReservationID: r.ID,
			Holder:        r.Holder,
			Start:         r.Start,
			End:           r.End,
		}).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", eventType, err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) ReservationCreated(context.Context, *model.Reservation) error   { return nil }
func (NoopPublisher) ReservationCancelled(context.Context, *model.Reservation) error { return nil }
func (NoopPublisher) Close() error                                                  { return nil }
