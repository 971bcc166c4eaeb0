package main

import (
	"os"

	"courtbook/internal/availability"
	"courtbook/internal/cli"
	"courtbook/internal/events"
	"courtbook/internal/reservations/repository"
	"courtbook/internal/reservations/service"
	"courtbook/internal/reservations/validator"
	"courtbook/pkg/app"
	"courtbook/pkg/config"
)

const ServiceName = "courtbook"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	engine, publisher := initEngine(cfg)
	reservationService := initServices(cfg, engine, publisher)

	courtApp := app.NewApplication(cfg)
	courtApp.OnShutdown("mongo", func() error {
		cfg.GracefulShutdown()
		return nil
	})
	courtApp.OnShutdown("events", publisher.Close)
	courtApp.SetRunner(cli.NewApp(
		reservationService,
		cli.NewPrompter(os.Stdin, os.Stdout),
		cfg.Log,
		engine.Now,
	))

	if err := courtApp.Run(); err != nil {
		os.Exit(1)
	}
}

func initEngine(cfg *config.Config) (*availability.Engine, events.Publisher) {
	policy, err := cfg.Policy()
	if err != nil {
		cfg.Log.Fatal("Invalid court policy", "error", err)
	}

	publisher, err := events.NewPublisher(cfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to create event publisher", "error", err)
	}

	return availability.New(policy, availability.SystemClock{}), publisher
}

func initServices(cfg *config.Config, engine *availability.Engine, publisher events.Publisher) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log, engine.Policy())
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	slotClaimRepo := repository.NewSlotClaimRepository(cfg)
	reservationService := service.NewReservationService(
		reservationRepo,
		slotClaimRepo,
		reservationValidator,
		engine,
		publisher,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
