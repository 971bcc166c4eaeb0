package config

import "time"

const (
	DefaultEnvFile = ".env"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "courtbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultReadTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second

	DefaultShutdownTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultExportDir = "."

	DefaultOpeningTime       = "08:00"
	DefaultClosingTime       = "18:30"
	DefaultSlotMinutes       = 30
	DefaultBookingDurations  = "30,60,90"
	DefaultLongBookingCutoff = 17
	DefaultWeeklyQuota       = 2
	DefaultBookingLeadTime   = 1 * time.Hour
	DefaultHorizon           = "2100-12-31"
	DefaultMaxPrintSpan      = 7 * 24 * time.Hour

	DefaultKafkaEnabled           = false
	DefaultReservationEventsTopic = "court.reservations"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)
