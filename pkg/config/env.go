package config

const (
	EnvFile = "COURTBOOK_ENV_FILE"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvReadTimeout  = "READ_TIMEOUT"
	EnvWriteTimeout = "WRITE_TIMEOUT"

	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvExportDir = "EXPORT_DIR"

	EnvOpeningTime       = "OPENING_TIME"
	EnvClosingTime       = "CLOSING_TIME"
	EnvSlotMinutes       = "SLOT_MINUTES"
	EnvBookingDurations  = "BOOKING_DURATIONS"
	EnvLongBookingCutoff = "LONG_BOOKING_CUTOFF"
	EnvWeeklyQuota       = "WEEKLY_QUOTA"
	EnvBookingLeadTime   = "BOOKING_LEAD_TIME"
	EnvHorizon           = "HORIZON"
	EnvMaxPrintSpan      = "MAX_PRINT_SPAN"

	EnvKafkaEnabled           = "KAFKA_ENABLED"
	EnvReservationEventsTopic = "RESERVATION_EVENTS_TOPIC"
)
