package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"courtbook/internal/availability"
	"courtbook/pkg/client"
	"courtbook/pkg/logger"

	"github.com/joho/godotenv"
)

var (
	clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$|^24:00$`)
	mongoRegex = regexp.MustCompile(`^mongodb(\+srv)?://`)
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string

	ExportDir string

	OpeningTime       string
	ClosingTime       string
	SlotMinutes       int
	BookingDurations  string
	LongBookingCutoff int
	WeeklyQuota       int
	BookingLeadTime   time.Duration
	Horizon           string
	MaxPrintSpan      time.Duration

	KafkaEnabled           bool
	ReservationEventsTopic string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads an optional env file, then the environment, and exits the
// process when the result is invalid.
func Load(serviceName string) *Config {
	envFileErr := loadEnvFile(getEnvStr(EnvFile, DefaultEnvFile))

	cfg := FromEnv()
	cfg.Log = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})
	cfg.Client = client.NewClient()

	if envFileErr != nil {
		cfg.Log.Warn("Failed to read env file", "error", envFileErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config from environment variables and defaults only.
// Log and Client are left unset.
func FromEnv() *Config {
	return &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		ReadTimeout:  getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout: getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),

		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		LogLevel:  strings.ToLower(getEnvStr(EnvLogLevel, DefaultLogLevel)),
		LogFormat: strings.ToLower(getEnvStr(EnvLogFormat, DefaultLogFormat)),

		ExportDir: getEnvStr(EnvExportDir, DefaultExportDir),

		OpeningTime:       getEnvStr(EnvOpeningTime, DefaultOpeningTime),
		ClosingTime:       getEnvStr(EnvClosingTime, DefaultClosingTime),
		SlotMinutes:       getEnvNum(EnvSlotMinutes, DefaultSlotMinutes),
		BookingDurations:  getEnvStr(EnvBookingDurations, DefaultBookingDurations),
		LongBookingCutoff: getEnvNum(EnvLongBookingCutoff, DefaultLongBookingCutoff),
		WeeklyQuota:       getEnvNum(EnvWeeklyQuota, DefaultWeeklyQuota),
		BookingLeadTime:   getEnvDuration(EnvBookingLeadTime, DefaultBookingLeadTime),
		Horizon:           getEnvStr(EnvHorizon, DefaultHorizon),
		MaxPrintSpan:      getEnvDuration(EnvMaxPrintSpan, DefaultMaxPrintSpan),

		KafkaEnabled:           getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		ReservationEventsTopic: getEnvStr(EnvReservationEventsTopic, DefaultReservationEventsTopic),
	}
}

func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !mongoRegex.MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	switch cfg.LogLevel {
	case logger.DEBUG, logger.INFO, logger.WARN, logger.ERROR:
	default:
		errors = append(errors, fmt.Sprintf("LogLevel must be one of [debug, info, warn, error], got: %s", cfg.LogLevel))
	}
	if cfg.LogFormat != logger.JSON && cfg.LogFormat != logger.TEXT {
		errors = append(errors, fmt.Sprintf("LogFormat must be json or text, got: %s", cfg.LogFormat))
	}

	if cfg.ExportDir == "" {
		errors = append(errors, "ExportDir cannot be empty")
	}

	if !clockRegex.MatchString(cfg.OpeningTime) {
		errors = append(errors, fmt.Sprintf("OpeningTime must be in HH:MM format, got: %s", cfg.OpeningTime))
	}
	if !clockRegex.MatchString(cfg.ClosingTime) {
		errors = append(errors, fmt.Sprintf("ClosingTime must be in HH:MM format, got: %s", cfg.ClosingTime))
	}
	if cfg.SlotMinutes <= 0 {
		errors = append(errors, fmt.Sprintf("SlotMinutes must be positive, got: %d", cfg.SlotMinutes))
	}
	if _, err := parseDurations(cfg.BookingDurations); err != nil {
		errors = append(errors, fmt.Sprintf("BookingDurations is invalid: %v", err))
	}
	if cfg.LongBookingCutoff < 0 || cfg.LongBookingCutoff > 24 {
		errors = append(errors, fmt.Sprintf("LongBookingCutoff must be between 0 and 24, got: %d", cfg.LongBookingCutoff))
	}
	if _, err := time.Parse(DateLayout, cfg.Horizon); err != nil {
		errors = append(errors, fmt.Sprintf("Horizon must be in YYYY-MM-DD format, got: %s", cfg.Horizon))
	}

	if cfg.KafkaEnabled && cfg.ReservationEventsTopic == "" {
		errors = append(errors, "ReservationEventsTopic cannot be empty when Kafka is enabled")
	}

	if len(errors) == 0 {
		if _, err := cfg.Policy(); err != nil {
			errors = append(errors, err.Error())
		}
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// Policy converts the court rules into an availability.Policy.
func (cfg *Config) Policy() (availability.Policy, error) {
	opening, err := parseClock(cfg.OpeningTime)
	if err != nil {
		return availability.Policy{}, fmt.Errorf("invalid opening time: %w", err)
	}
	closing, err := parseClock(cfg.ClosingTime)
	if err != nil {
		return availability.Policy{}, fmt.Errorf("invalid closing time: %w", err)
	}
	durations, err := parseDurations(cfg.BookingDurations)
	if err != nil {
		return availability.Policy{}, fmt.Errorf("invalid booking durations: %w", err)
	}
	horizon, err := time.Parse(DateLayout, cfg.Horizon)
	if err != nil {
		return availability.Policy{}, fmt.Errorf("invalid horizon: %w", err)
	}

	p := availability.Policy{
		Opening:                opening,
		Closing:                closing,
		SlotLength:             time.Duration(cfg.SlotMinutes) * time.Minute,
		Durations:              durations,
		LongDuration:           durations[len(durations)-1],
		LongDurationCutoffHour: cfg.LongBookingCutoff,
		WeeklyQuota:            cfg.WeeklyQuota,
		LeadTime:               cfg.BookingLeadTime,
		Horizon:                horizon,
		MaxPrintSpan:           cfg.MaxPrintSpan,
	}
	if err := p.Validate(); err != nil {
		return availability.Policy{}, err
	}
	return p, nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"export_dir", cfg.ExportDir,
		"opening_time", cfg.OpeningTime,
		"closing_time", cfg.ClosingTime,
		"slot_minutes", cfg.SlotMinutes,
		"booking_durations", cfg.BookingDurations,
		"long_booking_cutoff", cfg.LongBookingCutoff,
		"weekly_quota", cfg.WeeklyQuota,
		"booking_lead_time", cfg.BookingLeadTime,
		"horizon", cfg.Horizon,
		"max_print_span", cfg.MaxPrintSpan,
		"kafka_enabled", cfg.KafkaEnabled,
		"reservation_events_topic", cfg.ReservationEventsTopic,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func parseClock(value string) (time.Duration, error) {
	if !clockRegex.MatchString(value) {
		return 0, fmt.Errorf("expected HH:MM, got %q", value)
	}
	hours, _ := strconv.Atoi(value[:2])
	minutes, _ := strconv.Atoi(value[3:])
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

// parseDurations reads a comma separated list of minutes, ascending.
func parseDurations(value string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		minutes, err := strconv.Atoi(part)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("%q is not a positive number of minutes", part)
		}
		d := time.Duration(minutes) * time.Minute
		if len(out) > 0 && d <= out[len(out)-1] {
			return nil, fmt.Errorf("durations must be ascending, got %s after %s", d, out[len(out)-1])
		}
		out = append(out, d)
	}
	return out, nil
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
