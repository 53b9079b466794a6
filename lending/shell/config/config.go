package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zapcore"

	"github.com/AntonStoeckl/lending-circulation-go/lending/core/finepolicy"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/coordinator"
)

const (
	// StorageMemory keeps catalog, borrowers and loans in process memory.
	StorageMemory = "memory"

	// StoragePostgres keeps catalog, borrowers, loans and the event journal in PostgreSQL.
	StoragePostgres = "postgres"

	// DriverPGX selects the pgx.Pool adapter.
	DriverPGX = "pgx"

	// DriverSQL selects the database/sql adapter with the lib/pq driver.
	DriverSQL = "sql"

	// DriverSQLX selects the sqlx adapter with the lib/pq driver.
	DriverSQLX = "sqlx"
)

var (
	// ErrInvalidConfig is returned when the processed configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrReadingEnvironment is returned when envconfig can not decode an environment variable.
	ErrReadingEnvironment = errors.New("reading configuration from environment failed")
)

// Circulation holds the lending rules.
type Circulation struct {
	StandardLoanDays     int             `envconfig:"CIRCULATION_STANDARD_LOAN_DAYS" default:"14" validate:"min=1"`
	ExtendedLoanDays     int             `envconfig:"CIRCULATION_EXTENDED_LOAN_DAYS" default:"30" validate:"min=1"`
	MaxActiveLoans       int             `envconfig:"CIRCULATION_MAX_ACTIVE_LOANS" default:"3" validate:"min=1"`
	FinePolicy           string          `envconfig:"CIRCULATION_FINE_POLICY" default:"fixed" validate:"oneof=fixed progressive"`
	FixedRatePerDay      decimal.Decimal `envconfig:"CIRCULATION_FIXED_RATE_PER_DAY" default:"2.00" validate:"gte=0"`
	ProgressiveBase      decimal.Decimal `envconfig:"CIRCULATION_PROGRESSIVE_BASE" default:"1.00" validate:"gte=0"`
	ProgressiveStep      decimal.Decimal `envconfig:"CIRCULATION_PROGRESSIVE_STEP" default:"0.50" validate:"gte=0"`
	ProgressiveMaxPerDay decimal.Decimal `envconfig:"CIRCULATION_PROGRESSIVE_MAX_PER_DAY" default:"10.00" validate:"gte=0"`
	DueSoonWindowDays    int             `envconfig:"CIRCULATION_DUE_SOON_WINDOW_DAYS" default:"3" validate:"min=0"`
	RenewalsEnabled      bool            `envconfig:"CIRCULATION_RENEWALS_ENABLED" default:"true"`
}

// HTTPServer holds the REST adapter settings.
type HTTPServer struct {
	Enabled           bool          `envconfig:"CIRCULATION_HTTP_ENABLED" default:"true"`
	Host              string        `envconfig:"CIRCULATION_HTTP_HOST" default:"0.0.0.0"`
	Port              string        `envconfig:"CIRCULATION_HTTP_PORT" default:"8080" validate:"required,numeric"`
	ReadTimeout       time.Duration `envconfig:"CIRCULATION_HTTP_READ_TIMEOUT" default:"10s" validate:"gt=0"`
	WriteTimeout      time.Duration `envconfig:"CIRCULATION_HTTP_WRITE_TIMEOUT" default:"10s" validate:"gt=0"`
	ShutdownTimeout   time.Duration `envconfig:"CIRCULATION_HTTP_SHUTDOWN_TIMEOUT" default:"5s" validate:"gt=0"`
	RequestsPerSecond float64       `envconfig:"CIRCULATION_HTTP_RPS" default:"100" validate:"gt=0"`
}

// Storage selects the persistence backend and an optional JSON file with items and borrowers to load on start.
type Storage struct {
	Backend  string `envconfig:"CIRCULATION_STORAGE" default:"memory" validate:"oneof=memory postgres"`
	SeedFile string `envconfig:"CIRCULATION_SEED_FILE"`
}

// Postgres holds the database connection settings, used when Storage.Backend is "postgres".
type Postgres struct {
	DSN             string        `envconfig:"CIRCULATION_POSTGRES_DSN"`
	ReplicaDSN      string        `envconfig:"CIRCULATION_POSTGRES_REPLICA_DSN"`
	Driver          string        `envconfig:"CIRCULATION_POSTGRES_DRIVER" default:"pgx" validate:"oneof=pgx sql sqlx"`
	MaxConns        int32         `envconfig:"CIRCULATION_POSTGRES_MAX_CONNS" default:"20" validate:"min=1"`
	MinConns        int32         `envconfig:"CIRCULATION_POSTGRES_MIN_CONNS" default:"2" validate:"min=0,ltefield=MaxConns"`
	MaxConnLifetime time.Duration `envconfig:"CIRCULATION_POSTGRES_MAX_CONN_LIFETIME" default:"1h" validate:"gt=0"`
	MaxConnIdleTime time.Duration `envconfig:"CIRCULATION_POSTGRES_MAX_CONN_IDLE_TIME" default:"5m" validate:"gt=0"`
	ConnectTimeout  time.Duration `envconfig:"CIRCULATION_POSTGRES_CONNECT_TIMEOUT" default:"5s" validate:"gt=0"`
	EnsureSchema    bool          `envconfig:"CIRCULATION_POSTGRES_ENSURE_SCHEMA" default:"true"`
}

// Kafka holds the broker settings of the Kafka notification subscriber. No brokers disables it.
type Kafka struct {
	Brokers []string `envconfig:"CIRCULATION_KAFKA_BROKERS"`
	Topic   string   `envconfig:"CIRCULATION_KAFKA_TOPIC" default:"loan-events" validate:"required"`
}

// Delivery holds the retry settings of the notification dispatcher.
type Delivery struct {
	MaxAttempts  int           `envconfig:"CIRCULATION_DELIVERY_MAX_ATTEMPTS" default:"5" validate:"min=1"`
	BaseDelay    time.Duration `envconfig:"CIRCULATION_DELIVERY_BASE_DELAY" default:"100ms" validate:"gte=0"`
	JitterFactor float64       `envconfig:"CIRCULATION_DELIVERY_JITTER_FACTOR" default:"0.1" validate:"gte=0,lte=1"`
}

// Reminder holds the due-soon and overdue sweep settings.
type Reminder struct {
	Enabled  bool          `envconfig:"CIRCULATION_REMINDER_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"CIRCULATION_REMINDER_INTERVAL" default:"1h" validate:"gt=0"`
}

// Log holds the zap logger settings.
type Log struct {
	Level  zapcore.Level `envconfig:"CIRCULATION_LOG_LEVEL" default:"info"`
	Format string        `envconfig:"CIRCULATION_LOG_FORMAT" default:"json" validate:"oneof=json console"`
}

// Telemetry holds the OpenTelemetry metrics export settings. An empty endpoint disables the export.
type Telemetry struct {
	OTLPEndpoint   string        `envconfig:"CIRCULATION_OTLP_ENDPOINT"`
	Insecure       bool          `envconfig:"CIRCULATION_OTLP_INSECURE" default:"true"`
	ExportInterval time.Duration `envconfig:"CIRCULATION_OTLP_EXPORT_INTERVAL" default:"15s" validate:"gt=0"`
	ServiceName    string        `envconfig:"CIRCULATION_SERVICE_NAME" default:"lending-circulation" validate:"required"`
}

// Config is the complete service configuration.
type Config struct {
	Circulation Circulation
	Server      HTTPServer
	Storage     Storage
	Postgres    Postgres
	Kafka       Kafka
	Delivery    Delivery
	Reminder    Reminder
	Log         Log
	Telemetry   Telemetry
}

var (
	once      sync.Once
	cfg       Config
	errConfig error
)

// NewConfig reads the configuration from the environment once and returns the cached result afterward.
// Options override values read from the environment.
func NewConfig(options ...Option) (Config, error) {
	once.Do(func() {
		cfg, errConfig = Load(options...)
	})

	return cfg, errConfig
}

// Load reads and validates the configuration from the environment without caching.
func Load(options ...Option) (Config, error) {
	var config Config

	if err := envconfig.Process("", &config); err != nil {
		return Config{}, errors.Join(ErrReadingEnvironment, err)
	}

	for _, option := range options {
		option(&config)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks field constraints and the rules spanning several sections.
func (c Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	if c.Storage.Backend == StoragePostgres && c.Postgres.DSN == "" {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("CIRCULATION_POSTGRES_DSN is required for the %s backend", StoragePostgres))
	}

	if c.Circulation.ProgressiveMaxPerDay.LessThan(c.Circulation.ProgressiveBase) {
		return errors.Join(ErrInvalidConfig, errors.New("progressive fine cap must not be below its base"))
	}

	return nil
}

// CoordinatorSettings maps the lending rules to the coordinator settings.
func (c Circulation) CoordinatorSettings() coordinator.Settings {
	return coordinator.Settings{
		StandardLoanDays:  c.StandardLoanDays,
		ExtendedLoanDays:  c.ExtendedLoanDays,
		MaxActiveLoans:    c.MaxActiveLoans,
		DueSoonWindowDays: c.DueSoonWindowDays,
		RenewalsEnabled:   c.RenewalsEnabled,
	}
}

// FineSettings maps the configured amounts to the fine policy settings.
func (c Circulation) FineSettings() finepolicy.Settings {
	return finepolicy.Settings{
		FixedRatePerDay:      c.FixedRatePerDay,
		ProgressiveBase:      c.ProgressiveBase,
		ProgressiveStep:      c.ProgressiveStep,
		ProgressiveMaxPerDay: c.ProgressiveMaxPerDay,
	}
}

// RetryOptions maps the delivery settings to the shell retry options.
func (d Delivery) RetryOptions() []shell.RetryOption {
	return []shell.RetryOption{
		shell.WithMaxAttempts(d.MaxAttempts),
		shell.WithBaseDelay(d.BaseDelay),
		shell.WithJitterFactor(d.JitterFactor),
	}
}

// KafkaEnabled reports whether at least one broker is configured.
func (c Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// MetricsEnabled reports whether an OTLP endpoint is configured.
func (c Config) MetricsEnabled() bool {
	return c.Telemetry.OTLPEndpoint != ""
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	return v
}

// decimalValue lets numeric validation tags apply to decimal.Decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if amount, ok := field.Interface().(decimal.Decimal); ok {
		return amount.InexactFloat64()
	}

	return nil
}
