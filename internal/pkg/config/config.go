package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Store   StoreConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Booking BookingConfig
	Pricing PricingConfig
	Queue   QueueConfig
	Payment PaymentConfig
	AMQP    AMQPConfig
}

type ServerConfig struct {
	Port              string        `envconfig:"PORT" required:"true"`
	ReadHeaderTimeout time.Duration `envconfig:"SERVER_READ_HEADER_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME" default:"gamezone"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Memory driver keeps everything in-process; it is meant for local runs and tests.
type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

const (
	OfflinePolicyAutoConfirm     = "auto_confirm"
	OfflinePolicyRequireApproval = "require_approval"
)

type BookingConfig struct {
	HoldDuration         time.Duration `envconfig:"BOOKING_HOLD_DURATION" default:"15m"`
	LockTTL              time.Duration `envconfig:"BOOKING_LOCK_TTL" default:"10s"`
	LockWait             time.Duration `envconfig:"BOOKING_LOCK_WAIT" default:"250ms"`
	PromotionLockWait    time.Duration `envconfig:"BOOKING_PROMOTION_LOCK_WAIT" default:"5s"`
	StartGrace           time.Duration `envconfig:"BOOKING_START_GRACE" default:"15m"`
	TransitionRetries    int           `envconfig:"BOOKING_TRANSITION_RETRIES" default:"3"`
	OfflinePaymentPolicy string        `envconfig:"BOOKING_OFFLINE_PAYMENT_POLICY" default:"require_approval"`
	SweepInterval        time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"1m"`
}

type PricingConfig struct {
	TimeZone      string   `envconfig:"PRICING_TIMEZONE" default:"Asia/Kolkata"`
	PeakDays      []string `envconfig:"PRICING_PEAK_DAYS" default:"fri,sat,sun"`
	PeakStartHour int      `envconfig:"PRICING_PEAK_START_HOUR" default:"18"`
	PeakEndHour   int      `envconfig:"PRICING_PEAK_END_HOUR" default:"22"`
}

// MaxWait of zero keeps waiting entries in line indefinitely.
type QueueConfig struct {
	TurnoverMinutes int           `envconfig:"QUEUE_TURNOVER_MINUTES" default:"30"`
	MaxWait         time.Duration `envconfig:"QUEUE_MAX_WAIT" default:"4h"`
}

type PaymentConfig struct {
	Secret string `envconfig:"PAYMENT_WEBHOOK_SECRET" required:"true"`
}

// Empty URL disables broker publishing; events still reach the realtime hub.
type AMQPConfig struct {
	URL      string `envconfig:"AMQP_URL"`
	Exchange string `envconfig:"AMQP_EXCHANGE" default:"gamezone.events"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Booking.OfflinePaymentPolicy {
	case OfflinePolicyAutoConfirm, OfflinePolicyRequireApproval:
	default:
		return fmt.Errorf("unsupported BOOKING_OFFLINE_PAYMENT_POLICY %q", c.Booking.OfflinePaymentPolicy)
	}
	if c.Pricing.PeakStartHour < 0 || c.Pricing.PeakEndHour > 24 || c.Pricing.PeakStartHour >= c.Pricing.PeakEndHour {
		return fmt.Errorf("invalid peak window %d-%d", c.Pricing.PeakStartHour, c.Pricing.PeakEndHour)
	}
	if c.Booking.TransitionRetries < 1 {
		return fmt.Errorf("BOOKING_TRANSITION_RETRIES must be at least 1")
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
		},
		Store: StoreConfig{Driver: StoreDriverMemory},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
			ExposeHeaders:    []string{"Content-Length", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
		JWT: JWTConfig{
			Secret:   "test-jwt-secret",
			Duration: "1h",
		},
		Booking: BookingConfig{
			HoldDuration:         15 * time.Minute,
			LockTTL:              10 * time.Second,
			LockWait:             0,
			PromotionLockWait:    2 * time.Second,
			StartGrace:           15 * time.Minute,
			TransitionRetries:    3,
			OfflinePaymentPolicy: OfflinePolicyRequireApproval,
			SweepInterval:        time.Minute,
		},
		Pricing: PricingConfig{
			TimeZone:      "Asia/Kolkata",
			PeakDays:      []string{"fri", "sat", "sun"},
			PeakStartHour: 18,
			PeakEndHour:   22,
		},
		Queue: QueueConfig{
			TurnoverMinutes: 30,
			MaxWait:         0,
		},
		Payment: PaymentConfig{
			Secret: "test-payment-secret",
		},
		AMQP: AMQPConfig{
			Exchange: "gamezone.events",
		},
	}
}
