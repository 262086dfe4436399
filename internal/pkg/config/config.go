package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: values that differ between environments (port, DB connection,
//   partner secrets) and anything security sensitive
// - default: values common across all environments (timezone, intervals)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	Booking BookingConfig
	Partner PartnerConfig
	Admin   AdminConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Europe/Moscow"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-Admin-Token"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Europe/Moscow"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"10800"` // 3*60*60
}

// BookingConfig holds the scheduling-core knobs: the local timezone slots are
// interpreted in, the sweep interval, and the blacklist gate flags per channel.
type BookingConfig struct {
	TimeZone        string        `envconfig:"BOOKING_TIMEZONE" default:"Europe/Moscow"`
	SweepInterval   time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"30m"`
	BlockDirect     bool          `envconfig:"BLACKLIST_BLOCK_DIRECT" default:"true"`
	BlockAggregator bool          `envconfig:"BLACKLIST_BLOCK_AGGREGATOR" default:"false"`
}

// PartnerConfig describes the external reservation aggregator contract.
// Empty OrderSecret disables order signature verification.
type PartnerConfig struct {
	Tag           string `envconfig:"PARTNER_TAG" default:"aggregator"`
	CutoffMinutes int    `envconfig:"PARTNER_CUTOFF_MINUTES" default:"60"`
	SlotIDFormat  string `envconfig:"PARTNER_SLOT_ID_FORMAT" default:"raw"` // raw|datetime
	OrderSecret   string `envconfig:"PARTNER_ORDER_SECRET" default:""`
	PrepaySecret  string `envconfig:"PARTNER_PREPAY_SECRET" default:""`
}

type AdminConfig struct {
	Token string `envconfig:"ADMIN_TOKEN" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Europe/Moscow",
		},
		Log: LogConfig{
			Level:          "error",
			TimeZone:       "Europe/Moscow",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 10800,
		},
		Booking: BookingConfig{
			TimeZone:      "Europe/Moscow",
			SweepInterval: 30 * time.Minute,
			BlockDirect:   true,
		},
		Partner: PartnerConfig{
			Tag:           "aggregator",
			CutoffMinutes: 60,
			SlotIDFormat:  "raw",
		},
		Admin: AdminConfig{Token: "test-admin-token"},
	}
}
