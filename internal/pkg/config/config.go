package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	Audit       AuditConfig
	Tracing     TracingConfig
	Fulfillment FulfillmentConfig
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
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"16"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"1"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// Tokens are issued by the identity service; this process only verifies them.
type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

type AuditConfig struct {
	Sink         string   `envconfig:"AUDIT_SINK" default:"log"` // log | kafka
	KafkaBrokers []string `envconfig:"AUDIT_KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"AUDIT_KAFKA_TOPIC" default:"greencart.audit"`
	BufferSize   int      `envconfig:"AUDIT_BUFFER_SIZE" default:"256"`
}

type TracingConfig struct {
	Endpoint       string `envconfig:"OTEL_EXPORTER_ENDPOINT"`
	URLPath        string `envconfig:"OTEL_EXPORTER_URL_PATH" default:"/v1/traces"`
	Insecure       bool   `envconfig:"OTEL_EXPORTER_INSECURE" default:"true"`
	ServiceName    string `envconfig:"OTEL_SERVICE_NAME" default:"greencart-backend"`
	ServiceVersion string `envconfig:"OTEL_SERVICE_VERSION" default:"dev"`
}

type FulfillmentConfig struct {
	// Calendar days for the subscription duplicate check are cut in this zone.
	BusinessTimeZone     string `envconfig:"BUSINESS_TIMEZONE" default:"UTC"`
	DefaultPaymentMethod string `envconfig:"DEFAULT_PAYMENT_METHOD" default:"COD"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c FulfillmentConfig) Location() (*time.Location, error) {
	if c.BusinessTimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.BusinessTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", c.BusinessTimeZone, err)
	}
	return loc, nil
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

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
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 8,
			MinConns: 1,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Audit: AuditConfig{
			Sink:       "log",
			BufferSize: 16,
		},
		Tracing: TracingConfig{
			ServiceName: "greencart-backend-test",
		},
		Fulfillment: FulfillmentConfig{
			BusinessTimeZone:     "UTC",
			DefaultPaymentMethod: "COD",
		},
	}
}
