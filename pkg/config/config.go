package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Typesense TypesenseConfig `mapstructure:"typesense"`
	API       APIClientConfig `mapstructure:"api"`
	Session   SessionConfig   `mapstructure:"session"`
	Booking   BookingConfig   `mapstructure:"booking"`
	OTEL      OTELConfig      `mapstructure:"otel"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig selects where the Data Access API keeps its collections
type StorageConfig struct {
	Backend      string `mapstructure:"backend"`
	DocumentPath string `mapstructure:"document_path"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
}

// APIClientConfig configures the Data Access API client
type APIClientConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// SessionConfig configures where the current user is persisted
type SessionConfig struct {
	Backend  string `mapstructure:"backend"`
	FilePath string `mapstructure:"file_path"`
	RedisKey string `mapstructure:"redis_key"`
}

// BookingConfig holds checkout charges
type BookingConfig struct {
	KayakFee      float64 `mapstructure:"kayak_fee"`
	ParkingFee    float64 `mapstructure:"parking_fee"`
	PaymentMethod string  `mapstructure:"payment_method"`
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Endpoint       string `mapstructure:"endpoint"`
	Enabled        bool   `mapstructure:"enabled"`
}

// Fee is a named fixed checkout charge
type Fee struct {
	Name   string
	Amount float64
}

type setting struct {
	key          string
	env          string
	defaultValue interface{}
}

var settings = []setting{
	{"server.host", "SERVER_HOST", "0.0.0.0"},
	{"server.port", "SERVER_PORT", 3000},
	{"server.environment", "ENV", "development"},
	{"server.allowed_origins", "ALLOWED_ORIGINS", []string{"*"}},

	{"storage.backend", "STORAGE_BACKEND", "document"},
	{"storage.document_path", "DOCUMENT_PATH", "data/data.json"},

	{"database.host", "DB_HOST", "localhost"},
	{"database.port", "DB_PORT", 5432},
	{"database.user", "DB_USER", "postgres"},
	{"database.password", "DB_PASSWORD", ""},
	{"database.name", "DB_NAME", "staybook"},
	{"database.sslmode", "DB_SSLMODE", "disable"},

	{"redis.enabled", "REDIS_ENABLED", false},
	{"redis.host", "REDIS_HOST", "localhost"},
	{"redis.port", "REDIS_PORT", 6379},
	{"redis.password", "REDIS_PASSWORD", ""},
	{"redis.db", "REDIS_DB", 0},

	{"typesense.enabled", "TYPESENSE_ENABLED", false},
	{"typesense.url", "TYPESENSE_URL", "http://localhost:8108"},
	{"typesense.api_key", "TYPESENSE_API_KEY", "xyz"},

	{"api.base_url", "STAYBOOK_API_URL", "http://localhost:3000"},
	{"api.timeout_seconds", "STAYBOOK_API_TIMEOUT", 10},

	{"session.backend", "SESSION_BACKEND", "file"},
	{"session.file_path", "SESSION_FILE", ".staybook/session.json"},
	{"session.redis_key", "SESSION_REDIS_KEY", "staybook:session:current"},

	{"booking.kayak_fee", "BOOKING_KAYAK_FEE", 5.0},
	{"booking.parking_fee", "BOOKING_PARKING_FEE", 5.0},
	{"booking.payment_method", "BOOKING_PAYMENT_METHOD", "cash"},

	{"otel.service_name", "OTEL_SERVICE_NAME", "staybook"},
	{"otel.service_version", "OTEL_SERVICE_VERSION", "1.0.0"},
	{"otel.endpoint", "OTEL_ENDPOINT", ""},
	{"otel.enabled", "OTEL_ENABLED", false},
}

// Load loads configuration from environment variables (and a .env file when present)
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	for _, s := range settings {
		v.SetDefault(s.key, s.defaultValue)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", s.env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if cfg.Booking.KayakFee < 0 || cfg.Booking.ParkingFee < 0 {
		return nil, fmt.Errorf("booking fees must be non-negative")
	}

	return &cfg, nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the process runs in a development environment
func (c *ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Timeout returns the request timeout of the API client
func (c *APIClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Fees returns the fixed checkout charges in display order
func (c *BookingConfig) Fees() []Fee {
	return []Fee{
		{Name: "Kayak fee", Amount: c.KayakFee},
		{Name: "Street parking fee", Amount: c.ParkingFee},
	}
}
