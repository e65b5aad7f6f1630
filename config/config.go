package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment `mapstructure:"-"`

	// Server configuration
	ServerHost      string        `mapstructure:"server_host"`
	ServerPort      string        `mapstructure:"server_port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`

	// Database configuration
	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_ssl_mode"`
	SQLitePath string `mapstructure:"sqlite_path"`

	// Redis configuration
	RedisURL      string `mapstructure:"redis_url"`
	RedisPassword string `mapstructure:"redis_password"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Photo storage
	S3BucketName string `mapstructure:"s3_bucket_name"`
	AWSRegion    string `mapstructure:"aws_region"`

	// Photo parsing
	OpenRouterAPIKey string  `mapstructure:"openrouter_api_key"`
	OpenRouterURL    string  `mapstructure:"openrouter_url"`
	OpenRouterModel  string  `mapstructure:"openrouter_model"`
	ParseCallsPerSec float64 `mapstructure:"parse_calls_per_sec"`

	// Rate limits per client IP and window
	PlanRateLimit   int           `mapstructure:"plan_rate_limit"`
	ParseRateLimit  int           `mapstructure:"parse_rate_limit"`
	RateLimitWindow time.Duration `mapstructure:"rate_limit_window"`

	// Timezone decides which calendar day "today" is for streaks
	Timezone string `mapstructure:"timezone"`
}

// secretKeys are read from Docker secrets when the environment leaves them empty
var secretKeys = []string{"db_password", "redis_password", "openrouter_api_key"}

// Load reads defaults, then environment variables, then Docker secrets, and validates the result
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	for _, key := range secretKeys {
		if v.GetString(key) != "" {
			continue
		}
		if secret := readSecret(key); secret != "" {
			v.Set(key, secret)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Environment = GetEnvironment()

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8080")
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "weekplate")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("sqlite_path", "weekplate.db")

	v.SetDefault("redis_url", "")
	v.SetDefault("redis_password", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("s3_bucket_name", "")
	v.SetDefault("aws_region", "eu-central-1")

	v.SetDefault("openrouter_api_key", "")
	v.SetDefault("openrouter_url", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("openrouter_model", "google/gemini-2.0-flash-001")
	v.SetDefault("parse_calls_per_sec", 1.0)

	v.SetDefault("plan_rate_limit", 30)
	v.SetDefault("parse_rate_limit", 10)
	v.SetDefault("rate_limit_window", "1h")

	v.SetDefault("timezone", "Europe/Berlin")
}

// DSN is the postgres connection string in URL form, which golang-migrate and gorm both accept
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// Location resolves Timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
