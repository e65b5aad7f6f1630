package config

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requirements lists the fields each environment must set when running against postgres
var requirements = map[Environment][]string{
	Development: {"db_host", "db_name", "db_user"},
	Test:        {"db_host", "db_name", "db_user"},
	CI:          {"db_host", "db_name", "db_user", "db_password"},
	Production:  {"db_host", "db_port", "db_name", "db_user", "db_password", "redis_url"},
}

func (c *Config) field(name string) string {
	switch name {
	case "db_host":
		return c.DBHost
	case "db_port":
		return c.DBPort
	case "db_name":
		return c.DBName
	case "db_user":
		return c.DBUser
	case "db_password":
		return c.DBPassword
	case "redis_url":
		return c.RedisURL
	}
	return ""
}

// ValidateConfig checks the configuration against the requirements of its environment.
// All problems are reported together.
func ValidateConfig(cfg *Config) error {
	var errs []error

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"server_port", "is required"})
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		for _, name := range requirements[cfg.Environment] {
			if cfg.field(name) == "" {
				errs = append(errs, ValidationError{name, "is required in " + string(cfg.Environment)})
			}
		}
	case DriverSQLite:
		if cfg.Environment.IsProduction() {
			errs = append(errs, ValidationError{"db_driver", "sqlite is not supported in production"})
		}
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"sqlite_path", "is required with the sqlite driver"})
		}
	default:
		errs = append(errs, ValidationError{"db_driver", fmt.Sprintf("unknown driver %q", cfg.DBDriver)})
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		errs = append(errs, ValidationError{"log_format", "must be json or console"})
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errs = append(errs, ValidationError{"timezone", err.Error()})
	}
	if cfg.PlanRateLimit < 0 || cfg.ParseRateLimit < 0 {
		errs = append(errs, ValidationError{"rate_limit", "must not be negative"})
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{"rate_limit_window", "must be positive"})
	}

	return errors.Join(errs...)
}
