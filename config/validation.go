package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs []error

	if cfg.RecipeAPIKey == "" {
		if env == Production {
			errs = append(errs, ValidationError{"spoonacular_api_key", "secret is required"})
		} else {
			errs = append(errs, ValidationError{"SPOONACULAR_API_KEY", "environment variable is required"})
		}
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, ValidationError{"SERVER_PORT", fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}

	if cfg.UpstreamTimeout <= 0 {
		errs = append(errs, ValidationError{"UPSTREAM_TIMEOUT", "must be positive"})
	}
	if cfg.SearchDefaultNumber < 1 || cfg.SearchDefaultNumber > 100 {
		errs = append(errs, ValidationError{"SEARCH_DEFAULT_NUMBER", "must be between 1 and 100"})
	}
	if cfg.PriceCurrency == "" {
		errs = append(errs, ValidationError{"PRICE_CURRENCY", "must not be empty"})
	}

	switch cfg.StoreBackend {
	case StoreMemory:
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "is required for the sqlite store"})
		}
	case StorePostgres:
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_NAME": cfg.DBName,
			"DB_USER": cfg.DBUser,
		} {
			if value == "" {
				errs = append(errs, ValidationError{field, "is required for the postgres store"})
			}
		}
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "is required for the postgres store"})
		}
	default:
		errs = append(errs, ValidationError{"STORE_BACKEND", fmt.Sprintf("unknown backend %q", cfg.StoreBackend)})
	}

	return errors.Join(errs...)
}
