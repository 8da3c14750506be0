package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable before the
// application starts depending on it
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "must not be empty"}.Error())
	}
	if cfg.DBHost == "" {
		errs = append(errs, ValidationError{"DB_HOST", "must not be empty"}.Error())
	}
	if cfg.DBName == "" {
		errs = append(errs, ValidationError{"DB_NAME", "must not be empty"}.Error())
	}
	if cfg.EmbeddingDimension <= 0 {
		errs = append(errs, ValidationError{"EMBEDDING_DIMENSIONS", "must be a positive integer"}.Error())
	}
	if cfg.SearchLimit <= 0 {
		errs = append(errs, ValidationError{"RECOMMENDATION_SEARCH_LIMIT", "must be a positive integer"}.Error())
	}
	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_REQUESTS", "must be a positive integer"}.Error())
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_WINDOW_SECONDS", "must be a positive integer"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
