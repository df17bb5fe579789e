package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every value the server cannot run without is
// present. Defaults cover the rest.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "is required"}.Error())
	}
	if cfg.DBUser == "" {
		errs = append(errs, ValidationError{Field: "DB_USER", Message: "is required"}.Error())
	}
	if cfg.DBPassword == "" && IsProduction() {
		errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "is required in production"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
