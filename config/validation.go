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

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	require := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	require("SERVER_PORT", cfg.ServerPort)

	switch cfg.DBDriver {
	case "postgres":
		require("DB_HOST", cfg.DBHost)
		require("DB_PORT", cfg.DBPort)
		require("DB_NAME", cfg.DBName)
		require("DB_USER", cfg.DBUser)
	case "sqlite":
		require("SQLITE_PATH", cfg.SQLitePath)
		if cfg.Environment == Production {
			errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: "sqlite is not allowed in production"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.LLM.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "LLM_TIMEOUT", Message: "must be positive"})
	}
	if cfg.JWTTTL <= 0 {
		errs = append(errs, ValidationError{Field: "JWT_TTL", Message: "must be positive"})
	}
	if cfg.RateLimitPerHour <= 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_PER_HOUR", Message: "must be positive"})
	}

	// Sensitive values are only enforced where a real deployment runs.
	if cfg.Environment == Production || cfg.Environment == CI {
		require("JWT_SECRET", cfg.JWTSecret)
		require("OPENAI_API_KEY", cfg.LLM.APIKey)
		if cfg.DBDriver == "postgres" {
			require("DB_PASSWORD", cfg.DBPassword)
		}
	}
	if cfg.Environment == Production {
		require("WEBHOOK_SECRET", cfg.WebhookSecret)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
