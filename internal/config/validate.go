package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// minAPIKeyLen is the shortest plausible Gemini API key. Anything shorter is
// treated as a misconfiguration rather than a disabled AI path.
const minAPIKeyLen = 10

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// Gemini key: absence disables the AI path, but a present key must look valid.
	if c.Gemini.APIKey != "" && len(c.Gemini.APIKey) < minAPIKeyLen {
		errs = append(errs, fmt.Sprintf("GEMINI_API_KEY must be at least %d characters", minAPIKeyLen))
	}
	if c.Gemini.Model == "" {
		errs = append(errs, "GEMINI_MODEL must not be empty")
	}
	if c.Gemini.Timeout <= 0 {
		errs = append(errs, "GEMINI_TIMEOUT must be positive")
	}

	// Quota
	if c.Quota.MaxUsers < 1 {
		errs = append(errs, fmt.Sprintf("QUOTA_MAX_USERS must be at least 1, got %d", c.Quota.MaxUsers))
	}
	if c.Quota.ResetHour < 0 || c.Quota.ResetHour > 23 {
		errs = append(errs, fmt.Sprintf("QUOTA_RESET_HOUR must be 0–23, got %d", c.Quota.ResetHour))
	}
	if _, err := time.LoadLocation(c.Quota.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("QUOTA_TIMEZONE %q is not a valid IANA timezone", c.Quota.Timezone))
	}

	// Rate limit
	if c.RateLimit.MaxRequests < 1 {
		errs = append(errs, fmt.Sprintf("RATELIMIT_MAX_REQUESTS must be at least 1, got %d", c.RateLimit.MaxRequests))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, "RATELIMIT_WINDOW must be positive")
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1–65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1–65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1–65535, got %d", c.Redis.Port))
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
