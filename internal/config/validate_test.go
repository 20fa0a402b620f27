package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		DB: DBConfig{
			Host: "localhost", Port: 5432, User: "dajeong",
			Password: "secret", Name: "dajeong", SSLMode: "disable", MaxConns: 25,
		},
		Redis:     RedisConfig{Host: "localhost", Port: 6379},
		Gemini:    GeminiConfig{APIKey: "test-api-key-1234", Model: "gemini-2.5-flash", Timeout: 30 * time.Second},
		Quota:     QuotaConfig{MaxUsers: 125, ResetHour: 5, Timezone: "Asia/Seoul"},
		RateLimit: RateLimitConfig{MaxRequests: 100, Window: 60 * time.Second},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_EmptyGeminiKeyAllowed(t *testing.T) {
	// No key means the AI path is disabled, not misconfigured.
	cfg := validConfig()
	cfg.Gemini.APIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error for absent key, got: %v", err)
	}
}

func TestValidate_GeminiKeyTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Gemini.APIKey = "short"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected GEMINI_API_KEY error, got: %v", err)
	}
}

func TestValidate_QuotaMaxUsers(t *testing.T) {
	cfg := validConfig()
	cfg.Quota.MaxUsers = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "QUOTA_MAX_USERS") {
		t.Fatalf("expected QUOTA_MAX_USERS error, got: %v", err)
	}
}

func TestValidate_QuotaResetHourRange(t *testing.T) {
	cfg := validConfig()
	cfg.Quota.ResetHour = 24
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "QUOTA_RESET_HOUR") {
		t.Fatalf("expected QUOTA_RESET_HOUR error, got: %v", err)
	}
}

func TestValidate_QuotaTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Quota.Timezone = "Mars/Olympus"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "QUOTA_TIMEZONE") {
		t.Fatalf("expected QUOTA_TIMEZONE error, got: %v", err)
	}
}

func TestValidate_RateLimitMaxRequests(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.MaxRequests = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "RATELIMIT_MAX_REQUESTS") {
		t.Fatalf("expected RATELIMIT_MAX_REQUESTS error, got: %v", err)
	}
}

func TestValidate_DBPasswordRequired(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Password = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "DB_PASSWORD") {
		t.Fatalf("expected DB_PASSWORD required error, got: %v", err)
	}
}

func TestValidate_CollectsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.DB.Password = ""
	cfg.Quota.MaxUsers = -1
	cfg.Server.Port = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	for _, want := range []string{"DB_PASSWORD", "QUOTA_MAX_USERS", "SERVER_PORT"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got: %v", want, err)
		}
	}
}
