//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dajeong-labs/dajeong/internal/router"
	"github.com/dajeong-labs/dajeong/internal/config"
	"github.com/dajeong-labs/dajeong/internal/gemini"
	"github.com/dajeong-labs/dajeong/internal/middleware"
	"github.com/dajeong-labs/dajeong/internal/translation"
	"github.com/dajeong-labs/dajeong/internal/usage"
)

type TestEnv struct {
	Pool        *pgxpool.Pool
	RedisClient *redis.Client
	Server      *httptest.Server
	UsageSvc    *usage.Service
	UsageRepo   *usage.Repository
	Upstream    *UpstreamStub
}

// UpstreamStub fakes the Gemini generateContent endpoint. Requests carrying a
// JSON response schema get the emotion analysis; the rest get plain text.
type UpstreamStub struct {
	Server *httptest.Server
	fail   atomic.Bool
	calls  atomic.Int64
}

func (s *UpstreamStub) FailAll(v bool) { s.fail.Store(v) }

func (s *UpstreamStub) Calls() int64 { return s.calls.Load() }

func newUpstreamStub() *UpstreamStub {
	stub := &UpstreamStub{}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		if stub.fail.Load() {
			http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
			return
		}

		var req struct {
			GenerationConfig struct {
				ResponseMimeType string `json:"responseMimeType"`
			} `json:"generationConfig"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		text := "부드럽게 바꾼 말이에요"
		if req.GenerationConfig.ResponseMimeType == "application/json" {
			text = `{"emotion": "화남", "intensity": 6, "context": "짜증 섞인 불만"}`
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"candidates": [{"content": {"parts": [{"text": %q}]}}]}`, text)
	}))
	return stub
}

var testEnv *TestEnv

func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	if testEnv != nil {
		return testEnv
	}

	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "dajeong_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	pgHost, _ := pgContainer.Host(ctx)
	pgPort, _ := pgContainer.MappedPort(ctx, "5432")

	// Start Redis container
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting redis container: %v", err)
	}
	t.Cleanup(func() { redisContainer.Terminate(ctx) })

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, "6379")

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/dajeong_test?sslmode=disable", pgHost, pgPort.Port())
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	// Run migrations
	migrationsPath := getMigrationsPath()
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		dsn,
	)
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("running migrations: %v", err)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
	})
	t.Cleanup(func() { redisClient.Close() })

	// Fake Gemini upstream
	upstream := newUpstreamStub()
	t.Cleanup(upstream.Server.Close)

	geminiCfg := config.GeminiConfig{
		APIKey:  "test-gemini-key",
		Model:   "gemini-2.5-flash",
		Timeout: 5 * time.Second,
		BaseURL: upstream.Server.URL,
	}

	quotaCfg := config.QuotaConfig{
		MaxUsers:  125,
		ResetHour: 5,
		Timezone:  "Asia/Seoul",
	}

	// Services
	usageRepo := usage.NewRepository(pool)
	usageCache := usage.NewCache(redisClient, 2*time.Second)
	usageSvc, err := usage.NewService(usageRepo, usageCache, quotaCfg, true)
	if err != nil {
		t.Fatalf("building usage service: %v", err)
	}
	usageHandler := usage.NewHandler(usageSvc)

	translationRepo := translation.NewRepository(pool)
	translationSvc := translation.NewService(usageSvc, gemini.NewClient(geminiCfg), translationRepo)
	translationHandler := translation.NewHandler(translationSvc)

	limiter := middleware.NewRateLimiter(100, 60*time.Second)

	router := router.NewRouter(pool, redisClient, router.RouterConfig{
		CORSAllowedOrigins:   []string{"http://localhost:3000"},
		TranslateRateLimiter: limiter.Middleware,
	}, router.HandlerSet{
		Translate: translationHandler.Translate,

		UsageCheck:      usageHandler.Check,
		CuteMessage:     usageHandler.CuteMessage,
		AdminUsageStats: usageHandler.AdminStats,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() { server.Close() })

	testEnv = &TestEnv{
		Pool:        pool,
		RedisClient: redisClient,
		Server:      server,
		UsageSvc:    usageSvc,
		UsageRepo:   usageRepo,
		Upstream:    upstream,
	}

	return testEnv
}

func getMigrationsPath() string {
	paths := []string{
		"../../migrations",
		"../../../migrations",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	log.Fatal("migrations directory not found")
	return ""
}

// Helper functions

// ResetState clears both tables and the snapshot cache between tests.
func ResetState(t *testing.T, env *TestEnv) {
	t.Helper()
	ctx := context.Background()
	if _, err := env.Pool.Exec(ctx, `TRUNCATE daily_usage, translations`); err != nil {
		t.Fatalf("truncating tables: %v", err)
	}
	if err := env.RedisClient.FlushAll(ctx).Err(); err != nil {
		t.Fatalf("flushing redis: %v", err)
	}
	env.Upstream.FailAll(false)
}

// SeedUsage writes today's usage row directly, bypassing the service.
func SeedUsage(t *testing.T, env *TestEnv, count, max int) {
	t.Helper()
	_, err := env.Pool.Exec(context.Background(),
		`INSERT INTO daily_usage (date, users_count, max_users) VALUES ($1, $2, $3)
		 ON CONFLICT (date) DO UPDATE SET users_count = $2, max_users = $3`,
		env.UsageSvc.Today(), count, max)
	if err != nil {
		t.Fatalf("seeding usage: %v", err)
	}
}

// DoRequest sends a request with a caller-chosen client IP so tests do not
// share a rate-limit window.
func DoRequest(t *testing.T, env *TestEnv, method, path string, body any, clientIP string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.Server.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("sending request: %v", err)
	}
	return resp
}

func ParseResponse(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return result
}
