//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_AIPath_EndToEnd(t *testing.T) {
	env := SetupTestEnv(t)
	ResetState(t, env)

	resp := DoRequest(t, env, "POST", "/api/translate",
		map[string]string{"koreanText": "아 진짜 짜증나"}, "10.1.0.1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := ParseResponse(t, resp)

	assert.Equal(t, true, result["usedAI"])
	assert.Equal(t, "부드럽게 바꾼 말이에요", result["translation"])
	assert.Equal(t, "화남 (강도: 6/10)", result["emotionalFocus"])
	assert.NotEmpty(t, result["heartInterpretation"])
	assert.Equal(t, false, result["capacityExhausted"])
	assert.EqualValues(t, 3, env.Upstream.Calls(), "one rewrite makes three upstream calls")

	// One admission counted
	snap, err := env.UsageRepo.Get(context.Background(), env.UsageSvc.Today(), 125)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.UsersCount)

	// One audit row written
	var count int
	err = env.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM translations WHERE used_ai = TRUE`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTranslate_UpstreamFailureFallsBack(t *testing.T) {
	env := SetupTestEnv(t)
	ResetState(t, env)
	env.Upstream.FailAll(true)

	resp := DoRequest(t, env, "POST", "/api/translate",
		map[string]string{"koreanText": "짜증나"}, "10.1.0.2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := ParseResponse(t, resp)

	assert.Equal(t, false, result["usedAI"])
	assert.Equal(t, "마음이 많이 상했구나", result["translation"])
	assert.Equal(t, false, result["capacityExhausted"])

	// No admission for a failed rewrite
	snap, err := env.UsageRepo.Get(context.Background(), env.UsageSvc.Today(), 125)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.UsersCount)
}

func TestTranslate_QuotaExhausted(t *testing.T) {
	env := SetupTestEnv(t)
	ResetState(t, env)
	SeedUsage(t, env, 125, 125)

	before := env.Upstream.Calls()
	resp := DoRequest(t, env, "POST", "/api/translate",
		map[string]string{"koreanText": "짜증나"}, "10.1.0.3")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := ParseResponse(t, resp)

	assert.Equal(t, false, result["usedAI"])
	assert.Equal(t, true, result["capacityExhausted"])
	assert.NotEmpty(t, result["cuteMessage"])
	assert.EqualValues(t, 125, result["currentCount"])
	assert.Equal(t, before, env.Upstream.Calls(), "no upstream call without capacity")
}

func TestTranslate_ValidationRejectsBeforePipeline(t *testing.T) {
	env := SetupTestEnv(t)
	ResetState(t, env)

	before := env.Upstream.Calls()

	resp := DoRequest(t, env, "POST", "/api/translate",
		map[string]string{"koreanText": ""}, "10.1.0.4")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, before, env.Upstream.Calls())

	var count int
	err := env.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM translations`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "rejected input leaves no record")
}

func TestTranslate_RateLimited(t *testing.T) {
	env := SetupTestEnv(t)
	ResetState(t, env)
	env.Upstream.FailAll(true) // keep the test on the cheap fallback path

	ip := "10.1.0.5"
	for i := 0; i < 100; i++ {
		resp := DoRequest(t, env, "POST", "/api/translate",
			map[string]string{"koreanText": "안녕"}, ip)
		require.Equal(t, http.StatusOK, resp.StatusCode, "request %d inside the window", i+1)
		resp.Body.Close()
	}

	resp := DoRequest(t, env, "POST", "/api/translate",
		map[string]string{"koreanText": "안녕"}, ip)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	resp.Body.Close()

	// A different client is unaffected
	resp = DoRequest(t, env, "POST", "/api/translate",
		map[string]string{"koreanText": "안녕"}, "10.1.0.6")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestUsageEndpoints(t *testing.T) {
	env := SetupTestEnv(t)
	ResetState(t, env)

	resp := DoRequest(t, env, "GET", "/api/usage/check", nil, "10.1.0.7")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := ParseResponse(t, resp)
	assert.Equal(t, true, result["hasCapacity"])
	assert.EqualValues(t, 0, result["usersCount"])
	assert.EqualValues(t, 125, result["maxUsers"])

	resp = DoRequest(t, env, "GET", "/api/usage/cute-message", nil, "10.1.0.7")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result = ParseResponse(t, resp)
	assert.NotEmpty(t, result["character"])
	assert.NotEmpty(t, result["message"])

	resp = DoRequest(t, env, "GET", "/api/admin/usage-stats", nil, "10.1.0.7")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result = ParseResponse(t, resp)
	assert.EqualValues(t, 125, result["maxUsers"])
	assert.Equal(t, true, result["aiEnabled"])
	assert.Equal(t, "05:00", result["resetTime"])
}

func TestHealthAndNotFound(t *testing.T) {
	env := SetupTestEnv(t)

	resp := DoRequest(t, env, "GET", "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = DoRequest(t, env, "GET", "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = DoRequest(t, env, "GET", "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	result := ParseResponse(t, resp)
	assert.Equal(t, "endpoint not found", result["error"])
}
