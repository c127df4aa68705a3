package supplier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/dropship/backend/internal/domain/supplier"
)

func authServer(t *testing.T, calls *atomic.Int64, token string, ok bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, authPath, r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-key", body["apiKey"])

		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code": 1601000, "result": false, "message": "invalid api key",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code": 200, "result": true, "message": "success",
			"data": map[string]string{
				"accessToken":           token,
				"accessTokenExpiryDate": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			},
		})
	}))
}

func newTestTokenCache(t *testing.T, baseURL string) *TokenCache {
	t.Helper()
	cfg := NewConfig(baseURL, "test-key")
	require.NoError(t, cfg.Validate())
	return NewTokenCache(cfg, nil, nil)
}

func TestTokenCache_FetchesAndCaches(t *testing.T) {
	var calls atomic.Int64
	srv := authServer(t, &calls, "tok-1", true)
	defer srv.Close()

	cache := newTestTokenCache(t, srv.URL)
	ctx := context.Background()

	tok, err := cache.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)

	// Second call is served from cache
	tok, err = cache.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, int64(1), calls.Load())
}

func TestTokenCache_AuthFailure(t *testing.T) {
	var calls atomic.Int64
	srv := authServer(t, &calls, "", false)
	defer srv.Close()

	cache := newTestTokenCache(t, srv.URL)

	_, err := cache.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthFailed)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestTokenCache_CooldownBlocksRetry(t *testing.T) {
	var calls atomic.Int64
	srv := authServer(t, &calls, "", false)
	defer srv.Close()

	cache := newTestTokenCache(t, srv.URL)

	_, err := cache.Token(context.Background())
	require.ErrorIs(t, err, domain.ErrAuthFailed)

	// Immediate retry is refused without touching the provider
	_, err = cache.Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthCooldown)
	assert.Equal(t, int64(1), calls.Load())
}

func TestTokenCache_RefreshesInsideExpiryBuffer(t *testing.T) {
	var calls atomic.Int64
	srv := authServer(t, &calls, "tok-fresh", true)
	defer srv.Close()

	cache := newTestTokenCache(t, srv.URL)

	now := time.Now()
	cache.nowFn = func() time.Time { return now }

	_, err := cache.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), calls.Load())

	// Jump to just inside the expiry buffer, past the auth cooldown
	now = cache.expiresAt.Add(-time.Minute)
	_, err = cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestTokenCache_InvalidateDropsToken(t *testing.T) {
	var calls atomic.Int64
	srv := authServer(t, &calls, "tok-1", true)
	defer srv.Close()

	cache := newTestTokenCache(t, srv.URL)

	now := time.Now()
	cache.nowFn = func() time.Time { return now }

	_, err := cache.Token(context.Background())
	require.NoError(t, err)

	cache.Invalidate()

	// Cooldown is still in force after invalidation
	_, err = cache.Token(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthCooldown)

	now = now.Add(DefaultAuthCooldown + time.Second)
	tok, err := cache.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	assert.Equal(t, int64(2), calls.Load())
}

func TestParseExpiry_FallsBackToOneHour(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(time.Hour), parseExpiry("garbage", now))

	ts := parseExpiry("2026-03-02 08:30:00", now)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, 8, ts.Hour())
}
