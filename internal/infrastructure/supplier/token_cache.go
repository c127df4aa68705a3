package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	domainsupplier "github.com/dropship/backend/internal/domain/supplier"
)

const authPath = "/authentication/getAccessToken"

// expiryFormats are the timestamp layouts the provider has been seen to
// emit for token expiry dates
var expiryFormats = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// TokenCache caches the supplier access token and refreshes it lazily.
// The provider locks accounts that request tokens too often, so refresh
// attempts are spaced by a hard cooldown regardless of outcome.
type TokenCache struct {
	cfg    *Config
	client *http.Client
	logger *zap.Logger

	mu          sync.Mutex
	token       string
	expiresAt   time.Time
	lastAttempt time.Time

	nowFn func() time.Time
}

// NewTokenCache creates a token cache for the given supplier config
func NewTokenCache(cfg *Config, client *http.Client, logger *zap.Logger) *TokenCache {
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenCache{
		cfg:    cfg,
		client: client,
		logger: logger,
		nowFn:  time.Now,
	}
}

// Token returns a valid access token, refreshing it when the cached one
// is missing or inside the expiry buffer. Returns ErrAuthCooldown when a
// refresh is needed but the cooldown since the last attempt has not
// elapsed.
func (t *TokenCache) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.nowFn()
	if t.token != "" && now.Before(t.expiresAt.Add(-t.cfg.TokenExpiryBuffer)) {
		return t.token, nil
	}

	if !t.lastAttempt.IsZero() {
		if elapsed := now.Sub(t.lastAttempt); elapsed < t.cfg.AuthCooldown {
			return "", fmt.Errorf("%w: retry in %s",
				domainsupplier.ErrAuthCooldown, (t.cfg.AuthCooldown - elapsed).Round(time.Second))
		}
	}
	t.lastAttempt = now

	token, expiresAt, err := t.fetchToken(ctx)
	if err != nil {
		return "", err
	}
	t.token = token
	t.expiresAt = expiresAt
	t.logger.Info("supplier access token refreshed",
		zap.Time("expires_at", expiresAt))
	return token, nil
}

// Invalidate drops the cached token so the next call refreshes it. The
// cooldown clock keeps running.
func (t *TokenCache) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.expiresAt = time.Time{}
}

func (t *TokenCache) fetchToken(ctx context.Context) (string, time.Time, error) {
	body, err := json.Marshal(map[string]string{"apiKey": t.cfg.APIKey})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", domainsupplier.ErrAuthFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.cfg.APIBaseURL+authPath, bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", domainsupplier.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", domainsupplier.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: reading auth response: %v", domainsupplier.ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: auth response: %v", domainsupplier.ErrInvalidResponse, err)
	}
	if !env.ok() || !env.Result {
		t.logger.Warn("supplier rejected authentication",
			zap.Int("code", env.Code),
			zap.String("message", env.Message))
		return "", time.Time{}, fmt.Errorf("%w: %s", domainsupplier.ErrAuthFailed, env.Message)
	}

	var data authData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: auth payload: %v", domainsupplier.ErrInvalidResponse, err)
	}
	if data.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty access token", domainsupplier.ErrInvalidResponse)
	}

	expiresAt := parseExpiry(data.AccessTokenExpiryDate, t.nowFn())
	return data.AccessToken, expiresAt, nil
}

// parseExpiry decodes the provider's expiry timestamp, falling back to a
// conservative one-hour lifetime when the format is unrecognized
func parseExpiry(s string, now time.Time) time.Time {
	for _, layout := range expiryFormats {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return now.Add(time.Hour)
}
