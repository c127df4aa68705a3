package supplier

import (
	"errors"
	"time"
)

// Errors for supplier client configuration
var (
	ErrConfigMissingBaseURL = errors.New("supplier: api base url is required")
	ErrConfigMissingAPIKey  = errors.New("supplier: api key is required")
)

// Default client pacing parameters. The provider enforces a hard QPS
// ceiling and locks accounts that hammer the auth endpoint, so both
// limits are enforced client-side.
const (
	DefaultMinCallInterval   = 3 * time.Second
	DefaultAuthCooldown      = 300 * time.Second
	DefaultTokenExpiryBuffer = 2 * time.Minute
	DefaultTimeoutSeconds    = 30
)

// Config holds connection settings for the supplier API
type Config struct {
	// APIBaseURL is the supplier REST endpoint root
	APIBaseURL string
	// APIKey authenticates against the supplier's token endpoint
	APIKey string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// MinCallInterval is the global minimum spacing between API calls
	MinCallInterval time.Duration
	// AuthCooldown is the minimum spacing between token requests
	AuthCooldown time.Duration
	// TokenExpiryBuffer re-acquires tokens this long before expiry so a
	// token never lapses mid-call
	TokenExpiryBuffer time.Duration
}

// NewConfig creates a supplier config with default pacing
func NewConfig(apiBaseURL, apiKey string) *Config {
	return &Config{
		APIBaseURL:        apiBaseURL,
		APIKey:            apiKey,
		TimeoutSeconds:    DefaultTimeoutSeconds,
		MinCallInterval:   DefaultMinCallInterval,
		AuthCooldown:      DefaultAuthCooldown,
		TokenExpiryBuffer: DefaultTokenExpiryBuffer,
	}
}

// Validate validates the configuration and fills zero pacing values with
// defaults
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.MinCallInterval <= 0 {
		c.MinCallInterval = DefaultMinCallInterval
	}
	if c.AuthCooldown <= 0 {
		c.AuthCooldown = DefaultAuthCooldown
	}
	if c.TokenExpiryBuffer <= 0 {
		c.TokenExpiryBuffer = DefaultTokenExpiryBuffer
	}
	return nil
}
