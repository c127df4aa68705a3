package supplier

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the supplier integration
var (
	// ErrNotConfigured indicates missing supplier credentials
	ErrNotConfigured = errors.New("supplier: not configured")
	// ErrAuthFailed indicates the supplier rejected our credentials; fatal
	// to the whole run
	ErrAuthFailed = errors.New("supplier: authentication failed")
	// ErrAuthCooldown indicates the client-side auth cooldown would be
	// violated; fatal at the auth layer to avoid provider lockout
	ErrAuthCooldown = errors.New("supplier: auth request cooldown active")
	// ErrRateLimited indicates the provider reported a rate-limit breach;
	// retryable after a fixed backoff
	ErrRateLimited = errors.New("supplier: rate limit exceeded")
	// ErrUnavailable indicates a transport failure (network, timeout);
	// transient, callers log and continue
	ErrUnavailable = errors.New("supplier: unavailable")
	// ErrInvalidResponse indicates a response that does not match the
	// supplier's envelope
	ErrInvalidResponse = errors.New("supplier: invalid response")
	// ErrProductNotFound indicates the provider reports the item as
	// removed or unknown; callers treat the item as unavailable
	ErrProductNotFound = errors.New("supplier: product not found")
)

// Provider response codes with special handling
const (
	codeProductNotFound = 1600200
	codeRateLimited     = 1600300
)

// APIError is a failure reported inside the supplier's response envelope
type APIError struct {
	Code    int
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("supplier: api error %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether the provider says the item does not exist
// or has been removed, a data error rather than a transient one
func (e *APIError) IsNotFound() bool {
	if e.Code == codeProductNotFound {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "not exist") ||
		strings.Contains(msg, "removed") ||
		strings.Contains(msg, "off shelf")
}

// IsRateLimited reports whether the provider throttled the call
func (e *APIError) IsRateLimited() bool {
	if e.Code == codeRateLimited || e.Code == 429 {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "too many request") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too frequent")
}

// Unwrap maps the provider error onto the sentinel taxonomy so callers
// can branch with errors.Is
func (e *APIError) Unwrap() error {
	switch {
	case e.IsNotFound():
		return ErrProductNotFound
	case e.IsRateLimited():
		return ErrRateLimited
	default:
		return nil
	}
}

// IsNotFound reports whether err represents a provider-side "item does
// not exist" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

// IsRateLimited reports whether err represents provider throttling
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTransient reports whether err is worth retrying later without
// failing the larger operation
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrRateLimited)
}
