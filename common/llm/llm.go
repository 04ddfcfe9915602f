package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultModel       = "anthropic/claude-3.5-sonnet"
	DefaultTemperature = 0.3
)

// Config holds gateway client configuration.
type Config struct {
	APIKey      string   // Required: bearer credential for the completion service
	BaseURL     string   // Optional: OpenAI-compatible endpoint, defaults to OpenRouter
	Model       string   // Model identifier sent with every request
	Temperature *float64 // Fixed sampling temperature, nil = DefaultTemperature
	Timeout     int      // Per-request timeout in seconds, 0 = transport default
	SiteURL     string   // Optional: sent as HTTP-Referer for provider attribution
	SiteName    string   // Optional: sent as X-Title
}

var ErrMissingAPIKey = errors.New("API key is required")

// ErrorKind classifies gateway failures.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindRateLimited  ErrorKind = "rate_limited"
	KindUnreachable  ErrorKind = "unreachable"
	KindUpstream     ErrorKind = "upstream"
)

// GatewayError is the only error type Complete returns.
type GatewayError struct {
	Kind    ErrorKind
	Status  int    // HTTP status, 0 when no response was received
	Message string // Upstream error message, if any
	Err     error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("gateway %s (status %d): %s", e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("gateway %s (status %d)", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("gateway %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("gateway %s", e.Kind)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// KindOf returns the gateway error kind carried by err, or "" if err is not a GatewayError.
func KindOf(err error) ErrorKind {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return ""
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindUpstream
	}
}

func Temp(t float64) *float64 {
	return &t
}

// IsRetryable reports whether a caller-side retry policy should try again.
// The gateway itself never retries.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.DebugContext(ctx, "gateway error not retryable: context cancelled or deadline exceeded")
		return false
	}

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		return false
	}

	switch {
	case gwErr.Kind == KindRateLimited:
		slog.WarnContext(ctx, "gateway rate limited", "status_code", gwErr.Status)
		return true
	case gwErr.Kind == KindUpstream && gwErr.Status >= 500:
		slog.WarnContext(ctx, "gateway server error", "status_code", gwErr.Status)
		return true
	case gwErr.Kind == KindUnreachable:
		slog.WarnContext(ctx, "gateway network error", "error", gwErr.Err)
		return true
	default:
		return false
	}
}
