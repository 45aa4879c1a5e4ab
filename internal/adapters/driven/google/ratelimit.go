package google

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// RateLimitConfig holds rate limiting configuration for a service.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits provides conservative defaults for each Google
// service, well below Google's actual limits to avoid hitting quotas.
var DefaultRateLimits = map[domain.Service]RateLimitConfig{
	domain.ServiceMail:     {RequestsPerSecond: 2.0, BurstSize: 5},
	domain.ServiceDrive:    {RequestsPerSecond: 8.0, BurstSize: 10},
	domain.ServiceCalendar: {RequestsPerSecond: 5.0, BurstSize: 10},
	domain.ServiceContacts: {RequestsPerSecond: 5.0, BurstSize: 10},
}

// RateLimiter provides rate limiting for Google API requests.
// It uses a token bucket with optional backoff for 429 responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a rate limiter for the specified service.
func NewRateLimiter(svc domain.Service) *RateLimiter {
	cfg, ok := DefaultRateLimits[svc]
	if !ok {
		cfg = RateLimitConfig{RequestsPerSecond: 5.0, BurstSize: 10}
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate
// limit, respecting any backoff set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// Observe inspects a failed API call and arms the backoff window when
// Google signalled quota exhaustion, honouring Retry-After when present.
func (r *RateLimiter) Observe(err error) {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusTooManyRequests {
		return
	}
	retryAfter := 0
	if v := gerr.Header.Get("Retry-After"); v != "" {
		retryAfter, _ = strconv.Atoi(v)
	}
	r.RecordRateLimitError(retryAfter)
}

// RecordRateLimitError records a 429 from Google and sets a backoff
// period before the next request.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 60
	}
	r.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}
