package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func limitedHandler(rl *RateLimiter) http.Handler {
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Rate:            rate.Every(time.Hour),
		Burst:           3,
		CleanupInterval: time.Hour,
		IdleTTL:         time.Hour,
	})
	handler := limitedHandler(rl)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:50001"))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiter_BurstExhaustionReturns429(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Rate:            rate.Every(time.Hour),
		Burst:           2,
		CleanupInterval: time.Hour,
		IdleTTL:         time.Hour,
	})
	handler := limitedHandler(rl)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestFrom("10.0.0.1:50001"))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("10.0.0.1:50001"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limited")
}

func TestRateLimiter_ClientsHaveSeparateBuckets(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Rate:            rate.Every(time.Hour),
		Burst:           1,
		CleanupInterval: time.Hour,
		IdleTTL:         time.Hour,
	})
	handler := limitedHandler(rl)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("10.0.0.1:50001"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// The first client is out of tokens, a second client is not.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("10.0.0.1:50002"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "same host, different port shares a bucket")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("10.0.0.2:50001"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_ClampsNonPositiveBurst(t *testing.T) {
	// A rate without a burst must not lock every client out.
	rl := NewRateLimiter(RateLimitConfig{
		Rate:            rate.Every(time.Hour),
		Burst:           0,
		CleanupInterval: time.Hour,
		IdleTTL:         time.Hour,
	})
	handler := limitedHandler(rl)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestFrom("10.0.0.1:50001"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, rl.cfg.Burst)
}

func TestRateLimiter_ZeroConfigFallsBackToDefaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})

	assert.Equal(t, DefaultRateLimitConfig().Burst, rl.cfg.Burst)
	assert.Equal(t, DefaultRateLimitConfig().Rate, rl.cfg.Rate)
}

func TestClientKey(t *testing.T) {
	assert.Equal(t, "10.0.0.1", clientKey(requestFrom("10.0.0.1:50001")))
	// Unparseable remote addresses fall back to the raw value.
	assert.Equal(t, "bogus", clientKey(requestFrom("bogus")))
}
