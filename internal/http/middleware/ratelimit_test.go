package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/extremegraphics/lead-pipeline-api/internal/auth"
	"github.com/extremegraphics/lead-pipeline-api/internal/config"
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// hammer sends n requests from remoteAddr and returns how many passed
func hammer(ctx context.Context, t *testing.T, h http.Handler, n int, path, remoteAddr string) (passed int, last *httptest.ResponseRecorder) {
	t.Helper()
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
		req.RemoteAddr = remoteAddr
		last = httptest.NewRecorder()
		h.ServeHTTP(last, req)
		if last.Code == http.StatusOK {
			passed++
		}
	}
	return passed, last
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1}, zap.NewNop())

	passed, _ := hammer(context.Background(), t, rl.LimitByIP(okHandler), 50, "/api/v1/leads", "192.168.1.1:1234")

	assert.Equal(t, 50, passed)
}

func TestRateLimiter_Whitelists(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistIPs:      []string{"10.0.0.1"},
		WhitelistPaths:    []string{"/health/*"},
	}, zap.NewNop())
	h := rl.LimitByIP(okHandler)

	t.Run("path prefix", func(t *testing.T) {
		passed, _ := hammer(context.Background(), t, h, 20, "/health/ready", "192.168.1.2:1234")
		assert.Equal(t, 20, passed)
	})

	t.Run("forwarded client ip", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
			req.RemoteAddr = "172.16.0.1:1234"
			req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			require.Equal(t, http.StatusOK, rr.Code)
		}
	})
}

func TestRateLimiter_LimitExceeded(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{Enabled: true, RequestsPerMinute: 3}, zap.NewNop())

	passed, last := hammer(context.Background(), t, rl.LimitByIP(okHandler), 10, "/api/v1/leads", "192.168.1.100:1234")

	assert.Equal(t, 3, passed)
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "application/json", last.Header().Get("Content-Type"))
	assert.NotEmpty(t, last.Header().Get("Retry-After"))

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.CodeRateLimited, apiErr.Code)
}

func TestRateLimiter_IntakeBudget(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:                 true,
		RequestsPerMinute:       100,
		IntakeRequestsPerMinute: 2,
	}, zap.NewNop())

	passed, last := hammer(context.Background(), t, rl.LimitIntake(okHandler), 5, "/api/v1/intake/chat", "192.168.1.7:1234")

	assert.Equal(t, 2, passed)
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
}

func TestRateLimiter_AuthenticatedUsersGetOwnBudget(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     2,
		RequestsPerMinuteAuth: 10,
	}, zap.NewNop())
	h := rl.Limit(okHandler)

	ctx := auth.WithUserContext(context.Background(), &auth.UserContext{AuthUserID: "user-1"})
	passed, _ := hammer(ctx, t, h, 10, "/api/v1/leads", "192.168.1.9:1234")
	assert.Equal(t, 10, passed)

	anonymous, _ := hammer(context.Background(), t, h, 5, "/api/v1/leads", "192.168.1.9:1234")
	assert.Equal(t, 2, anonymous)
}
