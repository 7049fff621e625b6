package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/config"
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type profiles map[string]*domain.CrmUser

func (p profiles) GetByAuthUserID(_ context.Context, id string) (*domain.CrmUser, error) {
	if u, ok := p[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestMiddleware() *Middleware {
	cfg := &config.AuthConfig{JWTSecret: testSecret, AdminAPIKey: "admin-key"}
	return NewMiddleware(cfg, profiles{
		"auth-admin": {ID: 1, AuthUserID: "auth-admin", Email: "boss@example.com", Name: "Boss", Role: domain.CrmRoleAdmin},
		"auth-agent": {ID: 2, AuthUserID: "auth-agent", Email: "agent@example.com", Name: "Agent", Role: domain.CrmRoleAgent},
	}, zap.NewNop())
}

func captureUser(t *testing.T, h func(http.Handler) http.Handler, req *http.Request) (*UserContext, int) {
	t.Helper()
	var got *UserContext
	rr := httptest.NewRecorder()
	h(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)
	return got, rr.Code
}

func signToken(secret, subject, email, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := signToken(testSecret, subject, subject+"@example.com", "", time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthenticate_BearerResolvesRole(t *testing.T) {
	m := newTestMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads", nil)
	req.Header.Set("Authorization", bearer(t, "auth-admin"))
	user, code := captureUser(t, m.Authenticate, req)

	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, user)
	assert.Equal(t, "auth-admin", user.AuthUserID)
	assert.Equal(t, domain.CrmRoleAdmin, user.Role)
	assert.Equal(t, "Boss", user.Name)
	assert.True(t, user.IsAdmin())
}

func TestAuthenticate_UnlinkedIdentityIsNotAdmin(t *testing.T) {
	m := newTestMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, "someone-else"))
	user, code := captureUser(t, m.Authenticate, req)

	require.Equal(t, http.StatusOK, code)
	assert.False(t, user.HasCrmProfile())
	assert.False(t, user.IsAdmin())
}

func TestAuthenticate_Rejections(t *testing.T) {
	m := newTestMiddleware()

	expired, err := signToken(testSecret, "auth-admin", "", "", -time.Minute)
	require.NoError(t, err)
	wrongKey, err := signToken("other-secret", "auth-admin", "", "", time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		value  string
	}{
		{"no credentials", "", ""},
		{"malformed header", "Authorization", "Token abc"},
		{"expired", "Authorization", "Bearer " + expired},
		{"wrong secret", "Authorization", "Bearer " + wrongKey},
		{"missing subject", "Authorization", "Bearer " + noSubject},
		{"bad api key", "x-api-key", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rr := httptest.NewRecorder()
			m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			})).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"error":"Authentication required","code":"UNAUTHORIZED"}`, rr.Body.String())
		})
	}
}

func TestAuthenticate_APIKeyIsSystemAdmin(t *testing.T) {
	m := newTestMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-api-key", "admin-key")
	user, code := captureUser(t, m.Authenticate, req)

	require.Equal(t, http.StatusOK, code)
	assert.True(t, user.System)
	assert.True(t, user.IsAdmin())
}

func TestRequireAdmin(t *testing.T) {
	m := newTestMiddleware()
	chain := func(next http.Handler) http.Handler { return m.Authenticate(m.RequireAdmin(next)) }

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("Authorization", bearer(t, "auth-agent"))
	_, code := captureUser(t, chain, req)
	assert.Equal(t, http.StatusForbidden, code)

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("Authorization", bearer(t, "auth-admin"))
	_, code = captureUser(t, chain, req)
	assert.Equal(t, http.StatusOK, code)
}

func TestOptionalAuthenticate(t *testing.T) {
	m := newTestMiddleware()

	user, code := captureUser(t, m.OptionalAuthenticate, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, user)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", bearer(t, "auth-agent"))
	user, _ = captureUser(t, m.OptionalAuthenticate, req)
	require.NotNil(t, user)
	assert.Equal(t, domain.CrmRoleAgent, user.Role)
}
