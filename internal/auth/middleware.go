package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/extremegraphics/lead-pipeline-api/internal/config"
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProfileLookup resolves the CRM profile linked to an auth identity
type ProfileLookup interface {
	GetByAuthUserID(ctx context.Context, authUserID string) (*domain.CrmUser, error)
}

// Middleware handles authentication for HTTP requests
type Middleware struct {
	jwtValidator *JWTValidator
	profiles     ProfileLookup
	apiKey       string
	logger       *zap.Logger
}

func NewMiddleware(cfg *config.AuthConfig, profiles ProfileLookup, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(cfg),
		profiles:     profiles,
		apiKey:       cfg.AdminAPIKey,
		logger:       logger,
	}
}

// Authenticate rejects requests without a valid API key or bearer token
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug("authentication failed",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			writeError(w, http.StatusUnauthorized, domain.CodeUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

// OptionalAuthenticate attaches a user context when credentials are valid and
// lets anonymous requests through otherwise.
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userCtx, err := m.authenticate(r); err == nil {
			r = r.WithContext(WithUserContext(r.Context(), userCtx))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin must run after Authenticate
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, domain.CodeUnauthorized, "Authentication required")
			return
		}
		if !userCtx.IsAdmin() {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

var errNoCredentials = errors.New("no credentials")

func (m *Middleware) authenticate(r *http.Request) (*UserContext, error) {
	if key := r.Header.Get("x-api-key"); key != "" {
		if !m.validateAPIKey(key) {
			m.logger.Warn("invalid API key attempt",
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
			)
			return nil, errors.New("invalid api key")
		}
		return &UserContext{
			AuthUserID: "system",
			Email:      "system@extremegraphics.local",
			Name:       "System",
			Role:       domain.CrmRoleAdmin,
			System:     true,
		}, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}

	userCtx, err := m.jwtValidator.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}

	if m.profiles != nil {
		profile, err := m.profiles.GetByAuthUserID(r.Context(), userCtx.AuthUserID)
		switch {
		case err == nil:
			id := profile.ID
			userCtx.CrmUserID = &id
			userCtx.Role = profile.Role
			if userCtx.Name == "" {
				userCtx.Name = profile.Name
			}
			if userCtx.Email == "" {
				userCtx.Email = profile.Email
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// authenticated but not a CRM operator
		default:
			m.logger.Error("failed to resolve crm profile",
				zap.String("auth_user_id", userCtx.AuthUserID),
				zap.Error(err),
			)
		}
	}

	return userCtx, nil
}

func (m *Middleware) validateAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{Message: message, Code: code})
}
