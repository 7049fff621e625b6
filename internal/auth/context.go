package auth

import (
	"context"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	// AuthUserID is the subject of the bearer token
	AuthUserID string
	Email      string
	Name       string
	// CrmUserID and Role are set when the identity is linked to a CRM user
	CrmUserID *int64
	Role      domain.CrmRole
	// System marks callers authenticated with the admin API key
	System bool
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// IsAdmin reports whether the caller may perform admin-only operations
func (u *UserContext) IsAdmin() bool {
	return u.System || u.Role == domain.CrmRoleAdmin
}

// HasCrmProfile reports whether the identity is linked to a CRM user
func (u *UserContext) HasCrmProfile() bool {
	return u.CrmUserID != nil
}
