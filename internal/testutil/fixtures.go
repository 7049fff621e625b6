package testutil

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/extremegraphics/lead-pipeline-api/internal/auth"
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// LeadOption tweaks a fixture lead before it is inserted
type LeadOption func(*domain.Lead)

func WithStatus(status domain.LeadStatus) LeadOption {
	return func(l *domain.Lead) { l.Status = status }
}

func WithSource(source domain.LeadSource) LeadOption {
	return func(l *domain.Lead) { l.Source = source }
}

func WithName(name string) LeadOption {
	return func(l *domain.Lead) { l.Name = name }
}

func WithEmail(email string) LeadOption {
	return func(l *domain.Lead) { l.Email = email }
}

func WithAssignee(userID int64) LeadOption {
	return func(l *domain.Lead) { l.AssignedTo = &userID }
}

// CreateLead inserts a lead with fake contact details
func CreateLead(t *testing.T, db *gorm.DB, opts ...LeadOption) *domain.Lead {
	t.Helper()
	phone := gofakeit.Phone()
	lead := &domain.Lead{
		Name:   gofakeit.Name(),
		Email:  gofakeit.Email(),
		Phone:  &phone,
		Source: domain.LeadSourceContact,
		Status: domain.LeadStatusNew,
	}
	for _, opt := range opts {
		opt(lead)
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

// CreateProduct inserts an active catalog product
func CreateProduct(t *testing.T, db *gorm.DB, category string) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Category:  category,
		Name:      gofakeit.ProductName(),
		BasePrice: int64(gofakeit.Number(50, 5000)),
		IsActive:  true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// CreateQuote inserts a quote for lead and product
func CreateQuote(t *testing.T, db *gorm.DB, leadID, productID int64, status domain.QuoteStatus) *domain.Quote {
	t.Helper()
	quote := &domain.Quote{
		LeadID:         leadID,
		ProductID:      productID,
		Quantity:       1,
		EstimatedPrice: int64(gofakeit.Number(100, 10000)),
		Status:         status,
	}
	require.NoError(t, db.Create(quote).Error)
	return quote
}

// CreateAuthUser inserts an identity into the auth mirror table
func CreateAuthUser(t *testing.T, db *gorm.DB) *domain.AuthUser {
	t.Helper()
	user := &domain.AuthUser{
		ID:            gofakeit.UUID(),
		Name:          gofakeit.Name(),
		Email:         gofakeit.Email(),
		EmailVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCrmUser inserts an auth identity and a CRM profile linked to it
func CreateCrmUser(t *testing.T, db *gorm.DB, role domain.CrmRole) *domain.CrmUser {
	t.Helper()
	authUser := CreateAuthUser(t, db)
	user := &domain.CrmUser{
		AuthUserID: authUser.ID,
		Email:      authUser.Email,
		Name:       authUser.Name,
		Role:       role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// UserContext returns a context authenticated as a bare identity with no CRM profile
func UserContext(authUserID string) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		AuthUserID: authUserID,
		Email:      authUserID + "@example.com",
		Name:       "Test User",
	})
}

// CrmContext returns a context authenticated as user
func CrmContext(user *domain.CrmUser) context.Context {
	id := user.ID
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		AuthUserID: user.AuthUserID,
		Email:      user.Email,
		Name:       user.Name,
		CrmUserID:  &id,
		Role:       user.Role,
	})
}

// AdminContext returns a context authenticated with the admin API key
func AdminContext() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		AuthUserID: "system",
		Name:       "System",
		Role:       domain.CrmRoleAdmin,
		System:     true,
	})
}
