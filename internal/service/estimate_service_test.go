package service_test

import (
	"regexp"
	"testing"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/extremegraphics/lead-pipeline-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var quoteNumberPattern = regexp.MustCompile(`^EG-\d{6}$`)

func validEstimateRequest() *domain.CreateEstimateRequest {
	return &domain.CreateEstimateRequest{
		ClientName:  "Acme Corp",
		ClientEmail: "Billing@Acme.test",
		Items: []domain.EstimateItem{
			{Description: "Channel letters", Quantity: 1, UnitPrice: 1500, Total: 1500},
			{Description: "Installation", Quantity: 2, UnitPrice: 100, Total: 200},
		},
		Subtotal: ptr(1700.0),
		TaxRate:  ptr(7.0),
		Total:    ptr(1819.0),
	}
}

func TestEstimateService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewEstimateService(repository.NewEstimateRepository(db), zap.NewNop())
	ctx := testutil.UserContext("owner-1")

	estimate, err := svc.Create(ctx, validEstimateRequest())
	require.NoError(t, err)
	assert.Regexp(t, quoteNumberPattern, estimate.QuoteNumber)
	assert.Equal(t, "billing@acme.test", estimate.ClientEmail)
	assert.Equal(t, "owner-1", estimate.UserID)
	assert.Equal(t, domain.QuoteStatusDraft, estimate.Status)
	assert.Len(t, estimate.Items, 2)
	assert.Zero(t, estimate.ShippingCost)

	withUserID := validEstimateRequest()
	withUserID.UserID = domain.Some[interface{}]("someone-else")
	withSnake := validEstimateRequest()
	withSnake.UserIDSnake = domain.Null[interface{}]()

	noItems := validEstimateRequest()
	noItems.Items = nil
	emptyItems := validEstimateRequest()
	emptyItems.Items = []domain.EstimateItem{}
	badItem := validEstimateRequest()
	badItem.Items[0].Quantity = 0
	blankItem := validEstimateRequest()
	blankItem.Items[1].Description = "  "
	noSubtotal := validEstimateRequest()
	noSubtotal.Subtotal = nil
	negativeTotal := validEstimateRequest()
	negativeTotal.Total = ptr(-1.0)
	badStatus := validEstimateRequest()
	badStatus.Status = "paid"
	badEmail := validEstimateRequest()
	badEmail.ClientEmail = "acme"
	noName := validEstimateRequest()
	noName.ClientName = " "
	noEmail := validEstimateRequest()
	noEmail.ClientEmail = ""

	tests := []struct {
		name    string
		req     *domain.CreateEstimateRequest
		wantErr error
	}{
		{"userId in body", withUserID, service.ErrUserIDNotAllowed},
		{"user_id in body", withSnake, service.ErrUserIDNotAllowed},
		{"missing client name", noName, service.ErrMissingClientName},
		{"missing client email", noEmail, service.ErrMissingClientEmail},
		{"invalid email", badEmail, service.ErrInvalidEmail},
		{"missing items", noItems, service.ErrMissingItems},
		{"empty items", emptyItems, service.ErrInvalidItems},
		{"zero quantity item", badItem, service.ErrInvalidItems},
		{"blank item description", blankItem, service.ErrInvalidItems},
		{"missing subtotal", noSubtotal, service.ErrInvalidSubtotal},
		{"negative total", negativeTotal, service.ErrInvalidTotal},
		{"bad status", badStatus, service.ErrInvalidQuoteStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = svc.Create(t.Context(), validEstimateRequest())
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestEstimateService_OwnershipIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewEstimateService(repository.NewEstimateRepository(db), zap.NewNop())
	alice := testutil.UserContext("alice")
	bob := testutil.UserContext("bob")

	estimate, err := svc.Create(alice, validEstimateRequest())
	require.NoError(t, err)

	got, err := svc.Get(alice, estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, estimate.QuoteNumber, got.QuoteNumber)

	_, err = svc.Get(bob, estimate.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.Update(bob, estimate.ID, &domain.UpdateEstimateRequest{Status: domain.Some("sent")})
	assert.ErrorIs(t, err, service.ErrEstimateNotFound)

	_, err = svc.Delete(bob, estimate.ID)
	assert.ErrorIs(t, err, service.ErrEstimateNotFound)

	list, err := svc.List(bob, domain.EstimateFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list.Estimates)
	assert.Zero(t, list.Total)

	list, err = svc.List(alice, domain.EstimateFilter{Search: "acme"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list.Estimates, 1)

	_, err = svc.Get(alice, 999999)
	assert.ErrorIs(t, err, service.ErrEstimateNotFound)
}

func TestEstimateService_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewEstimateService(repository.NewEstimateRepository(db), zap.NewNop())
	ctx := testutil.UserContext("owner")

	estimate, err := svc.Create(ctx, validEstimateRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, estimate.ID, &domain.UpdateEstimateRequest{
		Status:       domain.Some("sent"),
		ShippingCost: domain.Some(25.0),
		Notes:        domain.Some("  Net 30 "),
		Items: domain.Some([]domain.EstimateItem{
			{Description: "Vinyl banner", Quantity: 1, UnitPrice: 80, Total: 80},
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusSent, updated.Status)
	assert.Equal(t, 25.0, updated.ShippingCost)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "Net 30", *updated.Notes)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, estimate.QuoteNumber, updated.QuoteNumber)

	_, err = svc.Update(ctx, estimate.ID, &domain.UpdateEstimateRequest{UserID: domain.Some[interface{}]("x")})
	assert.ErrorIs(t, err, service.ErrUserIDNotAllowed)
	_, err = svc.Update(ctx, estimate.ID, &domain.UpdateEstimateRequest{TaxAmount: domain.Some(-3.0)})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
	_, err = svc.Update(ctx, estimate.ID, &domain.UpdateEstimateRequest{Items: domain.Some([]domain.EstimateItem{})})
	assert.ErrorIs(t, err, service.ErrInvalidItems)

	deleted, err := svc.Delete(ctx, estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, estimate.ID, deleted.ID)

	_, err = svc.Get(ctx, estimate.ID)
	assert.ErrorIs(t, err, service.ErrEstimateNotFound)
}
