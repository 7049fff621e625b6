package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/extremegraphics/lead-pipeline-api/internal/storage"
	"github.com/extremegraphics/lead-pipeline-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createLeadService(db *gorm.DB, cascade bool) *service.LeadService {
	return service.NewLeadService(
		repository.NewLeadRepository(db),
		repository.NewCrmUserRepository(db),
		service.LeadServiceOptions{
			Storage:       storage.NewInlineStorage(),
			CascadeDelete: cascade,
		},
		zap.NewNop(),
	)
}

func countLeads(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.Lead{}).Count(&n).Error)
	return n
}

func TestLeadService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db, false)
	ctx := context.Background()

	t.Run("normalizes input", func(t *testing.T) {
		lead, err := svc.Create(ctx, &domain.CreateLeadRequest{
			Name:   "  Jane Doe ",
			Email:  "  Foo@Bar.COM  ",
			Phone:  "(202) 456-1111",
			Source: "contact",
			Notes:  "  ",
		})
		require.NoError(t, err)

		assert.Equal(t, "Jane Doe", lead.Name)
		assert.Equal(t, "foo@bar.com", lead.Email)
		require.NotNil(t, lead.Phone)
		assert.Equal(t, "+12024561111", *lead.Phone)
		assert.Equal(t, domain.LeadStatusNew, lead.Status)
		assert.Nil(t, lead.Notes)

		got, err := svc.Get(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, "foo@bar.com", got.Email)
		assert.Nil(t, got.AssignedUser)
	})

	t.Run("keeps unparseable phone as typed", func(t *testing.T) {
		lead, err := svc.Create(ctx, &domain.CreateLeadRequest{
			Name: "Ana", Email: "ana@example.com", Phone: " ext. 12 ", Source: "wizard",
		})
		require.NoError(t, err)
		require.NotNil(t, lead.Phone)
		assert.Equal(t, "ext. 12", *lead.Phone)
	})

	before := countLeads(t, db)
	tests := []struct {
		name    string
		req     domain.CreateLeadRequest
		wantErr error
	}{
		{"missing name", domain.CreateLeadRequest{Email: "a@b.co", Source: "chat"}, service.ErrMissingRequiredFields},
		{"missing email", domain.CreateLeadRequest{Name: "A", Source: "chat"}, service.ErrMissingRequiredFields},
		{"missing source", domain.CreateLeadRequest{Name: "A", Email: "a@b.co"}, service.ErrMissingRequiredFields},
		{"blank name", domain.CreateLeadRequest{Name: "   ", Email: "a@b.co", Source: "chat"}, service.ErrInvalidName},
		{"bad email", domain.CreateLeadRequest{Name: "A", Email: "not-an-email", Source: "chat"}, service.ErrInvalidEmail},
		{"bad source", domain.CreateLeadRequest{Name: "A", Email: "a@b.co", Source: "fax"}, service.ErrInvalidSource},
		{"name too long", domain.CreateLeadRequest{Name: strings.Repeat("a", 256), Email: "a@b.co", Source: "chat"}, service.ErrNameTooLong},
		{"email too long", domain.CreateLeadRequest{Name: "A", Email: strings.Repeat("a", 251) + "@b.co", Source: "chat"}, service.ErrEmailTooLong},
		{"preferred contact too long", domain.CreateLeadRequest{Name: "A", Email: "a@b.co", Source: "chat", PreferredContact: strings.Repeat("x", 51)}, service.ErrInvalidPreferredContact},
		{"ticket number too long", domain.CreateLeadRequest{Name: "A", Email: "a@b.co", Source: "chat", TicketNumber: strings.Repeat("9", 101)}, service.ErrInvalidTicketNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, before, countLeads(t, db), "rejected leads must not be stored")

	t.Run("widths count characters", func(t *testing.T) {
		lead, err := svc.Create(ctx, &domain.CreateLeadRequest{
			Name: strings.Repeat("ñ", 255), Email: "n@example.com", Source: "contact", PreferredContact: strings.Repeat("é", 50),
		})
		require.NoError(t, err)
		assert.Len(t, []rune(lead.Name), 255)
	})
}

func TestLeadService_ListPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db, false)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		testutil.CreateLead(t, db, testutil.WithName(fmt.Sprintf("Lead %02d", i)))
	}

	tests := []struct {
		page, limit    int
		wantItems      int
		wantPage       int
		wantTotalPages int
	}{
		{1, 10, 10, 1, 3},
		{3, 10, 5, 3, 3},
		{4, 10, 0, 4, 3},
		{0, 0, 10, 1, 3},
		{-2, 7, 7, 1, 4},
		{1, 500, 25, 1, 1},
		{1, -5, 1, 1, 25},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%d limit=%d", tt.page, tt.limit), func(t *testing.T) {
			res, err := svc.List(ctx, domain.LeadFilter{}, tt.page, tt.limit)
			require.NoError(t, err)
			assert.Len(t, res.Leads, tt.wantItems)
			assert.Equal(t, int64(25), res.Total)
			assert.Equal(t, tt.wantPage, res.Page)
			assert.Equal(t, tt.wantTotalPages, res.TotalPages)
		})
	}

	res, err := svc.List(ctx, domain.LeadFilter{}, 1, 100)
	require.NoError(t, err)
	for i := 1; i < len(res.Leads); i++ {
		prev, cur := res.Leads[i-1], res.Leads[i]
		assert.False(t, cur.CreatedAt.After(prev.CreatedAt), "leads must be newest first")
	}
}

func TestLeadService_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db, false)
	ctx := context.Background()

	agent := testutil.CreateCrmUser(t, db, domain.CrmRoleAgent)
	testutil.CreateLead(t, db, testutil.WithName("Maria Lopez"), testutil.WithEmail("maria@example.com"), testutil.WithStatus(domain.LeadStatusWon))
	testutil.CreateLead(t, db, testutil.WithName("John Smith"), testutil.WithEmail("john@acme.test"), testutil.WithAssignee(agent.ID))
	testutil.CreateLead(t, db, testutil.WithName("Peter Pan"), testutil.WithEmail("peter@example.com"))

	res, err := svc.List(ctx, domain.LeadFilter{Search: "LOPEZ"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, "Maria Lopez", res.Leads[0].Name)

	res, err = svc.List(ctx, domain.LeadFilter{Search: "acme"}, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, "John Smith", res.Leads[0].Name)

	res, err = svc.List(ctx, domain.LeadFilter{Status: "won"}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, res.Leads, 1)

	res, err = svc.List(ctx, domain.LeadFilter{AssignedTo: &agent.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, "John Smith", res.Leads[0].Name)
}

func TestLeadService_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db, false)
	ctx := context.Background()

	agent := testutil.CreateCrmUser(t, db, domain.CrmRoleAgent)
	lead := testutil.CreateLead(t, db, testutil.WithAssignee(agent.ID))

	got, err := svc.Get(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AssignedUser)
	assert.Equal(t, agent.ID, got.AssignedUser.ID)
	assert.Equal(t, agent.Name, got.AssignedUser.Name)
	assert.Equal(t, agent.Email, got.AssignedUser.Email)

	_, err = svc.Get(ctx, 999999)
	assert.ErrorIs(t, err, service.ErrLeadNotFound)
}

func TestLeadService_UpdateStatusIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db, false)
	ctx := context.Background()

	lead := testutil.CreateLead(t, db)
	patch := &domain.UpdateLeadRequest{Status: domain.Some("won")}

	first, err := svc.Update(ctx, lead.ID, patch)
	require.NoError(t, err)
	second, err := svc.Update(ctx, lead.ID, patch)
	require.NoError(t, err)

	assert.Equal(t, domain.LeadStatusWon, first.Status)
	assert.Equal(t, domain.LeadStatusWon, second.Status)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	// Any status may follow any other
	back, err := svc.Update(ctx, lead.ID, &domain.UpdateLeadRequest{Status: domain.Some("new")})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusNew, back.Status)
}

func TestLeadService_UpdatePartial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db, false)
	ctx := context.Background()

	agent := testutil.CreateCrmUser(t, db, domain.CrmRoleAgent)
	notes := "call after 5pm"
	lead := testutil.CreateLead(t, db, func(l *domain.Lead) { l.Notes = &notes })

	updated, err := svc.Update(ctx, lead.ID, &domain.UpdateLeadRequest{
		Email:      domain.Some(" NEW@Example.com "),
		Notes:      domain.Null[string](),
		AssignedTo: domain.Some[interface{}](fmt.Sprintf("%d", agent.ID)),
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Nil(t, updated.Notes)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, agent.ID, *updated.AssignedTo)
	assert.Equal(t, lead.Name, updated.Name, "absent fields are untouched")
	assert.Equal(t, lead.Status, updated.Status)

	cleared, err := svc.Update(ctx, lead.ID, &domain.UpdateLeadRequest{AssignedTo: domain.Null[interface{}]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.AssignedTo)

	tests := []struct {
		name    string
		patch   domain.UpdateLeadRequest
		wantErr error
	}{
		{"blank name", domain.UpdateLeadRequest{Name: domain.Some(" ")}, service.ErrInvalidName},
		{"empty email", domain.UpdateLeadRequest{Email: domain.Some("")}, service.ErrInvalidEmail},
		{"malformed email", domain.UpdateLeadRequest{Email: domain.Some("nope")}, service.ErrInvalidEmailFormat},
		{"bad source", domain.UpdateLeadRequest{Source: domain.Some("fax")}, service.ErrInvalidSource},
		{"bad status", domain.UpdateLeadRequest{Status: domain.Some("archived")}, service.ErrInvalidLeadStatus},
		{"non-numeric assignee", domain.UpdateLeadRequest{AssignedTo: domain.Some[interface{}]("abc")}, service.ErrInvalidAssignedTo},
		{"unknown assignee", domain.UpdateLeadRequest{AssignedTo: domain.Some[interface{}](float64(424242))}, service.ErrAssignedUserNotFound},
		{"name too long", domain.UpdateLeadRequest{Name: domain.Some(strings.Repeat("a", 256))}, service.ErrNameTooLong},
		{"phone too long", domain.UpdateLeadRequest{Phone: domain.Some(strings.Repeat("1-", 30))}, service.ErrInvalidPhone},
		{"preferred contact too long", domain.UpdateLeadRequest{PreferredContact: domain.Some(strings.Repeat("x", 51))}, service.ErrInvalidPreferredContact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, lead.ID, &tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// A rejected field leaves the valid ones in the same patch unwritten
	_, err = svc.Update(ctx, lead.ID, &domain.UpdateLeadRequest{
		Name:   domain.Some("Changed"),
		Status: domain.Some("bogus"),
	})
	require.ErrorIs(t, err, service.ErrInvalidLeadStatus)
	got, err := svc.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.Name, got.Name)

	_, err = svc.Update(ctx, 999999, &domain.UpdateLeadRequest{Status: domain.Some("won")})
	assert.ErrorIs(t, err, service.ErrLeadNotFound)
}

func TestLeadService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := createLeadService(db, false)

	agent := testutil.CreateCrmUser(t, db, domain.CrmRoleAgent)
	admin := testutil.CreateCrmUser(t, db, domain.CrmRoleAdmin)
	product := testutil.CreateProduct(t, db, "signs")

	t.Run("requires authentication", func(t *testing.T) {
		lead := testutil.CreateLead(t, db)
		_, err := svc.Delete(context.Background(), lead.ID, false)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("agents are forbidden", func(t *testing.T) {
		lead := testutil.CreateLead(t, db)
		_, err := svc.Delete(testutil.CrmContext(agent), lead.ID, false)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("missing lead", func(t *testing.T) {
		_, err := svc.Delete(testutil.CrmContext(admin), 999999, false)
		assert.ErrorIs(t, err, service.ErrLeadNotFound)
	})

	t.Run("restricts when dependents exist", func(t *testing.T) {
		lead := testutil.CreateLead(t, db)
		testutil.CreateQuote(t, db, lead.ID, product.ID, domain.QuoteStatusDraft)

		_, err := svc.Delete(testutil.CrmContext(admin), lead.ID, false)
		assert.ErrorIs(t, err, service.ErrLeadHasDependents)

		var n int64
		require.NoError(t, db.Model(&domain.Lead{}).Where("id = ?", lead.ID).Count(&n).Error)
		assert.Equal(t, int64(1), n)
	})

	t.Run("cascade removes dependents", func(t *testing.T) {
		lead := testutil.CreateLead(t, db)
		testutil.CreateQuote(t, db, lead.ID, product.ID, domain.QuoteStatusSent)
		leadID := lead.ID
		require.NoError(t, db.Create(&domain.ChatSession{
			LeadID:   &leadID,
			Messages: []domain.ChatMessage{{Role: "user", Content: "hi"}},
			Status:   domain.ChatSessionStatusActive,
		}).Error)

		res, err := svc.Delete(testutil.AdminContext(), lead.ID, true)
		require.NoError(t, err)
		assert.Equal(t, lead.ID, res.Lead.ID)

		var quotes, sessions int64
		require.NoError(t, db.Model(&domain.Quote{}).Where("lead_id = ?", lead.ID).Count(&quotes).Error)
		require.NoError(t, db.Model(&domain.ChatSession{}).Where("lead_id = ?", lead.ID).Count(&sessions).Error)
		assert.Zero(t, quotes)
		assert.Zero(t, sessions)
	})

	t.Run("configured cascade", func(t *testing.T) {
		cascading := createLeadService(db, true)
		lead := testutil.CreateLead(t, db)
		testutil.CreateQuote(t, db, lead.ID, product.ID, domain.QuoteStatusDraft)

		_, err := cascading.Delete(testutil.CrmContext(admin), lead.ID, false)
		require.NoError(t, err)
		_, err = cascading.Get(context.Background(), lead.ID)
		assert.ErrorIs(t, err, service.ErrLeadNotFound)
	})
}
