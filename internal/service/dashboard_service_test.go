package service_test

import (
	"context"
	"testing"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/extremegraphics/lead-pipeline-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createDashboardService(db *gorm.DB) *service.DashboardService {
	return service.NewDashboardService(repository.NewLeadRepository(db), repository.NewQuoteRepository(db), zap.NewNop())
}

func TestDashboardService_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)

	stats, err := createDashboardService(db).Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalLeads)
	assert.Zero(t, stats.ConversionRate)
	assert.Empty(t, stats.RecentLeads)
	assert.Equal(t, map[string]int{"new": 0, "contacted": 0, "qualified": 0, "won": 0, "lost": 0}, stats.LeadsByStatus)
	assert.Empty(t, stats.LeadsBySource)
}

func TestDashboardService_Stats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	product := testutil.CreateProduct(t, db, "signs")

	statuses := []domain.LeadStatus{
		domain.LeadStatusNew, domain.LeadStatusNew, domain.LeadStatusContacted,
		domain.LeadStatusQualified, domain.LeadStatusProposal, domain.LeadStatusWon,
		domain.LeadStatusWon, domain.LeadStatusLost,
	}
	var leads []*domain.Lead
	for i, status := range statuses {
		source := domain.LeadSourceWizard
		if i%2 == 0 {
			source = domain.LeadSourceChat
		}
		leads = append(leads, testutil.CreateLead(t, db, testutil.WithStatus(status), testutil.WithSource(source)))
	}

	testutil.CreateQuote(t, db, leads[0].ID, product.ID, domain.QuoteStatusDraft)
	testutil.CreateQuote(t, db, leads[1].ID, product.ID, domain.QuoteStatusSent)
	testutil.CreateQuote(t, db, leads[2].ID, product.ID, domain.QuoteStatusAccepted)
	testutil.CreateQuote(t, db, leads[3].ID, product.ID, domain.QuoteStatusRejected)

	stats, err := createDashboardService(db).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, stats.TotalLeads)
	assert.Equal(t, 2, stats.NewLeads)
	assert.Equal(t, 1, stats.ContactedLeads)
	assert.Equal(t, 1, stats.QualifiedLeads)
	assert.Equal(t, 2, stats.WonLeads)
	assert.Equal(t, 1, stats.LostLeads)
	assert.Equal(t, 4, stats.TotalQuotes)
	assert.Equal(t, 2, stats.ActiveQuotes)
	assert.Equal(t, 1, stats.AcceptedQuotes)
	assert.Equal(t, float64(2)/float64(8)*100, stats.ConversionRate)

	_, hasProposal := stats.LeadsByStatus["proposal"]
	assert.False(t, hasProposal)
	assert.Equal(t, 2, stats.LeadsByStatus["won"])
	assert.Equal(t, map[string]int{"chat": 4, "wizard": 4}, stats.LeadsBySource)

	require.Len(t, stats.RecentLeads, 5)
	assert.Equal(t, leads[len(leads)-1].ID, stats.RecentLeads[0].ID)
}
