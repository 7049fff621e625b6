package service

import (
	"context"
	"fmt"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/mapper"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"go.uber.org/zap"
)

const recentLeadsLimit = 5

// leadsByStatusKeys are the statuses broken out on the dashboard.
// proposal is counted in the total but not listed.
var leadsByStatusKeys = []domain.LeadStatus{
	domain.LeadStatusNew,
	domain.LeadStatusContacted,
	domain.LeadStatusQualified,
	domain.LeadStatusWon,
	domain.LeadStatusLost,
}

// DashboardService derives pipeline statistics from a full scan of leads and quotes
type DashboardService struct {
	leadRepo  *repository.LeadRepository
	quoteRepo *repository.QuoteRepository
	logger    *zap.Logger
}

func NewDashboardService(leadRepo *repository.LeadRepository, quoteRepo *repository.QuoteRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		leadRepo:  leadRepo,
		quoteRepo: quoteRepo,
		logger:    logger,
	}
}

// Stats computes the dashboard numbers. Either scan failing fails the call.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStatsDTO, error) {
	leads, err := s.leadRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}
	quotes, err := s.quoteRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load quotes: %w", err)
	}

	return computeStats(leads, quotes), nil
}

// computeStats expects leads ordered newest first
func computeStats(leads []domain.Lead, quotes []domain.Quote) *domain.DashboardStatsDTO {
	statusCounts := make(map[domain.LeadStatus]int)
	bySource := make(map[string]int)
	for i := range leads {
		statusCounts[leads[i].Status]++
		source := string(leads[i].Source)
		if source == "" {
			source = "unknown"
		}
		bySource[source]++
	}

	byStatus := make(map[string]int, len(leadsByStatusKeys))
	for _, status := range leadsByStatusKeys {
		byStatus[string(status)] = statusCounts[status]
	}

	stats := &domain.DashboardStatsDTO{
		TotalLeads:     len(leads),
		NewLeads:       statusCounts[domain.LeadStatusNew],
		ContactedLeads: statusCounts[domain.LeadStatusContacted],
		QualifiedLeads: statusCounts[domain.LeadStatusQualified],
		WonLeads:       statusCounts[domain.LeadStatusWon],
		LostLeads:      statusCounts[domain.LeadStatusLost],
		TotalQuotes:    len(quotes),
		LeadsByStatus:  byStatus,
		LeadsBySource:  bySource,
		RecentLeads:    make([]domain.RecentLeadDTO, 0, recentLeadsLimit),
	}

	for i := range quotes {
		if quotes[i].Status.IsActive() {
			stats.ActiveQuotes++
		}
		if quotes[i].Status == domain.QuoteStatusAccepted {
			stats.AcceptedQuotes++
		}
	}

	if stats.TotalLeads > 0 {
		stats.ConversionRate = float64(stats.WonLeads) / float64(stats.TotalLeads) * 100
	}

	for i := 0; i < len(leads) && i < recentLeadsLimit; i++ {
		stats.RecentLeads = append(stats.RecentLeads, mapper.ToRecentLeadDTO(&leads[i]))
	}

	return stats
}
