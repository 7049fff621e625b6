package repository

import (
	"context"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"gorm.io/gorm"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

// GetByID loads a quote with its lead and product
func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Preload("Lead").
		Preload("Product").
		First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Quote{}, "id = ?", id).Error
}

func (r *QuoteRepository) List(ctx context.Context, filter domain.QuoteFilter, offset, limit int) ([]domain.Quote, int64, error) {
	var quotes []domain.Quote
	var total int64

	query := r.db.WithContext(ctx).
		Model(&domain.Quote{}).
		Joins("LEFT JOIN leads ON leads.id = quotes.lead_id")

	if filter.LeadID != nil {
		query = query.Where("quotes.lead_id = ?", *filter.LeadID)
	}
	if filter.Status != "" {
		query = query.Where("quotes.status = ?", filter.Status)
	}
	query = matchAny(query, filter.Search, "leads.name")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := page(query, "quotes", offset, limit).
		Preload("Lead").
		Preload("Product").
		Find(&quotes).Error
	return quotes, total, err
}

// ListAll returns every quote without relations
func (r *QuoteRepository) ListAll(ctx context.Context) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := r.db.WithContext(ctx).Find(&quotes).Error
	return quotes, err
}
