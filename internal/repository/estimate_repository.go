package repository

import (
	"context"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"gorm.io/gorm"
)

type EstimateRepository struct {
	db *gorm.DB
}

func NewEstimateRepository(db *gorm.DB) *EstimateRepository {
	return &EstimateRepository{db: db}
}

func (r *EstimateRepository) Create(ctx context.Context, estimate *domain.Estimate) error {
	return r.db.WithContext(ctx).Create(estimate).Error
}

// GetByID loads an estimate regardless of owner. Callers decide visibility.
func (r *EstimateRepository) GetByID(ctx context.Context, id int64) (*domain.Estimate, error) {
	var estimate domain.Estimate
	err := r.db.WithContext(ctx).First(&estimate, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// GetOwned loads an estimate only if it belongs to userID
func (r *EstimateRepository) GetOwned(ctx context.Context, id int64, userID string) (*domain.Estimate, error) {
	var estimate domain.Estimate
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&estimate).Error
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

func (r *EstimateRepository) QuoteNumberExists(ctx context.Context, quoteNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Estimate{}).
		Where("quote_number = ?", quoteNumber).
		Count(&count).Error
	return count > 0, err
}

// Save writes every column of an estimate that was loaded through GetOwned
func (r *EstimateRepository) Save(ctx context.Context, estimate *domain.Estimate) error {
	return r.db.WithContext(ctx).Save(estimate).Error
}

func (r *EstimateRepository) DeleteOwned(ctx context.Context, id int64, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Estimate{})
	return result.RowsAffected, result.Error
}

func (r *EstimateRepository) ListByOwner(ctx context.Context, userID string, filter domain.EstimateFilter, offset, limit int) ([]domain.Estimate, int64, error) {
	var estimates []domain.Estimate
	var total int64

	query := r.db.WithContext(ctx).
		Model(&domain.Estimate{}).
		Where("user_id = ?", userID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = matchAny(query, filter.Search, "client_name", "client_email", "quote_number")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := page(query, "estimates", offset, limit).Find(&estimates).Error
	return estimates, total, err
}
