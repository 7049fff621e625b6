package repository

import (
	"context"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"gorm.io/gorm"
)

type CrmUserRepository struct {
	db *gorm.DB
}

func NewCrmUserRepository(db *gorm.DB) *CrmUserRepository {
	return &CrmUserRepository{db: db}
}

func (r *CrmUserRepository) Create(ctx context.Context, user *domain.CrmUser) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *CrmUserRepository) GetByID(ctx context.Context, id int64) (*domain.CrmUser, error) {
	var user domain.CrmUser
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAuthUserID resolves the CRM profile of an authenticated identity
func (r *CrmUserRepository) GetByAuthUserID(ctx context.Context, authUserID string) (*domain.CrmUser, error) {
	var user domain.CrmUser
	err := r.db.WithContext(ctx).First(&user, "auth_user_id = ?", authUserID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *CrmUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CrmUser{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	return count > 0, err
}

func (r *CrmUserRepository) AuthUserLinked(ctx context.Context, authUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CrmUser{}).Where("auth_user_id = ?", authUserID).Count(&count).Error
	return count > 0, err
}

func (r *CrmUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CrmUser{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *CrmUserRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.CrmUser{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *CrmUserRepository) List(ctx context.Context, offset, limit int) ([]domain.CrmUser, int64, error) {
	var users []domain.CrmUser
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.CrmUser{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := page(query, "crm_users", offset, limit).Find(&users).Error
	return users, total, err
}
