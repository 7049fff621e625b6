package repository

import (
	"context"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"gorm.io/gorm"
)

// AuthUserRepository reads the authentication provider's user table
type AuthUserRepository struct {
	db *gorm.DB
}

func NewAuthUserRepository(db *gorm.DB) *AuthUserRepository {
	return &AuthUserRepository{db: db}
}

func (r *AuthUserRepository) GetByID(ctx context.Context, id string) (*domain.AuthUser, error) {
	var user domain.AuthUser
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
