package repository

import (
	"context"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *NoteRepository) GetOwned(ctx context.Context, id int64, userID string) (*domain.Note, error) {
	var note domain.Note
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) Save(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *NoteRepository) DeleteOwned(ctx context.Context, id int64, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Note{})
	return result.RowsAffected, result.Error
}

// ListByOwner returns pinned notes first, then newest
func (r *NoteRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Note, int64, error) {
	var notes []domain.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("pinned DESC").
		Order("updated_at DESC").
		Order("id DESC").
		Find(&notes).Error
	return notes, int64(len(notes)), err
}
