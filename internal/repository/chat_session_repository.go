package repository

import (
	"context"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatSessionRepository struct {
	db *gorm.DB
}

func NewChatSessionRepository(db *gorm.DB) *ChatSessionRepository {
	return &ChatSessionRepository{db: db}
}

func (r *ChatSessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *ChatSessionRepository) GetByID(ctx context.Context, id int64) (*domain.ChatSession, error) {
	var session domain.ChatSession
	err := r.db.WithContext(ctx).
		Preload("Lead").
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// forUpdate row-locks the selected rows until the surrounding transaction ends
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Modify loads the session under a row lock, lets fn change it, and writes it
// back in the same transaction. Concurrent appends to one session serialize.
func (r *ChatSessionRepository) Modify(ctx context.Context, id int64, fn func(*domain.ChatSession) error) (*domain.ChatSession, error) {
	var session domain.ChatSession
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&session, "id = ?", id).Error; err != nil {
			return err
		}
		if err := fn(&session); err != nil {
			return err
		}
		return tx.Omit("Lead").Save(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ChatSessionRepository) List(ctx context.Context, filter domain.ChatSessionFilter, offset, limit int) ([]domain.ChatSession, int64, error) {
	var sessions []domain.ChatSession
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ChatSession{})

	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := page(query, "chat_sessions", offset, limit).
		Preload("Lead").
		Find(&sessions).Error
	return sessions, total, err
}

// CloseIdle closes active sessions not updated since before
func (r *ChatSessionRepository) CloseIdle(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.ChatSession{}).
		Where("status = ? AND updated_at < ?", domain.ChatSessionStatusActive, before).
		Updates(map[string]interface{}{
			"status":     domain.ChatSessionStatusClosed,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}
