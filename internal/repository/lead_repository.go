package repository

import (
	"context"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// CreateWithChatSession stores lead and a chat session linked to it in one
// transaction. Neither row is kept when either insert fails.
func (r *LeadRepository) CreateWithChatSession(ctx context.Context, lead *domain.Lead, session *domain.ChatSession) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lead).Error; err != nil {
			return err
		}
		session.LeadID = &lead.ID
		return tx.Omit("Lead").Create(session).Error
	})
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetWithAssignee loads a lead and the CRM user it is assigned to, if any
func (r *LeadRepository) GetWithAssignee(ctx context.Context, id int64) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).
		Preload("AssignedUser").
		First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UpdateFields writes the given columns in a single UPDATE. There is no
// version check; concurrent writers race and the last one wins.
func (r *LeadRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *LeadRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Lead{}, "id = ?", id).Error
}

// CountDependents returns how many quotes, files and chat sessions point at the lead
func (r *LeadRepository) CountDependents(ctx context.Context, id int64) (int64, error) {
	var total int64
	for _, model := range []interface{}{&domain.Quote{}, &domain.File{}, &domain.ChatSession{}} {
		var count int64
		if err := r.db.WithContext(ctx).Model(model).Where("lead_id = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

// DeleteCascade removes the lead and every row referencing it in one transaction.
// Storage references of the removed files are returned so blobs can be cleaned up.
func (r *LeadRepository) DeleteCascade(ctx context.Context, id int64) ([]string, error) {
	var fileRefs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.File{}).Where("lead_id = ?", id).Pluck("file_url", &fileRefs).Error; err != nil {
			return err
		}
		if err := tx.Where("lead_id = ?", id).Delete(&domain.File{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lead_id = ?", id).Delete(&domain.Quote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("lead_id = ?", id).Delete(&domain.ChatSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Lead{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return fileRefs, nil
}

func (r *LeadRepository) List(ctx context.Context, filter domain.LeadFilter, offset, limit int) ([]domain.Lead, int64, error) {
	var leads []domain.Lead
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Lead{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	query = matchAny(query, filter.Search, "name", "email", "phone")

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := page(query, "leads", offset, limit).Find(&leads).Error
	return leads, total, err
}

// ListAll returns every lead, newest first
func (r *LeadRepository) ListAll(ctx context.Context) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&leads).Error
	return leads, err
}

// ListWithRelations returns every lead with its chat sessions, quotes
// (and their products) and files
func (r *LeadRepository) ListWithRelations(ctx context.Context) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := r.db.WithContext(ctx).
		Preload("ChatSessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Quotes.Product").
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Find(&leads).Error
	return leads, err
}
