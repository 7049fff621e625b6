package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/auth"
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/mapper"
	"github.com/extremegraphics/lead-pipeline-api/internal/metrics"
	"github.com/extremegraphics/lead-pipeline-api/internal/phone"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeadService owns lead records and their status transitions
type LeadService struct {
	leadRepo      *repository.LeadRepository
	userRepo      *repository.CrmUserRepository
	storage       storage.Storage
	phones        *phone.Normalizer
	metrics       *metrics.Metrics
	cascadeDelete bool
	logger        *zap.Logger
}

// LeadServiceOptions carries the optional collaborators of LeadService
type LeadServiceOptions struct {
	Storage       storage.Storage
	Phones        *phone.Normalizer
	Metrics       *metrics.Metrics
	CascadeDelete bool
}

func NewLeadService(
	leadRepo *repository.LeadRepository,
	userRepo *repository.CrmUserRepository,
	opts LeadServiceOptions,
	logger *zap.Logger,
) *LeadService {
	phones := opts.Phones
	if phones == nil {
		phones = phone.NewNormalizer(phone.DefaultRegion)
	}
	return &LeadService{
		leadRepo:      leadRepo,
		userRepo:      userRepo,
		storage:       opts.Storage,
		phones:        phones,
		metrics:       opts.Metrics,
		cascadeDelete: opts.CascadeDelete,
		logger:        logger,
	}
}

// Create validates and stores a lead captured by a public form
func (s *LeadService) Create(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadDTO, error) {
	lead, err := s.buildLead(req)
	if err != nil {
		return nil, err
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return s.created(lead), nil
}

// CreateWithChatSession validates req and stores the lead together with the
// chat session that captured it. session.LeadID is set to the new lead.
func (s *LeadService) CreateWithChatSession(ctx context.Context, req *domain.CreateLeadRequest, session *domain.ChatSession) (*domain.LeadDTO, error) {
	lead, err := s.buildLead(req)
	if err != nil {
		return nil, err
	}

	if err := s.leadRepo.CreateWithChatSession(ctx, lead, session); err != nil {
		return nil, fmt.Errorf("failed to create lead with chat session: %w", err)
	}

	return s.created(lead), nil
}

func (s *LeadService) created(lead *domain.Lead) *domain.LeadDTO {
	s.metrics.LeadCreated(string(lead.Source))
	s.logger.Info("lead created",
		zap.Int64("lead_id", lead.ID),
		zap.String("source", string(lead.Source)))

	dto := mapper.ToLeadDTO(lead)
	return &dto
}

func (s *LeadService) buildLead(req *domain.CreateLeadRequest) (*domain.Lead, error) {
	if req.Name == "" || req.Email == "" || req.Source == "" {
		return nil, ErrMissingRequiredFields
	}
	if isBlank(req.Name) {
		return nil, ErrInvalidName
	}
	email := NormalizeEmail(req.Email)
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	source := domain.LeadSource(strings.TrimSpace(req.Source))
	if !source.IsValid() {
		return nil, ErrInvalidSource
	}

	lead := &domain.Lead{
		Name:             strings.TrimSpace(req.Name),
		Email:            email,
		Source:           source,
		Status:           domain.LeadStatusNew,
		Notes:            optionalText(req.Notes),
		PreferredContact: optionalText(req.PreferredContact),
		TicketNumber:     optionalText(req.TicketNumber),
		CoverImage:       optionalText(req.CoverImage),
	}
	if p := optionalText(req.Phone); p != nil {
		normalized := s.phones.Normalize(*p)
		lead.Phone = &normalized
	}
	if err := checkLeadWidths(map[string]interface{}{
		"name":              lead.Name,
		"email":             lead.Email,
		"phone":             lead.Phone,
		"preferred_contact": lead.PreferredContact,
		"ticket_number":     lead.TicketNumber,
	}); err != nil {
		return nil, err
	}
	return lead, nil
}

// List returns one page of leads, newest first
func (s *LeadService) List(ctx context.Context, filter domain.LeadFilter, page, limit int) (*domain.LeadListResponse, error) {
	p := NewPagination(page, limit)

	leads, total, err := s.leadRepo.List(ctx, filter, p.Offset(), p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	return &domain.LeadListResponse{
		Leads:      mapper.ToLeadDTOs(leads),
		Total:      total,
		Page:       p.Page,
		TotalPages: p.TotalPages(total),
	}, nil
}

// Get returns a lead with its assigned CRM user resolved
func (s *LeadService) Get(ctx context.Context, id int64) (*domain.LeadDetailDTO, error) {
	lead, err := s.leadRepo.GetWithAssignee(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	dto := mapper.ToLeadDetailDTO(lead)
	return &dto, nil
}

// Update applies a partial update. Every provided field is validated before
// the single UPDATE is issued; the write is unconditional, so repeating the
// same patch is harmless and concurrent patches resolve last-write-wins.
func (s *LeadService) Update(ctx context.Context, id int64, req *domain.UpdateLeadRequest) (*domain.LeadDTO, error) {
	exists, err := s.leadRepo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check lead: %w", err)
	}
	if !exists {
		return nil, ErrLeadNotFound
	}

	fields, err := s.leadUpdateFields(ctx, req)
	if err != nil {
		return nil, err
	}
	fields["updated_at"] = time.Now().UTC()

	if err := s.leadRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to reload lead: %w", err)
	}

	if status, ok := fields["status"]; ok {
		s.metrics.LeadStatusSet(string(status.(domain.LeadStatus)))
		s.logger.Debug("lead status set",
			zap.Int64("lead_id", id),
			zap.String("status", string(lead.Status)))
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

func (s *LeadService) leadUpdateFields(ctx context.Context, req *domain.UpdateLeadRequest) (map[string]interface{}, error) {
	fields := make(map[string]interface{})

	if req.Name.Set {
		if req.Name.Null || isBlank(req.Name.Value) {
			return nil, ErrInvalidName
		}
		fields["name"] = strings.TrimSpace(req.Name.Value)
	}

	if req.Email.Set {
		if req.Email.Null || isBlank(req.Email.Value) {
			return nil, ErrInvalidEmail
		}
		email := NormalizeEmail(req.Email.Value)
		if !IsValidEmail(email) {
			return nil, ErrInvalidEmailFormat
		}
		fields["email"] = email
	}

	if req.Phone.Set {
		if p := optionalText(req.Phone.Value); p != nil {
			fields["phone"] = s.phones.Normalize(*p)
		} else {
			fields["phone"] = nil
		}
	}

	if req.Source.Set {
		source := domain.LeadSource(req.Source.Value)
		if req.Source.Null || !source.IsValid() {
			return nil, ErrInvalidSource
		}
		fields["source"] = source
	}

	if req.Status.Set {
		status := domain.LeadStatus(req.Status.Value)
		if req.Status.Null || !status.IsValid() {
			return nil, ErrInvalidLeadStatus
		}
		fields["status"] = status
	}

	if req.AssignedTo.Set {
		if req.AssignedTo.Null {
			fields["assigned_to"] = nil
		} else {
			userID, ok := parseUserReference(req.AssignedTo.Value)
			if !ok {
				return nil, ErrInvalidAssignedTo
			}
			exists, err := s.userRepo.Exists(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to check assigned user: %w", err)
			}
			if !exists {
				return nil, ErrAssignedUserNotFound
			}
			fields["assigned_to"] = userID
		}
	}

	for column, field := range map[string]domain.Optional[string]{
		"notes":             req.Notes,
		"ticket_number":     req.TicketNumber,
		"cover_image":       req.CoverImage,
		"preferred_contact": req.PreferredContact,
	} {
		if field.Set {
			fields[column] = optionalText(field.Value)
		}
	}

	if err := checkLeadWidths(fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Delete removes a lead. Admin only. Leads with quotes, files or chat
// sessions are refused unless cascade is requested or enabled by config.
func (s *LeadService) Delete(ctx context.Context, id int64, cascade bool) (*domain.DeleteLeadResponse, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.IsAdmin() {
		return nil, ErrForbidden
	}

	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if cascade || s.cascadeDelete {
		refs, err := s.leadRepo.DeleteCascade(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to delete lead: %w", err)
		}
		s.removeBlobs(ctx, refs)
	} else {
		dependents, err := s.leadRepo.CountDependents(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to count lead dependents: %w", err)
		}
		if dependents > 0 {
			return nil, ErrLeadHasDependents
		}
		if err := s.leadRepo.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("failed to delete lead: %w", err)
		}
	}

	s.logger.Info("lead deleted",
		zap.Int64("lead_id", id),
		zap.String("deleted_by", user.AuthUserID),
		zap.Bool("cascade", cascade || s.cascadeDelete))

	return &domain.DeleteLeadResponse{
		Message: "Lead deleted successfully",
		Lead:    mapper.ToLeadDTO(lead),
	}, nil
}

// removeBlobs is best effort; the rows are already gone
func (s *LeadService) removeBlobs(ctx context.Context, refs []string) {
	if s.storage == nil {
		return
	}
	for _, ref := range refs {
		if err := s.storage.Delete(ctx, ref); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to delete file blob", zap.Error(err))
		}
	}
}
