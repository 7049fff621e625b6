package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/auth"
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/mapper"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxQuoteNumberAttempts = 10

// EstimateService manages itemized estimates. Every estimate belongs to the
// authenticated identity that created it and is invisible to everyone else.
type EstimateService struct {
	estimateRepo *repository.EstimateRepository
	logger       *zap.Logger
	// nextNumber yields a candidate in [100000, 999999]
	nextNumber func() int
}

func NewEstimateService(estimateRepo *repository.EstimateRepository, logger *zap.Logger) *EstimateService {
	return &EstimateService{
		estimateRepo: estimateRepo,
		logger:       logger,
		nextNumber: func() int {
			return 100000 + rand.IntN(900000)
		},
	}
}

func ownerFromContext(ctx context.Context) (*auth.UserContext, error) {
	user, ok := auth.FromContext(ctx)
	if !ok || user.AuthUserID == "" {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// generateQuoteNumber tries sequential random candidates until one is free
func (s *EstimateService) generateQuoteNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxQuoteNumberAttempts; attempt++ {
		candidate := fmt.Sprintf("EG-%06d", s.nextNumber())
		exists, err := s.estimateRepo.QuoteNumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check quote number: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrQuoteNumberUnavailable
}

func validateEstimateItems(items []domain.EstimateItem) error {
	if len(items) == 0 {
		return ErrInvalidItems
	}
	for i := range items {
		if isBlank(items[i].Description) {
			return ErrInvalidItems
		}
		if err := validate.Struct(items[i]); err != nil {
			return ErrInvalidItems
		}
	}
	return nil
}

func (s *EstimateService) Create(ctx context.Context, req *domain.CreateEstimateRequest) (*domain.EstimateDTO, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if req.UserID.Set || req.UserIDSnake.Set {
		return nil, ErrUserIDNotAllowed
	}
	if isBlank(req.ClientName) {
		return nil, ErrMissingClientName
	}
	if isBlank(req.ClientEmail) {
		return nil, ErrMissingClientEmail
	}
	email := NormalizeEmail(req.ClientEmail)
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if req.Items == nil {
		return nil, ErrMissingItems
	}
	if err := validateEstimateItems(req.Items); err != nil {
		return nil, err
	}
	if req.Subtotal == nil || *req.Subtotal < 0 {
		return nil, ErrInvalidSubtotal
	}
	if req.Total == nil || *req.Total < 0 {
		return nil, ErrInvalidTotal
	}
	for _, amount := range []*float64{req.TaxRate, req.TaxAmount, req.ShippingCost} {
		if amount != nil && *amount < 0 {
			return nil, ErrInvalidAmount
		}
	}
	status := domain.QuoteStatusDraft
	if req.Status != "" {
		status = domain.QuoteStatus(req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidQuoteStatus
		}
	}

	quoteNumber, err := s.generateQuoteNumber(ctx)
	if err != nil {
		if errors.Is(err, ErrQuoteNumberUnavailable) {
			s.logger.Error("quote number space exhausted", zap.Int("attempts", maxQuoteNumberAttempts))
		}
		return nil, err
	}

	estimate := &domain.Estimate{
		QuoteNumber:   quoteNumber,
		ClientName:    strings.TrimSpace(req.ClientName),
		ClientEmail:   email,
		ClientPhone:   optionalTextPtr(req.ClientPhone),
		ClientAddress: optionalTextPtr(req.ClientAddress),
		Items:         req.Items,
		Subtotal:      *req.Subtotal,
		TaxRate:       valueOrZero(req.TaxRate),
		TaxAmount:     valueOrZero(req.TaxAmount),
		ShippingCost:  valueOrZero(req.ShippingCost),
		Total:         *req.Total,
		Notes:         optionalTextPtr(req.Notes),
		ValidUntil:    req.ValidUntil,
		Status:        status,
		UserID:        owner.AuthUserID,
		PDFFile:       optionalTextPtr(req.PDFFile),
	}

	if err := s.estimateRepo.Create(ctx, estimate); err != nil {
		return nil, fmt.Errorf("failed to create estimate: %w", err)
	}

	s.logger.Info("estimate created",
		zap.Int64("estimate_id", estimate.ID),
		zap.String("quote_number", estimate.QuoteNumber))

	dto := mapper.ToEstimateDTO(estimate)
	return &dto, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// List returns the caller's estimates only
func (s *EstimateService) List(ctx context.Context, filter domain.EstimateFilter, page, limit int) (*domain.EstimateListResponse, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p := NewPagination(page, limit)

	estimates, total, err := s.estimateRepo.ListByOwner(ctx, owner.AuthUserID, filter, p.Offset(), p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}

	dtos := make([]domain.EstimateDTO, len(estimates))
	for i := range estimates {
		dtos[i] = mapper.ToEstimateDTO(&estimates[i])
	}

	return &domain.EstimateListResponse{
		Estimates:  dtos,
		Total:      total,
		Page:       p.Page,
		TotalPages: p.TotalPages(total),
	}, nil
}

// Get returns an estimate. Another owner's estimate is FORBIDDEN.
func (s *EstimateService) Get(ctx context.Context, id int64) (*domain.EstimateDTO, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	estimate, err := s.estimateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstimateNotFound
		}
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}
	if estimate.UserID != owner.AuthUserID {
		return nil, ErrForbidden
	}

	dto := mapper.ToEstimateDTO(estimate)
	return &dto, nil
}

// Update applies a partial update to one of the caller's estimates.
// Another owner's estimate reads as not found.
func (s *EstimateService) Update(ctx context.Context, id int64, req *domain.UpdateEstimateRequest) (*domain.EstimateDTO, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.UserID.Set || req.UserIDSnake.Set {
		return nil, ErrUserIDNotAllowed
	}

	estimate, err := s.estimateRepo.GetOwned(ctx, id, owner.AuthUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstimateNotFound
		}
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}

	if err := applyEstimatePatch(estimate, req); err != nil {
		return nil, err
	}
	estimate.UpdatedAt = time.Now().UTC()

	if err := s.estimateRepo.Save(ctx, estimate); err != nil {
		return nil, fmt.Errorf("failed to update estimate: %w", err)
	}

	dto := mapper.ToEstimateDTO(estimate)
	return &dto, nil
}

func applyEstimatePatch(e *domain.Estimate, req *domain.UpdateEstimateRequest) error {
	if req.ClientName.Set {
		if req.ClientName.Null || isBlank(req.ClientName.Value) {
			return ErrMissingClientName
		}
		e.ClientName = strings.TrimSpace(req.ClientName.Value)
	}
	if req.ClientEmail.Set {
		if req.ClientEmail.Null || isBlank(req.ClientEmail.Value) {
			return ErrMissingClientEmail
		}
		email := NormalizeEmail(req.ClientEmail.Value)
		if !IsValidEmail(email) {
			return ErrInvalidEmail
		}
		e.ClientEmail = email
	}
	if req.ClientPhone.Set {
		e.ClientPhone = optionalText(req.ClientPhone.Value)
	}
	if req.ClientAddress.Set {
		e.ClientAddress = optionalText(req.ClientAddress.Value)
	}
	if req.Items.Set {
		if err := validateEstimateItems(req.Items.Value); err != nil {
			return err
		}
		e.Items = req.Items.Value
	}
	if req.Subtotal.Set {
		if req.Subtotal.Null || req.Subtotal.Value < 0 {
			return ErrInvalidSubtotal
		}
		e.Subtotal = req.Subtotal.Value
	}
	if req.Total.Set {
		if req.Total.Null || req.Total.Value < 0 {
			return ErrInvalidTotal
		}
		e.Total = req.Total.Value
	}
	for _, f := range []struct {
		in  domain.Optional[float64]
		out *float64
	}{
		{req.TaxRate, &e.TaxRate},
		{req.TaxAmount, &e.TaxAmount},
		{req.ShippingCost, &e.ShippingCost},
	} {
		if !f.in.Set {
			continue
		}
		if f.in.Value < 0 {
			return ErrInvalidAmount
		}
		*f.out = f.in.Value
	}
	if req.Status.Set {
		status := domain.QuoteStatus(req.Status.Value)
		if req.Status.Null || !status.IsValid() {
			return ErrInvalidQuoteStatus
		}
		e.Status = status
	}
	if req.Notes.Set {
		e.Notes = optionalText(req.Notes.Value)
	}
	if req.PDFFile.Set {
		e.PDFFile = optionalText(req.PDFFile.Value)
	}
	if req.ValidUntil.Set {
		if req.ValidUntil.Null {
			e.ValidUntil = nil
		} else {
			v := req.ValidUntil.Value.UTC()
			e.ValidUntil = &v
		}
	}
	return nil
}

// Delete removes one of the caller's estimates
func (s *EstimateService) Delete(ctx context.Context, id int64) (*domain.EstimateDTO, error) {
	owner, err := ownerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	estimate, err := s.estimateRepo.GetOwned(ctx, id, owner.AuthUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEstimateNotFound
		}
		return nil, fmt.Errorf("failed to get estimate: %w", err)
	}

	deleted, err := s.estimateRepo.DeleteOwned(ctx, id, owner.AuthUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete estimate: %w", err)
	}
	if deleted == 0 {
		return nil, ErrEstimateNotFound
	}

	dto := mapper.ToEstimateDTO(estimate)
	return &dto, nil
}
