package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/auth"
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/mapper"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteService manages priced proposals against a lead and a product
type QuoteService struct {
	quoteRepo   *repository.QuoteRepository
	leadRepo    *repository.LeadRepository
	productRepo *repository.ProductRepository
	logger      *zap.Logger
}

func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	leadRepo *repository.LeadRepository,
	productRepo *repository.ProductRepository,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:   quoteRepo,
		leadRepo:    leadRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create validates references and stores a draft quote. Nothing is written
// when any check fails.
func (s *QuoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.QuoteDTO, error) {
	if req.LeadID == nil {
		return nil, ErrMissingLeadID
	}
	if req.ProductID == nil {
		return nil, ErrMissingProductID
	}
	if req.EstimatedPrice == nil {
		return nil, ErrMissingEstimatedPrice
	}
	if !isWholePositive(*req.EstimatedPrice) || *req.EstimatedPrice >= math.MaxInt64 {
		return nil, ErrInvalidEstimatedPrice
	}
	quantity := 1
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		quantity = *req.Quantity
	}

	leadExists, err := s.leadRepo.Exists(ctx, *req.LeadID)
	if err != nil {
		return nil, fmt.Errorf("failed to check lead: %w", err)
	}
	if !leadExists {
		return nil, ErrLeadReferenceNotFound
	}

	productExists, err := s.productRepo.Exists(ctx, *req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check product: %w", err)
	}
	if !productExists {
		return nil, ErrProductReferenceNotFound
	}

	quote := &domain.Quote{
		LeadID:            *req.LeadID,
		ProductID:         *req.ProductID,
		Quantity:          quantity,
		Size:              optionalTextPtr(req.Size),
		BudgetRange:       optionalTextPtr(req.BudgetRange),
		ArtworkPreference: optionalTextPtr(req.ArtworkPreference),
		EstimatedPrice:    int64(*req.EstimatedPrice),
		Status:            domain.QuoteStatusDraft,
		ValidUntil:        req.ValidUntil,
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	s.logger.Info("quote created",
		zap.Int64("quote_id", quote.ID),
		zap.Int64("lead_id", quote.LeadID))

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

func (s *QuoteService) List(ctx context.Context, filter domain.QuoteFilter, page, limit int) (*domain.QuoteListResponse, error) {
	p := NewPagination(page, limit)

	quotes, total, err := s.quoteRepo.List(ctx, filter, p.Offset(), p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	dtos := make([]domain.QuoteDTO, len(quotes))
	for i := range quotes {
		dtos[i] = mapper.ToQuoteDTO(&quotes[i])
	}

	return &domain.QuoteListResponse{
		Quotes:     dtos,
		Total:      total,
		Page:       p.Page,
		TotalPages: p.TotalPages(total),
	}, nil
}

func (s *QuoteService) Get(ctx context.Context, id int64) (*domain.QuoteDetailDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	dto := mapper.ToQuoteDetailDTO(quote)
	return &dto, nil
}

// Update applies a partial update to a quote
func (s *QuoteService) Update(ctx context.Context, id int64, req *domain.UpdateQuoteRequest) (*domain.QuoteDTO, error) {
	if _, err := s.quoteRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	fields := map[string]interface{}{"updated_at": time.Now().UTC()}

	if req.Status.Set {
		status := domain.QuoteStatus(req.Status.Value)
		if req.Status.Null || !status.IsValid() {
			return nil, ErrInvalidQuoteStatus
		}
		fields["status"] = status
	}
	if req.EstimatedPrice.Set {
		if req.EstimatedPrice.Null || !isWholePositive(req.EstimatedPrice.Value) || req.EstimatedPrice.Value >= math.MaxInt64 {
			return nil, ErrInvalidEstimatedPrice
		}
		fields["estimated_price"] = int64(req.EstimatedPrice.Value)
	}
	if req.Quantity.Set {
		if req.Quantity.Null || req.Quantity.Value < 1 {
			return nil, ErrInvalidQuantity
		}
		fields["quantity"] = req.Quantity.Value
	}
	if req.Size.Set {
		fields["size"] = optionalText(req.Size.Value)
	}
	if req.BudgetRange.Set {
		fields["budget_range"] = optionalText(req.BudgetRange.Value)
	}
	if req.ArtworkPreference.Set {
		fields["artwork_preference"] = optionalText(req.ArtworkPreference.Value)
	}
	if req.ValidUntil.Set {
		if req.ValidUntil.Null {
			fields["valid_until"] = nil
		} else {
			fields["valid_until"] = req.ValidUntil.Value.UTC()
		}
	}

	if err := s.quoteRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload quote: %w", err)
	}

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// Delete removes a quote. Admin only.
func (s *QuoteService) Delete(ctx context.Context, id int64) (*domain.QuoteDTO, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !user.IsAdmin() {
		return nil, ErrForbidden
	}

	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	if err := s.quoteRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete quote: %w", err)
	}

	s.logger.Info("quote deleted", zap.Int64("quote_id", id), zap.String("deleted_by", user.AuthUserID))

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// ProductService serves the public product catalog
type ProductService struct {
	productRepo *repository.ProductRepository
}

func NewProductService(productRepo *repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List returns active products, optionally restricted to one category
func (s *ProductService) List(ctx context.Context, category string) ([]domain.ProductDTO, error) {
	products, err := s.productRepo.ListActive(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]domain.ProductDTO, len(products))
	for i := range products {
		dtos[i] = mapper.ToProductDTO(&products[i])
	}
	return dtos, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	dto := mapper.ToProductDTO(product)
	return &dto, nil
}
