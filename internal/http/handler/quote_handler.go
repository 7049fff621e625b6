package handler

import (
	"net/http"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"go.uber.org/zap"
)

type QuoteHandler struct {
	quoteService   *service.QuoteService
	productService *service.ProductService
	logger         *zap.Logger
}

func NewQuoteHandler(quoteService *service.QuoteService, productService *service.ProductService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService:   quoteService,
		productService: productService,
		logger:         logger,
	}
}

// Create godoc
// @Summary Create quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body domain.CreateQuoteRequest true "Quote data"
// @Success 201 {object} domain.QuoteDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /quotes [post]
func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.quoteService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to create quote")
		return
	}

	respondJSON(w, http.StatusCreated, quote)
}

// List godoc
// @Summary List quotes
// @Tags Quotes
// @Produce json
// @Param leadId query int false "Filter by lead"
// @Param status query string false "Filter by status"
// @Param search query string false "Search lead name"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Success 200 {object} domain.QuoteListResponse
// @Security BearerAuth
// @Router /quotes [get]
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	leadID, ok := optionalInt64Query(r, "leadId")
	if !ok {
		handleError(w, h.logger, service.ErrInvalidLeadID, "failed to list quotes")
		return
	}
	filter := domain.QuoteFilter{
		LeadID: leadID,
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	page, limit := pagination(r)

	result, err := h.quoteService.List(r.Context(), filter, page, limit)
	if err != nil {
		handleError(w, h.logger, err, "failed to list quotes")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get quote with lead and product details
// @Tags Quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} domain.QuoteDetailDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	quote, err := h.quoteService.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "failed to get quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Update godoc
// @Summary Update quote
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param request body domain.UpdateQuoteRequest true "Fields to change"
// @Success 200 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /quotes/{id} [patch]
func (h *QuoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.quoteService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to update quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Delete godoc
// @Summary Delete quote
// @Tags Quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} domain.QuoteDTO
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /quotes/{id} [delete]
func (h *QuoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	quote, err := h.quoteService.Delete(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "failed to delete quote")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Quote deleted successfully",
		"quote":   quote,
	})
}

// ListProducts godoc
// @Summary List active products
// @Tags Products
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {object} domain.ProductListResponse
// @Router /products [get]
func (h *QuoteHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handleError(w, h.logger, err, "failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, domain.ProductListResponse{Products: products, Total: len(products)})
}

// GetProduct godoc
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.ProductDTO
// @Failure 404 {object} domain.APIError
// @Router /products/{id} [get]
func (h *QuoteHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}
