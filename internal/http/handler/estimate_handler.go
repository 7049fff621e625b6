package handler

import (
	"net/http"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"go.uber.org/zap"
)

// EstimateHandler serves the estimates of the authenticated caller
type EstimateHandler struct {
	estimateService *service.EstimateService
	logger          *zap.Logger
}

func NewEstimateHandler(estimateService *service.EstimateService, logger *zap.Logger) *EstimateHandler {
	return &EstimateHandler{
		estimateService: estimateService,
		logger:          logger,
	}
}

// Create godoc
// @Summary Create estimate
// @Description The quote number is generated and ownership is taken from the token
// @Tags Estimates
// @Accept json
// @Produce json
// @Param request body domain.CreateEstimateRequest true "Estimate data"
// @Success 201 {object} domain.EstimateDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates [post]
func (h *EstimateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	estimate, err := h.estimateService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to create estimate")
		return
	}

	respondJSON(w, http.StatusCreated, estimate)
}

// List godoc
// @Summary List own estimates
// @Tags Estimates
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search client name, client email or quote number"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Success 200 {object} domain.EstimateListResponse
// @Security BearerAuth
// @Router /estimates [get]
func (h *EstimateHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.EstimateFilter{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	page, limit := pagination(r)

	result, err := h.estimateService.List(r.Context(), filter, page, limit)
	if err != nil {
		handleError(w, h.logger, err, "failed to list estimates")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get estimate
// @Tags Estimates
// @Produce json
// @Param id path int true "Estimate ID"
// @Success 200 {object} domain.EstimateDTO
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates/{id} [get]
func (h *EstimateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	estimate, err := h.estimateService.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "failed to get estimate")
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}

// Update godoc
// @Summary Update estimate
// @Tags Estimates
// @Accept json
// @Produce json
// @Param id path int true "Estimate ID"
// @Param request body domain.UpdateEstimateRequest true "Fields to change"
// @Success 200 {object} domain.EstimateDTO
// @Security BearerAuth
// @Router /estimates/{id} [patch]
func (h *EstimateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateEstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	estimate, err := h.estimateService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to update estimate")
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}

// Delete godoc
// @Summary Delete estimate
// @Tags Estimates
// @Produce json
// @Param id path int true "Estimate ID"
// @Success 200 {object} domain.EstimateDTO
// @Security BearerAuth
// @Router /estimates/{id} [delete]
func (h *EstimateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	estimate, err := h.estimateService.Delete(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "failed to delete estimate")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Estimate deleted successfully",
		"estimate": estimate,
	})
}
