package handler

import (
	"net/http"
	"strconv"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"go.uber.org/zap"
)

type LeadHandler struct {
	leadService *service.LeadService
	logger      *zap.Logger
}

func NewLeadHandler(leadService *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		logger:      logger,
	}
}

// Create godoc
// @Summary Create lead
// @Description Public endpoint used by the contact form, the wizard and the chat
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body domain.CreateLeadRequest true "Lead data"
// @Success 201 {object} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Router /leads [post]
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lead, err := h.leadService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to create lead")
		return
	}

	w.Header().Set("Location", "/api/v1/leads/"+strconv.FormatInt(lead.ID, 10))
	respondJSON(w, http.StatusCreated, lead)
}

// List godoc
// @Summary List leads
// @Tags Leads
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Param status query string false "Filter by status"
// @Param assignedTo query int false "Filter by assigned CRM user"
// @Param search query string false "Search name, email or phone"
// @Success 200 {object} domain.LeadListResponse
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	assignedTo, ok := optionalInt64Query(r, "assignedTo")
	if !ok {
		handleError(w, h.logger, service.ErrInvalidAssignedTo, "failed to list leads")
		return
	}
	filter := domain.LeadFilter{
		Status:     r.URL.Query().Get("status"),
		AssignedTo: assignedTo,
		Search:     r.URL.Query().Get("search"),
	}
	page, limit := pagination(r)

	result, err := h.leadService.List(r.Context(), filter, page, limit)
	if err != nil {
		handleError(w, h.logger, err, "failed to list leads")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get lead
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} domain.LeadDetailDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id} [get]
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	lead, err := h.leadService.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "failed to get lead")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// Update godoc
// @Summary Update lead
// @Description Partial update. Absent fields are untouched, null clears nullable fields.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body domain.UpdateLeadRequest true "Fields to change"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id} [patch]
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lead, err := h.leadService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to update lead")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// Delete godoc
// @Summary Delete lead
// @Description Admin only. Refused with 409 when the lead has dependents unless cascade=true.
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Param cascade query bool false "Also delete quotes, files and chat sessions"
// @Success 200 {object} domain.DeleteLeadResponse
// @Failure 403 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /leads/{id} [delete]
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	cascade, _ := strconv.ParseBool(r.URL.Query().Get("cascade"))

	result, err := h.leadService.Delete(r.Context(), id, cascade)
	if err != nil {
		handleError(w, h.logger, err, "failed to delete lead")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
