package handler

import (
	"net/http"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"go.uber.org/zap"
)

// CrmUserHandler serves operator accounts and the caller's own profile
type CrmUserHandler struct {
	crmUserService *service.CrmUserService
	logger         *zap.Logger
}

func NewCrmUserHandler(crmUserService *service.CrmUserService, logger *zap.Logger) *CrmUserHandler {
	return &CrmUserHandler{
		crmUserService: crmUserService,
		logger:         logger,
	}
}

// Me godoc
// @Summary Get current authenticated user
// @Description Returns the token identity and, when linked, the CRM profile with its role
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.MeDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *CrmUserHandler) Me(w http.ResponseWriter, r *http.Request) {
	me, err := h.crmUserService.Me(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "failed to get current user")
		return
	}

	respondJSON(w, http.StatusOK, me)
}

// List godoc
// @Summary List CRM users
// @Tags CRM Users
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Success 200 {object} domain.CrmUserListResponse
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /crm-users [get]
func (h *CrmUserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	result, err := h.crmUserService.List(r.Context(), page, limit)
	if err != nil {
		handleError(w, h.logger, err, "failed to list crm users")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get CRM user
// @Tags CRM Users
// @Produce json
// @Param id path int true "CRM user ID"
// @Success 200 {object} domain.CrmUserDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /crm-users/{id} [get]
func (h *CrmUserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	user, err := h.crmUserService.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "failed to get crm user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Create godoc
// @Summary Create CRM user
// @Description Links an existing authentication identity to a new CRM profile
// @Tags CRM Users
// @Accept json
// @Produce json
// @Param request body domain.CreateCrmUserRequest true "CRM user data"
// @Success 201 {object} domain.CrmUserDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /crm-users [post]
func (h *CrmUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCrmUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.crmUserService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to create crm user")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Update godoc
// @Summary Update CRM user name or role
// @Tags CRM Users
// @Accept json
// @Produce json
// @Param id path int true "CRM user ID"
// @Param request body domain.UpdateCrmUserRequest true "Fields to change"
// @Success 200 {object} domain.CrmUserDTO
// @Security BearerAuth
// @Router /crm-users/{id} [patch]
func (h *CrmUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateCrmUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.crmUserService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to update crm user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
