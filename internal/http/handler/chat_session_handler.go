package handler

import (
	"net/http"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"go.uber.org/zap"
)

type ChatSessionHandler struct {
	chatSessionService *service.ChatSessionService
	logger             *zap.Logger
}

func NewChatSessionHandler(chatSessionService *service.ChatSessionService, logger *zap.Logger) *ChatSessionHandler {
	return &ChatSessionHandler{
		chatSessionService: chatSessionService,
		logger:             logger,
	}
}

// Create godoc
// @Summary Create chat session
// @Tags Chat Sessions
// @Accept json
// @Produce json
// @Param request body domain.CreateChatSessionRequest true "Transcript"
// @Success 201 {object} domain.ChatSessionDTO
// @Failure 400 {object} domain.APIError
// @Router /chat-sessions [post]
func (h *ChatSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateChatSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.chatSessionService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to create chat session")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

// List godoc
// @Summary List chat sessions
// @Tags Chat Sessions
// @Produce json
// @Param leadId query int false "Filter by lead"
// @Param status query string false "Filter by status" Enums(active, closed)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 100)" default(10)
// @Success 200 {object} domain.ChatSessionListResponse
// @Security BearerAuth
// @Router /chat-sessions [get]
func (h *ChatSessionHandler) List(w http.ResponseWriter, r *http.Request) {
	leadID, ok := optionalInt64Query(r, "leadId")
	if !ok {
		handleError(w, h.logger, service.ErrInvalidLeadID, "failed to list chat sessions")
		return
	}
	filter := domain.ChatSessionFilter{
		LeadID: leadID,
		Status: r.URL.Query().Get("status"),
	}
	page, limit := pagination(r)

	result, err := h.chatSessionService.List(r.Context(), filter, page, limit)
	if err != nil {
		handleError(w, h.logger, err, "failed to list chat sessions")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get chat session
// @Tags Chat Sessions
// @Produce json
// @Param id path int true "Chat session ID"
// @Success 200 {object} domain.ChatSessionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /chat-sessions/{id} [get]
func (h *ChatSessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	session, err := h.chatSessionService.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "failed to get chat session")
		return
	}

	respondJSON(w, http.StatusOK, session)
}

// Update godoc
// @Summary Append messages or change status
// @Tags Chat Sessions
// @Accept json
// @Produce json
// @Param id path int true "Chat session ID"
// @Param request body domain.UpdateChatSessionRequest true "Messages to append"
// @Success 200 {object} domain.ChatSessionDTO
// @Security BearerAuth
// @Router /chat-sessions/{id} [patch]
func (h *ChatSessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateChatSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.chatSessionService.Update(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to update chat session")
		return
	}

	respondJSON(w, http.StatusOK, session)
}
