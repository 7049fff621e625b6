package handler

import (
	"net/http"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"go.uber.org/zap"
)

type TicketHandler struct {
	ticketService *service.TicketService
	logger        *zap.Logger
}

func NewTicketHandler(ticketService *service.TicketService, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{ticketService: ticketService, logger: logger}
}

// Create godoc
// @Summary Create ticket
// @Description Creates a chat lead and the chat session it came from. A ticket number is generated when none is given.
// @Tags Tickets
// @Accept json
// @Produce json
// @Param request body domain.CreateTicketRequest true "Ticket"
// @Success 201 {object} domain.CreateTicketResponse
// @Failure 400 {object} domain.APIError
// @Router /tickets [post]
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTicketRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ticket, err := h.ticketService.CreateTicket(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err, "failed to create ticket")
		return
	}
	respondJSON(w, http.StatusCreated, ticket)
}

// List godoc
// @Summary List tickets
// @Description Every lead with its chat sessions, quotes and files
// @Tags Tickets
// @Produce json
// @Success 200 {object} domain.TicketListResponse
// @Security BearerAuth
// @Router /tickets [get]
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.ticketService.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "failed to list tickets")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
