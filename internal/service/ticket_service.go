package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/intake"
	"github.com/extremegraphics/lead-pipeline-api/internal/mapper"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"go.uber.org/zap"
)

// TicketService turns a finished chat intake into a lead plus the chat
// session that produced it. It also serves the aggregated ticket view.
type TicketService struct {
	leads    *LeadService
	leadRepo *repository.LeadRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewTicketService(
	leads *LeadService,
	leadRepo *repository.LeadRepository,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		leads:    leads,
		leadRepo: leadRepo,
		logger:   logger,
		now:      time.Now,
	}
}

func ticketNotes(req *domain.CreateTicketRequest) string {
	return fmt.Sprintf("Servicio: %s\nPregunta 1: %s\nPregunta 2: %s\nPregunta 3: %s\nIdioma: %s\nTicket: %s",
		req.Service, req.Details.Question1, req.Details.Question2, req.Details.Question3, req.Language, req.TicketNumber)
}

// CreateTicket implements intake.TicketCreator
func (s *TicketService) CreateTicket(ctx context.Context, req *domain.CreateTicketRequest) (*domain.CreateTicketResponse, error) {
	if strings.TrimSpace(req.TicketNumber) == "" {
		req.TicketNumber = intake.NewTicketNumber(s.now())
	}

	messages := req.Transcript
	if len(messages) == 0 {
		messages = []domain.ChatMessage{{Role: "system", Content: ticketNotes(req)}}
	}
	session := &domain.ChatSession{
		Messages: messages,
		ContextCaptured: map[string]interface{}{
			"service": req.Service,
			"details": map[string]interface{}{
				"question1": req.Details.Question1,
				"question2": req.Details.Question2,
				"question3": req.Details.Question3,
			},
			"language":     req.Language,
			"ticketNumber": req.TicketNumber,
		},
		Status: domain.ChatSessionStatusActive,
	}

	lead, err := s.leads.CreateWithChatSession(ctx, &domain.CreateLeadRequest{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Source:       string(domain.LeadSourceChat),
		Notes:        ticketNotes(req),
		TicketNumber: req.TicketNumber,
	}, session)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket created",
		zap.String("ticket_number", req.TicketNumber),
		zap.Int64("lead_id", lead.ID),
		zap.Int64("chat_session_id", session.ID))

	return &domain.CreateTicketResponse{
		TicketNumber:  req.TicketNumber,
		LeadID:        lead.ID,
		ChatSessionID: session.ID,
	}, nil
}

// List returns every lead with its chat sessions, quotes and files
func (s *TicketService) List(ctx context.Context) (*domain.TicketListResponse, error) {
	leads, err := s.leadRepo.ListWithRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]domain.TicketDTO, len(leads))
	for i := range leads {
		tickets[i] = mapper.ToTicketDTO(&leads[i])
	}
	return &domain.TicketListResponse{Tickets: tickets, Total: len(tickets)}, nil
}
