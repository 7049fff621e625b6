package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/mapper"
	"github.com/extremegraphics/lead-pipeline-api/internal/metrics"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatSessionService stores chat transcripts. Messages are append-only.
type ChatSessionService struct {
	sessionRepo *repository.ChatSessionRepository
	leadRepo    *repository.LeadRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewChatSessionService(
	sessionRepo *repository.ChatSessionRepository,
	leadRepo *repository.LeadRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ChatSessionService {
	return &ChatSessionService{
		sessionRepo: sessionRepo,
		leadRepo:    leadRepo,
		metrics:     m,
		logger:      logger,
	}
}

func validateMessages(messages []domain.ChatMessage) error {
	for _, m := range messages {
		if isBlank(m.Role) || m.Content == "" {
			return ErrInvalidMessageStructure
		}
	}
	return nil
}

func (s *ChatSessionService) Create(ctx context.Context, req *domain.CreateChatSessionRequest) (*domain.ChatSessionDTO, error) {
	if len(req.Messages) == 0 {
		return nil, ErrInvalidMessages
	}
	if err := validateMessages(req.Messages); err != nil {
		return nil, err
	}
	status := domain.ChatSessionStatusActive
	if req.Status != "" {
		status = domain.ChatSessionStatus(req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidChatStatus
		}
	}
	if req.LeadID != nil {
		exists, err := s.leadRepo.Exists(ctx, *req.LeadID)
		if err != nil {
			return nil, fmt.Errorf("failed to check lead: %w", err)
		}
		if !exists {
			return nil, ErrLeadReferenceNotFound
		}
	}

	session := &domain.ChatSession{
		LeadID:          req.LeadID,
		Messages:        req.Messages,
		ContextCaptured: req.ContextCaptured,
		Status:          status,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	dto := mapper.ToChatSessionDTO(session)
	return &dto, nil
}

func (s *ChatSessionService) List(ctx context.Context, filter domain.ChatSessionFilter, page, limit int) (*domain.ChatSessionListResponse, error) {
	if filter.Status != "" && !domain.ChatSessionStatus(filter.Status).IsValid() {
		return nil, ErrInvalidChatStatus
	}
	p := NewPagination(page, limit)

	sessions, total, err := s.sessionRepo.List(ctx, filter, p.Offset(), p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}

	dtos := make([]domain.ChatSessionDTO, len(sessions))
	for i := range sessions {
		dtos[i] = mapper.ToChatSessionDTO(&sessions[i])
	}

	return &domain.ChatSessionListResponse{
		ChatSessions: dtos,
		Total:        total,
		Page:         p.Page,
		TotalPages:   p.TotalPages(total),
	}, nil
}

func (s *ChatSessionService) Get(ctx context.Context, id int64) (*domain.ChatSessionDTO, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatSessionNotFound
		}
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}

	dto := mapper.ToChatSessionDTO(session)
	return &dto, nil
}

// Update appends messages, replaces the captured context and sets the status
func (s *ChatSessionService) Update(ctx context.Context, id int64, req *domain.UpdateChatSessionRequest) (*domain.ChatSessionDTO, error) {
	if len(req.Messages) == 0 && !req.ContextCaptured.Set && !req.Status.Set {
		return nil, ErrNoUpdateFields
	}
	if err := validateMessages(req.Messages); err != nil {
		return nil, err
	}
	var status domain.ChatSessionStatus
	if req.Status.Set {
		status = domain.ChatSessionStatus(req.Status.Value)
		if req.Status.Null || !status.IsValid() {
			return nil, ErrInvalidChatStatus
		}
	}

	session, err := s.sessionRepo.Modify(ctx, id, func(cs *domain.ChatSession) error {
		cs.Messages = append(cs.Messages, req.Messages...)
		if req.ContextCaptured.Set {
			cs.ContextCaptured = req.ContextCaptured.Value
		}
		if req.Status.Set {
			cs.Status = status
		}
		cs.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatSessionNotFound
		}
		return nil, fmt.Errorf("failed to update chat session: %w", err)
	}

	dto := mapper.ToChatSessionDTO(session)
	return &dto, nil
}

// CloseStale closes active sessions idle for longer than maxIdle
func (s *ChatSessionService) CloseStale(ctx context.Context, maxIdle time.Duration) (int64, error) {
	closed, err := s.sessionRepo.CloseIdle(ctx, time.Now().UTC().Add(-maxIdle))
	if err != nil {
		return 0, fmt.Errorf("failed to close idle chat sessions: %w", err)
	}
	s.metrics.ChatSessionsAutoClosed(closed)
	if closed > 0 {
		s.logger.Info("closed idle chat sessions", zap.Int64("count", closed), zap.Duration("max_idle", maxIdle))
	}
	return closed, nil
}
