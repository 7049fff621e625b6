package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/intake"
	"github.com/extremegraphics/lead-pipeline-api/internal/metrics"
	"go.uber.org/zap"
)

const (
	WarningAttachmentFailed = "ATTACHMENT_FAILED"

	attachmentFailedMessage = "Your request was received, but the logo could not be stored. Please try uploading it again."
)

// IntakeService runs the public intake conversations: the quote funnel
// wizard and the chat assistant.
type IntakeService struct {
	leads   *LeadService
	files   *FileService
	chat    *intake.ChatEngine
	store   intake.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewIntakeService(
	leads *LeadService,
	files *FileService,
	tickets intake.TicketCreator,
	store intake.Store,
	m *metrics.Metrics,
	logger *zap.Logger,
) *IntakeService {
	return &IntakeService{
		leads:   leads,
		files:   files,
		chat:    intake.NewChatEngine(tickets, logger),
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// wizardSubmitter adapts the lead and file services to one wizard run and
// remembers what it created for the response
type wizardSubmitter struct {
	svc  *IntakeService
	lead *domain.LeadDTO
	file *domain.FileDTO
}

func (w *wizardSubmitter) CreateWizardLead(ctx context.Context, sub intake.Submission) (int64, error) {
	lead, err := w.svc.leads.Create(ctx, &domain.CreateLeadRequest{
		Name:             sub.Answers.Name,
		Email:            sub.Answers.Email,
		Phone:            sub.Answers.Phone,
		Source:           string(domain.LeadSourceWizard),
		Notes:            sub.Notes,
		PreferredContact: sub.Answers.ContactPreference,
		TicketNumber:     sub.TicketNumber,
	})
	if err != nil {
		return 0, err
	}
	w.lead = lead
	return lead.ID, nil
}

func (w *wizardSubmitter) AttachLogo(ctx context.Context, leadID int64, file *intake.Attachment) error {
	dto, err := w.svc.files.Upload(ctx, UploadInput{
		LeadID:      leadID,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Data:        file.Content,
	})
	if err != nil {
		return err
	}
	w.file = dto
	return nil
}

func wizardAnswers(req *domain.WizardSubmission) intake.Answers {
	return intake.Answers{
		IndoorOutdoor:     req.IndoorOutdoor,
		SignType:          req.SignType,
		Lighting:          req.Lighting,
		Size:              req.Size,
		HasLogo:           req.HasLogo,
		Name:              req.Name,
		Phone:             req.Phone,
		Email:             req.Email,
		ContactPreference: req.ContactPreference,
	}
}

func incompleteStepError(step intake.Step) error {
	return newError(KindInvalid, ErrIncompleteStep.Code,
		fmt.Sprintf("Step %s is missing required answers", step))
}

// SubmitWizard replays the answers through the funnel and submits it. A
// failed logo upload does not undo the lead; the result then carries an
// ATTACHMENT_FAILED warning and the logo can be retried with RetryAttachment.
func (s *IntakeService) SubmitWizard(ctx context.Context, req *domain.WizardSubmission, logo *intake.Attachment) (*domain.WizardResultDTO, error) {
	wizard := intake.NewWizard()
	if intake.IsTicketNumber(req.TicketNumber) {
		wizard.Resume(req.TicketNumber)
	}

	if err := wizard.Replay(wizardAnswers(req), logo); err != nil {
		var incomplete *intake.StepIncompleteError
		if errors.As(err, &incomplete) {
			return nil, incompleteStepError(incomplete.Step)
		}
		return nil, err
	}
	if logo != nil && logo.Size > s.files.MaxSize() {
		return nil, ErrFileTooLarge
	}

	submitter := &wizardSubmitter{svc: s}
	result, err := wizard.Submit(ctx, submitter)
	if err != nil {
		s.metrics.IntakeSubmitted("wizard", "failed")
		var incomplete *intake.StepIncompleteError
		if errors.As(err, &incomplete) {
			return nil, incompleteStepError(incomplete.Step)
		}
		return nil, err
	}

	dto := &domain.WizardResultDTO{
		TicketNumber: result.TicketNumber,
		Lead:         *submitter.lead,
		File:         submitter.file,
	}
	if result.AttachmentErr != nil {
		s.logger.Warn("wizard logo upload failed",
			zap.Int64("lead_id", result.LeadID),
			zap.String("ticket_number", result.TicketNumber),
			zap.Error(result.AttachmentErr))
		dto.Warning = attachmentFailedMessage
		dto.WarningCode = WarningAttachmentFailed
		s.metrics.IntakeSubmitted("wizard", "partial")
	} else {
		s.metrics.IntakeSubmitted("wizard", "ok")
	}

	return dto, nil
}

// RetryAttachment uploads a logo against the lead of an earlier submission
func (s *IntakeService) RetryAttachment(ctx context.Context, leadID int64, logo *intake.Attachment) (*domain.FileDTO, error) {
	if logo == nil {
		return nil, ErrFileRequired
	}
	return s.files.Upload(ctx, UploadInput{
		LeadID:      leadID,
		Filename:    logo.Filename,
		ContentType: logo.ContentType,
		Size:        logo.Size,
		Data:        logo.Content,
	})
}

func chatReply(c *intake.Conversation, replies []string) *domain.ChatIntakeReplyDTO {
	return &domain.ChatIntakeReplyDTO{
		ConversationID: c.ID,
		Step:           string(c.Step),
		Language:       c.Language,
		UILanguage:     c.UILanguage,
		Replies:        replies,
		TicketNumber:   c.TicketNumber,
		TicketPending:  c.TicketPending,
	}
}

// StartChat opens a chat conversation and returns the greeting
func (s *IntakeService) StartChat(ctx context.Context) (*domain.ChatIntakeReplyDTO, error) {
	c, replies := s.chat.Start()
	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}
	return chatReply(c, replies), nil
}

// HandleChat feeds one visitor message into a stored conversation
func (s *IntakeService) HandleChat(ctx context.Context, conversationID, message string) (*domain.ChatIntakeReplyDTO, error) {
	c, err := s.store.Get(ctx, conversationID)
	if err != nil {
		if errors.Is(err, intake.ErrConversationNotFound) {
			return nil, ErrConversationEnded
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	before := c.Step
	replies, err := s.chat.Handle(ctx, c, message)
	if err != nil {
		if errors.Is(err, intake.ErrEmptyMessage) {
			return nil, ErrEmptyMessage
		}
		return nil, err
	}

	if err := s.store.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save conversation: %w", err)
	}

	if before == intake.ChatAskPhone {
		outcome := "ok"
		if c.TicketPending {
			outcome = "pending"
		}
		s.metrics.IntakeSubmitted("chat", outcome)
	}

	return chatReply(c, replies), nil
}
