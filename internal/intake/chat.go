package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatStep is a position in the chat assistant conversation
type ChatStep string

const (
	ChatAskService   ChatStep = "ask_service"
	ChatAskQuestion1 ChatStep = "ask_question_1"
	ChatAskQuestion2 ChatStep = "ask_question_2"
	ChatAskQuestion3 ChatStep = "ask_question_3"
	ChatAskName      ChatStep = "ask_name"
	ChatAskEmail     ChatStep = "ask_email"
	ChatAskPhone     ChatStep = "ask_phone"
	// ChatGenerateTicket is terminal; the conversation stays open here
	ChatGenerateTicket ChatStep = "generate_ticket"
)

// ErrEmptyMessage is returned for blank input
var ErrEmptyMessage = errors.New("message is empty")

// Conversation is the server-held state of one chat intake
type Conversation struct {
	ID       string   `json:"id"`
	Step     ChatStep `json:"step"`
	Language string   `json:"language,omitempty"`
	// UILanguage is the site language to switch to (es or en)
	UILanguage    string               `json:"uiLanguage,omitempty"`
	Service       string               `json:"service,omitempty"`
	Question1     string               `json:"question1,omitempty"`
	Question2     string               `json:"question2,omitempty"`
	Question3     string               `json:"question3,omitempty"`
	Name          string               `json:"name,omitempty"`
	Email         string               `json:"email,omitempty"`
	Phone         string               `json:"phone,omitempty"`
	TicketNumber  string               `json:"ticketNumber,omitempty"`
	TicketPending bool                 `json:"ticketPending,omitempty"`
	Transcript    []domain.ChatMessage `json:"transcript"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func (c *Conversation) lang() string {
	return langKey(c.Language)
}

func (c *Conversation) record(role, content string) {
	c.Transcript = append(c.Transcript, domain.ChatMessage{Role: role, Content: content})
}

// TicketCreator receives the contact details collected by the chat
type TicketCreator interface {
	CreateTicket(ctx context.Context, req *domain.CreateTicketRequest) (*domain.CreateTicketResponse, error)
}

// ChatEngine drives chat conversations. It holds no per-conversation state.
type ChatEngine struct {
	tickets TicketCreator
	logger  *zap.Logger
	now     func() time.Time
}

func NewChatEngine(tickets TicketCreator, logger *zap.Logger) *ChatEngine {
	return &ChatEngine{tickets: tickets, logger: logger, now: time.Now}
}

// Start opens a conversation and returns it with the greeting
func (e *ChatEngine) Start() (*Conversation, []string) {
	c := &Conversation{
		ID:        uuid.New().String(),
		Step:      ChatAskService,
		UpdatedAt: e.now().UTC(),
	}
	c.record("assistant", greeting)
	return c, []string{greeting}
}

// Handle consumes one visitor message and advances the conversation
func (e *ChatEngine) Handle(ctx context.Context, c *Conversation, message string) ([]string, error) {
	text := strings.TrimSpace(message)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	c.record("user", text)

	if c.Step == ChatAskService && c.Language == "" {
		tag := DetectLanguage(text)
		c.Language = tag.String()
		c.UILanguage = UILanguage(tag).String()
	}
	lang := c.lang()

	var reply string
	switch c.Step {
	case ChatAskService:
		kind, label := routeService(text, lang)
		c.Service = label
		reply = serviceChosenReply(lang, label, kind)
		c.Step = ChatAskQuestion1
	case ChatAskQuestion1:
		c.Question1 = text
		reply = serviceQuestions[classifyService(c.Service)][lang][1]
		c.Step = ChatAskQuestion2
	case ChatAskQuestion2:
		c.Question2 = text
		reply = serviceQuestions[classifyService(c.Service)][lang][2]
		c.Step = ChatAskQuestion3
	case ChatAskQuestion3:
		c.Question3 = text
		reply = askNamePrompt[lang]
		c.Step = ChatAskName
	case ChatAskName:
		c.Name = text
		reply = askEmailPrompt[lang]
		c.Step = ChatAskEmail
	case ChatAskEmail:
		c.Email = text
		reply = askPhonePrompt[lang]
		c.Step = ChatAskPhone
	case ChatAskPhone:
		c.Phone = text
		reply = e.submitTicket(ctx, c)
		c.Step = ChatGenerateTicket
	default:
		reply = anythingElsePrompt[lang]
	}

	c.record("assistant", reply)
	c.UpdatedAt = e.now().UTC()
	return []string{reply}, nil
}

// submitTicket hands the collected details to the ticket collaborator. A
// failure never ends the conversation; the visitor is told confirmation is
// pending instead.
func (e *ChatEngine) submitTicket(ctx context.Context, c *Conversation) string {
	c.TicketNumber = NewTicketNumber(e.now())

	_, err := e.tickets.CreateTicket(ctx, &domain.CreateTicketRequest{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Service: c.Service,
		Details: domain.TicketDetails{
			Question1: c.Question1,
			Question2: c.Question2,
			Question3: c.Question3,
		},
		TicketNumber: c.TicketNumber,
		Language:     c.Language,
		Transcript:   append([]domain.ChatMessage(nil), c.Transcript...),
	})
	if err != nil {
		e.logger.Error("failed to create chat ticket",
			zap.String("conversation_id", c.ID),
			zap.String("ticket_number", c.TicketNumber),
			zap.Error(err),
		)
		c.TicketPending = true
		return fmt.Sprintf(ticketPendingNotice[c.lang()], c.TicketNumber)
	}
	return ticketCreatedReply(c.lang(), c)
}

// routeService classifies the answer to the service question. Unmatched
// answers are kept verbatim and get the website question set.
func routeService(text, lang string) (serviceKind, string) {
	t := normalizeInput(text)
	switch {
	case strings.Contains(t, "letrero") || strings.Contains(t, "sign") || strings.Contains(t, "letreiro") || t == "1":
		return serviceSign, serviceLabels[serviceSign][lang]
	case strings.Contains(t, "logo") || t == "2":
		return serviceLogo, serviceLabels[serviceLogo][lang]
	case strings.Contains(t, "web") || strings.Contains(t, "página") || strings.Contains(t, "website") || strings.Contains(t, "site") || t == "3":
		return serviceWebsite, serviceLabels[serviceWebsite][lang]
	default:
		return serviceWebsite, text
	}
}

// classifyService maps a stored service label back to its question set
func classifyService(service string) serviceKind {
	s := normalizeInput(service)
	switch {
	case strings.Contains(s, "letrero") || strings.Contains(s, "sign") || strings.Contains(s, "letreiro"):
		return serviceSign
	case strings.Contains(s, "logo"):
		return serviceLogo
	default:
		return serviceWebsite
	}
}
