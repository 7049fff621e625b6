package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Step is a position in the quote funnel
type Step int

const (
	StepIndoorOutdoor Step = iota + 1
	StepSignType
	StepLighting
	StepSize
	StepLogoUpload
	StepContactInfo
	StepSubmitted
)

var stepNames = map[Step]string{
	StepIndoorOutdoor: "indoor_outdoor",
	StepSignType:      "sign_type",
	StepLighting:      "lighting",
	StepSize:          "size",
	StepLogoUpload:    "logo_upload",
	StepContactInfo:   "contact_info",
	StepSubmitted:     "submitted",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var (
	// ErrNotAtContactInfo is returned by Submit before the last input step
	ErrNotAtContactInfo = errors.New("wizard can only be submitted from the contact step")
	ErrAlreadySubmitted = errors.New("wizard already submitted")
)

// StepIncompleteError names the step whose guard did not hold
type StepIncompleteError struct {
	Step Step
}

func (e *StepIncompleteError) Error() string {
	return fmt.Sprintf("step %s is missing required answers", e.Step)
}

// Answers are the quote funnel choices and contact details
type Answers struct {
	IndoorOutdoor     string
	SignType          string
	Lighting          string
	Size              string
	HasLogo           string
	Name              string
	Phone             string
	Email             string
	ContactPreference string
}

// Attachment is the logo uploaded at the LogoUpload step
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Submission is what the wizard hands to its Submitter on completion
type Submission struct {
	Answers      Answers
	TicketNumber string
	Notes        string
}

// Submitter persists the terminal side effects of a wizard
type Submitter interface {
	CreateWizardLead(ctx context.Context, sub Submission) (int64, error)
	AttachLogo(ctx context.Context, leadID int64, file *Attachment) error
}

// SubmitResult describes a completed submission. AttachmentErr is set when
// the lead was created but the logo could not be stored.
type SubmitResult struct {
	LeadID        int64
	TicketNumber  string
	AttachmentErr error
}

// Wizard is the seven-step quote funnel. The zero value is not usable; call
// NewWizard.
type Wizard struct {
	step         Step
	answers      Answers
	attachment   *Attachment
	ticketNumber string
	now          func() time.Time
}

func NewWizard() *Wizard {
	return &Wizard{step: StepIndoorOutdoor, now: time.Now}
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) Answers() Answers {
	return w.answers
}

// TicketNumber is empty until the first submit attempt
func (w *Wizard) TicketNumber() string {
	return w.ticketNumber
}

// Resume seeds the ticket number of an earlier attempt so a resubmission
// keeps it.
func (w *Wizard) Resume(ticketNumber string) {
	if IsTicketNumber(ticketNumber) {
		w.ticketNumber = ticketNumber
	}
}

// Answer records one answer. Unknown fields are ignored.
func (w *Wizard) Answer(field, value string) {
	value = strings.TrimSpace(value)
	switch field {
	case "indoorOutdoor":
		w.answers.IndoorOutdoor = value
	case "signType":
		w.answers.SignType = value
	case "lighting":
		w.answers.Lighting = value
	case "size":
		w.answers.Size = value
	case "hasLogo":
		w.answers.HasLogo = value
	case "name":
		w.answers.Name = value
	case "phone":
		w.answers.Phone = value
	case "email":
		w.answers.Email = value
	case "contactPreference":
		w.answers.ContactPreference = value
	}
}

// Attach sets the logo file for the LogoUpload step
func (w *Wizard) Attach(file *Attachment) {
	w.attachment = file
}

// CanAdvance reports whether the current step's guard holds
func (w *Wizard) CanAdvance() bool {
	a := w.answers
	switch w.step {
	case StepIndoorOutdoor:
		return a.IndoorOutdoor != ""
	case StepSignType:
		return a.SignType != ""
	case StepLighting:
		return a.Lighting != ""
	case StepSize:
		return a.Size != ""
	case StepLogoUpload:
		if a.HasLogo == "" {
			return false
		}
		return a.HasLogo == "no" || (w.attachment != nil && w.attachment.Size > 0)
	case StepContactInfo:
		return a.Name != "" && a.Phone != "" && a.Email != "" && a.ContactPreference != ""
	default:
		return false
	}
}

// Next moves one step forward. ContactInfo only leaves through Submit.
func (w *Wizard) Next() error {
	if w.step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	if !w.CanAdvance() {
		return &StepIncompleteError{Step: w.step}
	}
	if w.step == StepContactInfo {
		return ErrNotAtContactInfo
	}
	w.step++
	return nil
}

// Back moves one step back, never below the first step or out of Submitted
func (w *Wizard) Back() {
	if w.step > StepIndoorOutdoor && w.step < StepSubmitted {
		w.step--
	}
}

// Cancel discards every answer and returns to the first step
func (w *Wizard) Cancel() {
	*w = Wizard{step: StepIndoorOutdoor, now: w.now}
}

// Notes renders the structured answers stored on the lead
func (w *Wizard) Notes(ticketNumber string) string {
	a := w.answers
	return fmt.Sprintf("Indoor/Outdoor: %s\nTipo: %s\nIluminación: %s\nTamaño: %s\nLogo: %s\nTicket: %s",
		a.IndoorOutdoor, a.SignType, a.Lighting, a.Size, a.HasLogo, ticketNumber)
}

// Submit creates the lead and then stores the logo. A lead failure keeps the
// wizard at ContactInfo. A logo failure still completes the wizard and is
// reported through SubmitResult.AttachmentErr.
func (w *Wizard) Submit(ctx context.Context, s Submitter) (*SubmitResult, error) {
	if w.step == StepSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if w.step != StepContactInfo {
		return nil, ErrNotAtContactInfo
	}
	if !w.CanAdvance() {
		return nil, &StepIncompleteError{Step: w.step}
	}

	if w.ticketNumber == "" {
		w.ticketNumber = NewTicketNumber(w.now())
	}

	leadID, err := s.CreateWizardLead(ctx, Submission{
		Answers:      w.answers,
		TicketNumber: w.ticketNumber,
		Notes:        w.Notes(w.ticketNumber),
	})
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{LeadID: leadID, TicketNumber: w.ticketNumber}
	if w.attachment != nil && w.attachment.Size > 0 {
		result.AttachmentErr = s.AttachLogo(ctx, leadID, w.attachment)
	}

	w.step = StepSubmitted
	return result, nil
}

// Replay feeds a complete set of answers through the funnel step by step and
// stops at ContactInfo, or at the first step whose guard fails.
func (w *Wizard) Replay(answers Answers, logo *Attachment) error {
	steps := []struct {
		field string
		value string
	}{
		{"indoorOutdoor", answers.IndoorOutdoor},
		{"signType", answers.SignType},
		{"lighting", answers.Lighting},
		{"size", answers.Size},
		{"hasLogo", answers.HasLogo},
	}
	for _, s := range steps {
		w.Answer(s.field, s.value)
		if w.step == StepLogoUpload {
			w.Attach(logo)
		}
		if err := w.Next(); err != nil {
			return err
		}
	}

	w.Answer("name", answers.Name)
	w.Answer("phone", answers.Phone)
	w.Answer("email", answers.Email)
	w.Answer("contactPreference", answers.ContactPreference)
	if !w.CanAdvance() {
		return &StepIncompleteError{Step: w.step}
	}
	return nil
}
