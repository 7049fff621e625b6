package intake

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	leadErr   error
	attachErr error
	leads     []Submission
	attached  []int64
	nextID    int64
}

func (f *fakeSubmitter) CreateWizardLead(_ context.Context, sub Submission) (int64, error) {
	if f.leadErr != nil {
		return 0, f.leadErr
	}
	f.nextID++
	f.leads = append(f.leads, sub)
	return f.nextID, nil
}

func (f *fakeSubmitter) AttachLogo(_ context.Context, leadID int64, _ *Attachment) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attached = append(f.attached, leadID)
	return nil
}

func janeAnswers() Answers {
	return Answers{
		IndoorOutdoor:     "outdoor",
		SignType:          "indoor_outdoor",
		Lighting:          "with_light",
		Size:              "5-10",
		HasLogo:           "no",
		Name:              "Jane Doe",
		Phone:             "+17865551234",
		Email:             "jane@example.com",
		ContactPreference: "email",
	}
}

func TestWizard_TerminalScenario(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Replay(janeAnswers(), nil))
	assert.Equal(t, StepContactInfo, w.Step())

	sub := &fakeSubmitter{}
	result, err := w.Submit(context.Background(), sub)
	require.NoError(t, err)

	require.Len(t, sub.leads, 1)
	assert.Empty(t, sub.attached)
	assert.NoError(t, result.AttachmentErr)
	assert.Equal(t, StepSubmitted, w.Step())
	assert.True(t, IsTicketNumber(result.TicketNumber))

	notes := sub.leads[0].Notes
	for _, answer := range []string{"outdoor", "indoor_outdoor", "with_light", "5-10", "Logo: no"} {
		assert.Contains(t, notes, answer)
	}
	assert.True(t, strings.HasSuffix(notes, "Ticket: "+result.TicketNumber))
}

func TestWizard_Guards(t *testing.T) {
	w := NewWizard()

	var incomplete *StepIncompleteError
	err := w.Next()
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, StepIndoorOutdoor, incomplete.Step)

	w.Answer("indoorOutdoor", "indoor")
	require.NoError(t, w.Next())
	w.Answer("signType", "acrylic_plate")
	require.NoError(t, w.Next())
	w.Answer("lighting", "no_light")
	require.NoError(t, w.Next())
	w.Answer("size", "custom")
	require.NoError(t, w.Next())
	assert.Equal(t, StepLogoUpload, w.Step())

	w.Answer("hasLogo", "yes")
	require.ErrorAs(t, w.Next(), &incomplete)
	assert.Equal(t, StepLogoUpload, incomplete.Step)

	w.Attach(&Attachment{Filename: "empty.png", Size: 0})
	assert.False(t, w.CanAdvance())

	w.Attach(&Attachment{Filename: "logo.png", ContentType: "image/png", Size: 3, Content: strings.NewReader("png")})
	require.NoError(t, w.Next())
	assert.Equal(t, StepContactInfo, w.Step())

	w.Answer("name", "Jane")
	w.Answer("email", "jane@example.com")
	w.Answer("phone", "   ")
	w.Answer("contactPreference", "phone")
	_, err = w.Submit(context.Background(), &fakeSubmitter{})
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, StepContactInfo, incomplete.Step)
}

func TestWizard_SubmitOnlyFromContactInfo(t *testing.T) {
	w := NewWizard()
	_, err := w.Submit(context.Background(), &fakeSubmitter{})
	assert.ErrorIs(t, err, ErrNotAtContactInfo)
}

func TestWizard_BackAndCancel(t *testing.T) {
	w := NewWizard()
	w.Back()
	assert.Equal(t, StepIndoorOutdoor, w.Step())

	w.Answer("indoorOutdoor", "outdoor")
	require.NoError(t, w.Next())
	w.Back()
	assert.Equal(t, StepIndoorOutdoor, w.Step())
	assert.Equal(t, "outdoor", w.Answers().IndoorOutdoor)

	require.NoError(t, w.Next())
	w.Cancel()
	assert.Equal(t, StepIndoorOutdoor, w.Step())
	assert.Equal(t, Answers{}, w.Answers())
}

func TestWizard_LeadFailureStaysOnContactInfo(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.Replay(janeAnswers(), nil))

	boom := errors.New("db down")
	_, err := w.Submit(context.Background(), &fakeSubmitter{leadErr: boom})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StepContactInfo, w.Step())

	first := w.TicketNumber()
	require.NotEmpty(t, first)

	sub := &fakeSubmitter{}
	result, err := w.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, first, result.TicketNumber)
}

func TestWizard_AttachmentFailureIsPartialSuccess(t *testing.T) {
	answers := janeAnswers()
	answers.HasLogo = "yes"
	logo := &Attachment{Filename: "logo.svg", ContentType: "image/svg+xml", Size: 10, Content: strings.NewReader("<svg></svg>")}

	w := NewWizard()
	require.NoError(t, w.Replay(answers, logo))

	storeErr := errors.New("storage unavailable")
	sub := &fakeSubmitter{attachErr: storeErr}
	result, err := w.Submit(context.Background(), sub)
	require.NoError(t, err)

	assert.Len(t, sub.leads, 1)
	assert.ErrorIs(t, result.AttachmentErr, storeErr)
	assert.Equal(t, StepSubmitted, w.Step())

	_, err = w.Submit(context.Background(), sub)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestWizard_ResumeKeepsTicketNumber(t *testing.T) {
	w := NewWizard()
	w.Resume("EG12345678")
	require.NoError(t, w.Replay(janeAnswers(), nil))

	result, err := w.Submit(context.Background(), &fakeSubmitter{})
	require.NoError(t, err)
	assert.Equal(t, "EG12345678", result.TicketNumber)

	w = NewWizard()
	w.Resume("not-a-ticket")
	assert.Empty(t, w.TicketNumber())
}

func TestNewTicketNumber(t *testing.T) {
	assert.True(t, IsTicketNumber(NewTicketNumber(time.Now())))
	assert.Equal(t, "EG00000042", NewTicketNumber(time.UnixMilli(42)))
	assert.Equal(t, "EG87654321", NewTicketNumber(time.UnixMilli(1_987_654_321)))
	assert.False(t, IsTicketNumber("EG-123456"))
}
