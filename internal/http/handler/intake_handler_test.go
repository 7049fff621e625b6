package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/http/handler"
	"github.com/extremegraphics/lead-pipeline-api/internal/intake"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/extremegraphics/lead-pipeline-api/internal/storage"
	"github.com/extremegraphics/lead-pipeline-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ticketNumberPattern = regexp.MustCompile(`^EG\d{8}$`)

func createIntakeHandler(db *gorm.DB) *handler.IntakeHandler {
	logger := zap.NewNop()
	leadRepo := repository.NewLeadRepository(db)
	leads := service.NewLeadService(leadRepo, repository.NewCrmUserRepository(db), service.LeadServiceOptions{}, logger)
	files := service.NewFileService(repository.NewFileRepository(db), leadRepo, storage.NewInlineStorage(), service.MaxFileSize, nil, logger)
	tickets := service.NewTicketService(leads, leadRepo, logger)
	svc := service.NewIntakeService(leads, files, tickets, intake.NewMemoryStore(time.Hour), nil, logger)
	return handler.NewIntakeHandler(svc, service.MaxFileSize, logger)
}

func wizardFields() map[string]string {
	return map[string]string{
		"indoorOutdoor":     "indoor",
		"signType":          "acrylic_letters",
		"lighting":          "none",
		"size":              "small",
		"hasLogo":           "no",
		"name":              "Ana Torres",
		"phone":             "(786) 555-0199",
		"email":             "ana@example.com",
		"contactPreference": "email",
	}
}

func TestIntakeHandler_SubmitWizard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createIntakeHandler(db)

	t.Run("json submission creates a wizard lead", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.SubmitWizard(rr, jsonRequest(t, http.MethodPost, "/api/v1/intake/wizard", wizardFields()))

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var result domain.WizardResultDTO
		decodeBody(t, rr, &result)
		assert.Regexp(t, ticketNumberPattern, result.TicketNumber)
		assert.Equal(t, domain.LeadSourceWizard, result.Lead.Source)
		assert.Nil(t, result.File)
		assert.Empty(t, result.WarningCode)
	})

	t.Run("missing answer reports the step", func(t *testing.T) {
		fields := wizardFields()
		delete(fields, "size")

		rr := httptest.NewRecorder()
		h.SubmitWizard(rr, jsonRequest(t, http.MethodPost, "/api/v1/intake/wizard", fields))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "INCOMPLETE_STEP", decodeAPIError(t, rr).Code)
	})

	t.Run("multipart submission stores the logo", func(t *testing.T) {
		fields := wizardFields()
		fields["hasLogo"] = "yes"
		fields["email"] = "logo@example.com"

		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		for k, v := range fields {
			require.NoError(t, writer.WriteField(k, v))
		}
		part, err := writer.CreateFormFile("logo", "logo.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/intake/wizard", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()

		h.SubmitWizard(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var result domain.WizardResultDTO
		decodeBody(t, rr, &result)
		require.NotNil(t, result.File)
		assert.Equal(t, "logo.png", result.File.Filename)
	})
}

func TestIntakeHandler_Chat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createIntakeHandler(db)

	rr := httptest.NewRecorder()
	h.StartChat(rr, httptest.NewRequest(http.MethodPost, "/api/v1/intake/chat", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	var started domain.ChatIntakeReplyDTO
	decodeBody(t, rr, &started)
	require.NotEmpty(t, started.ConversationID)
	assert.NotEmpty(t, started.Replies)

	send := func(conversationID string, body interface{}) *httptest.ResponseRecorder {
		req := jsonRequest(t, http.MethodPost, "/api/v1/intake/chat/"+conversationID+"/messages", body)
		req = req.WithContext(withChiContext(req.Context(), map[string]string{"conversationId": conversationID}))
		rr := httptest.NewRecorder()
		h.SendMessage(rr, req)
		return rr
	}

	t.Run("reply to a known conversation", func(t *testing.T) {
		rr := send(started.ConversationID, map[string]string{"message": "Hola, necesito un letrero"})

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var reply domain.ChatIntakeReplyDTO
		decodeBody(t, rr, &reply)
		assert.Equal(t, started.ConversationID, reply.ConversationID)
		assert.NotEmpty(t, reply.Replies)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		rr := send("does-not-exist", map[string]string{"message": "hello"})

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "CONVERSATION_NOT_FOUND", decodeAPIError(t, rr).Code)
	})

	t.Run("overlong message fails validation", func(t *testing.T) {
		rr := send(started.ConversationID, map[string]string{"message": strings.Repeat("a", 2001)})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		apiErr := decodeAPIError(t, rr)
		assert.Equal(t, domain.CodeValidation, apiErr.Code)
		assert.Contains(t, apiErr.Fields, "message")
	})

	t.Run("empty message", func(t *testing.T) {
		rr := send(started.ConversationID, map[string]string{"message": "   "})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "EMPTY_MESSAGE", decodeAPIError(t, rr).Code)
	})
}
