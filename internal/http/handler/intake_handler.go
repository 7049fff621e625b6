package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/intake"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// IntakeHandler exposes the public quote wizard and chat assistant
type IntakeHandler struct {
	intakeService *service.IntakeService
	maxUploadSize int64
	logger        *zap.Logger
}

func NewIntakeHandler(intakeService *service.IntakeService, maxUploadSize int64, logger *zap.Logger) *IntakeHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = service.MaxFileSize
	}
	return &IntakeHandler{
		intakeService: intakeService,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

func wizardFromForm(r *http.Request) *domain.WizardSubmission {
	return &domain.WizardSubmission{
		IndoorOutdoor:     r.FormValue("indoorOutdoor"),
		SignType:          r.FormValue("signType"),
		Lighting:          r.FormValue("lighting"),
		Size:              r.FormValue("size"),
		HasLogo:           r.FormValue("hasLogo"),
		Name:              r.FormValue("name"),
		Phone:             r.FormValue("phone"),
		Email:             r.FormValue("email"),
		ContactPreference: r.FormValue("contactPreference"),
		TicketNumber:      r.FormValue("ticketNumber"),
	}
}

func attachment(file multipart.File, header *multipart.FileHeader) *intake.Attachment {
	if file == nil {
		return nil
	}
	return &intake.Attachment{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
}

// SubmitWizard godoc
// @Summary Submit the quote wizard
// @Description Accepts JSON, or multipart/form-data with the same fields plus a `logo` file.
// @Description A failed logo upload keeps the lead and returns warningCode ATTACHMENT_FAILED.
// @Tags Intake
// @Accept json,mpfd
// @Produce json
// @Param request body domain.WizardSubmission true "Wizard answers"
// @Success 201 {object} domain.WizardResultDTO
// @Failure 400 {object} domain.APIError
// @Router /intake/wizard [post]
func (h *IntakeHandler) SubmitWizard(w http.ResponseWriter, r *http.Request) {
	var (
		req  *domain.WizardSubmission
		logo *intake.Attachment
	)

	if isMultipart(r) {
		if err := parseMultipart(w, r, h.maxUploadSize); err != nil {
			handleError(w, h.logger, err, "failed to parse wizard form")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := formFile(r, "logo")
		if err != nil {
			handleError(w, h.logger, err, "failed to read wizard logo")
			return
		}
		if file != nil {
			defer file.Close()
		}
		req = wizardFromForm(r)
		logo = attachment(file, header)
	} else {
		req = &domain.WizardSubmission{}
		if !decodeJSON(w, r, req) {
			return
		}
	}

	result, err := h.intakeService.SubmitWizard(r.Context(), req, logo)
	if err != nil {
		handleError(w, h.logger, err, "failed to submit wizard")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// RetryLogo godoc
// @Summary Retry the logo upload of a submitted wizard
// @Tags Intake
// @Accept mpfd
// @Produce json
// @Param id path int true "Lead ID"
// @Param logo formData file true "Logo"
// @Success 201 {object} domain.FileDTO
// @Failure 400 {object} domain.APIError
// @Router /intake/wizard/{id}/logo [post]
func (h *IntakeHandler) RetryLogo(w http.ResponseWriter, r *http.Request) {
	leadID, ok := resourceID(w, r)
	if !ok {
		return
	}
	if !isMultipart(r) {
		respondWithError(w, http.StatusBadRequest, domain.CodeInvalidContentType, "Content-Type must be multipart/form-data")
		return
	}
	if err := parseMultipart(w, r, h.maxUploadSize); err != nil {
		handleError(w, h.logger, err, "failed to parse logo upload")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := formFile(r, "logo")
	if err != nil {
		handleError(w, h.logger, err, "failed to read logo")
		return
	}
	if file != nil {
		defer file.Close()
	}

	fileDTO, err := h.intakeService.RetryAttachment(r.Context(), leadID, attachment(file, header))
	if err != nil {
		handleError(w, h.logger, err, "failed to store logo")
		return
	}

	respondJSON(w, http.StatusCreated, fileDTO)
}

// StartChat godoc
// @Summary Start a chat conversation
// @Tags Intake
// @Produce json
// @Success 201 {object} domain.ChatIntakeReplyDTO
// @Router /intake/chat [post]
func (h *IntakeHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	reply, err := h.intakeService.StartChat(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "failed to start chat")
		return
	}

	respondJSON(w, http.StatusCreated, reply)
}

// SendMessage godoc
// @Summary Send a visitor message
// @Tags Intake
// @Accept json
// @Produce json
// @Param conversationId path string true "Conversation ID"
// @Param request body domain.ChatIntakeMessageRequest true "Message"
// @Success 200 {object} domain.ChatIntakeReplyDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /intake/chat/{conversationId}/messages [post]
func (h *IntakeHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatIntakeMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	reply, err := h.intakeService.HandleChat(r.Context(), chi.URLParam(r, "conversationId"), req.Message)
	if err != nil {
		handleError(w, h.logger, err, "failed to handle chat message")
		return
	}

	respondJSON(w, http.StatusOK, reply)
}
