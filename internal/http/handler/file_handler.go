package handler

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"go.uber.org/zap"
)

const (
	// multipartOverhead is the allowance for form fields and part headers on
	// top of the file ceiling
	multipartOverhead = 1 << 20
	multipartMemory   = 32 << 20
)

type FileHandler struct {
	fileService *service.FileService
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// parseMultipart bounds the request body and parses the form
func parseMultipart(w http.ResponseWriter, r *http.Request, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.ErrFileTooLarge
		}
		return service.ErrFileRequired
	}
	return nil
}

// formFile returns the named file part, or nil when the form has none
func formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, service.ErrFileRequired
	}
	return file, header, nil
}

func parseFormID(value string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Upload godoc
// @Summary Upload file
// @Description Attaches a file of at most 10 MiB to a lead
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param leadId formData int true "Lead ID"
// @Param quoteId formData int false "Quote ID"
// @Success 201 {object} domain.FileDTO
// @Failure 400 {object} domain.APIError
// @Router /files [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		respondWithError(w, http.StatusBadRequest, domain.CodeInvalidContentType, "Content-Type must be multipart/form-data")
		return
	}
	if err := parseMultipart(w, r, h.fileService.MaxSize()); err != nil {
		handleError(w, h.logger, err, "failed to parse upload")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := formFile(r, "file")
	if err != nil {
		handleError(w, h.logger, err, "failed to read upload")
		return
	}
	if file == nil {
		handleError(w, h.logger, service.ErrFileRequired, "failed to read upload")
		return
	}
	defer file.Close()

	in := service.UploadInput{
		LeadID:      parseFormID(r.FormValue("leadId")),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}
	if quoteID := parseFormID(r.FormValue("quoteId")); quoteID > 0 {
		in.QuoteID = &quoteID
	}

	fileDTO, err := h.fileService.Upload(r.Context(), in)
	if err != nil {
		handleError(w, h.logger, err, "failed to upload file")
		return
	}

	respondJSON(w, http.StatusCreated, fileDTO)
}

// List godoc
// @Summary List files of a lead
// @Tags Files
// @Produce json
// @Param leadId query int true "Lead ID"
// @Success 200 {object} domain.FileListResponse
// @Failure 400 {object} domain.APIError
// @Router /files [get]
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("leadId"))
	if raw == "" {
		handleError(w, h.logger, service.ErrMissingLeadID, "failed to list files")
		return
	}
	leadID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		handleError(w, h.logger, service.ErrInvalidLeadID, "failed to list files")
		return
	}

	result, err := h.fileService.ListByLead(r.Context(), leadID)
	if err != nil {
		handleError(w, h.logger, err, "failed to list files")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Download godoc
// @Summary Download file content
// @Tags Files
// @Produce application/octet-stream
// @Param id path int true "File ID"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Router /files/{id}/content [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	meta, reader, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "failed to download file")
		return
	}
	defer reader.Close()

	contentType := meta.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": meta.Filename}))
	if meta.FileSize > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.FileSize, 10))
	}

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("file download interrupted", zap.Int64("file_id", id), zap.Error(err))
	}
}

// Delete godoc
// @Summary Delete file
// @Tags Files
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} domain.MessageResponse
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		handleError(w, h.logger, err, "failed to delete file")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "File deleted successfully"})
}
