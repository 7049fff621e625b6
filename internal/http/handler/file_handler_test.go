package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/http/handler"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/service"
	"github.com/extremegraphics/lead-pipeline-api/internal/storage"
	"github.com/extremegraphics/lead-pipeline-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createFileHandler(t *testing.T, db *gorm.DB, maxSize int64) *handler.FileHandler {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	logger := zap.NewNop()
	svc := service.NewFileService(
		repository.NewFileRepository(db),
		repository.NewLeadRepository(db),
		store,
		maxSize,
		nil,
		logger,
	)
	return handler.NewFileHandler(svc, logger)
}

// multipartUpload builds a multipart request with a "file" part and the
// given form fields
func multipartUpload(t *testing.T, target, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestFileHandler_Upload(t *testing.T) {
	db := testutil.SetupTestDB(t)
	lead := testutil.CreateLead(t, db)
	leadID := strconv.FormatInt(lead.ID, 10)

	t.Run("rejects non multipart body", func(t *testing.T) {
		h := createFileHandler(t, db, service.MaxFileSize)
		req := jsonRequest(t, http.MethodPost, "/api/v1/files", map[string]string{"leadId": leadID})
		rr := httptest.NewRecorder()

		h.Upload(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, domain.CodeInvalidContentType, decodeAPIError(t, rr).Code)
	})

	t.Run("stores file, lists and downloads it", func(t *testing.T) {
		h := createFileHandler(t, db, service.MaxFileSize)
		content := []byte("vector artwork")

		rr := httptest.NewRecorder()
		h.Upload(rr, multipartUpload(t, "/api/v1/files", "logo.svg", content, map[string]string{"leadId": leadID}))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var uploaded domain.FileDTO
		decodeBody(t, rr, &uploaded)
		assert.Equal(t, "logo.svg", uploaded.Filename)
		assert.Equal(t, int64(len(content)), uploaded.FileSize)
		require.NotNil(t, uploaded.LeadID)
		assert.Equal(t, lead.ID, *uploaded.LeadID)

		rr = httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/files?leadId="+leadID, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var list domain.FileListResponse
		decodeBody(t, rr, &list)
		require.Len(t, list.Files, 1)
		assert.Equal(t, uploaded.ID, list.Files[0].ID)

		fileID := strconv.FormatInt(uploaded.ID, 10)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+fileID+"/content", nil)
		req = req.WithContext(withChiContext(req.Context(), map[string]string{"id": fileID}))
		rr = httptest.NewRecorder()
		h.Download(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, content, rr.Body.Bytes())
		assert.Contains(t, rr.Header().Get("Content-Disposition"), "logo.svg")
	})

	t.Run("size ceiling", func(t *testing.T) {
		h := createFileHandler(t, db, 8)

		rr := httptest.NewRecorder()
		h.Upload(rr, multipartUpload(t, "/api/v1/files", "ok.txt", []byte("12345678"), map[string]string{"leadId": leadID}))
		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		rr = httptest.NewRecorder()
		h.Upload(rr, multipartUpload(t, "/api/v1/files", "big.txt", []byte("123456789"), map[string]string{"leadId": leadID}))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "FILE_TOO_LARGE", decodeAPIError(t, rr).Code)
	})

	t.Run("unknown lead", func(t *testing.T) {
		h := createFileHandler(t, db, service.MaxFileSize)

		rr := httptest.NewRecorder()
		h.Upload(rr, multipartUpload(t, "/api/v1/files", "a.txt", []byte("hello"), map[string]string{"leadId": "999999"}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "LEAD_NOT_FOUND", decodeAPIError(t, rr).Code)
	})
}

func TestFileHandler_ListValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createFileHandler(t, db, service.MaxFileSize)

	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{name: "missing lead id", query: "", wantCode: "MISSING_LEAD_ID"},
		{name: "malformed lead id", query: "?leadId=abc", wantCode: "INVALID_LEAD_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/files"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.wantCode, decodeAPIError(t, rr).Code)
		})
	}
}

func TestFileHandler_DeleteRequiresAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := createFileHandler(t, db, service.MaxFileSize)
	lead := testutil.CreateLead(t, db)

	rr := httptest.NewRecorder()
	h.Upload(rr, multipartUpload(t, "/api/v1/files", "a.txt", []byte("hello"),
		map[string]string{"leadId": strconv.FormatInt(lead.ID, 10)}))
	require.Equal(t, http.StatusCreated, rr.Code)
	var uploaded domain.FileDTO
	decodeBody(t, rr, &uploaded)
	fileID := strconv.FormatInt(uploaded.ID, 10)

	agent := testutil.CreateCrmUser(t, db, domain.CrmRoleAgent)
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/files/"+fileID, nil)
	req = req.WithContext(withChiContext(testutil.CrmContext(agent), map[string]string{"id": fileID}))
	rr = httptest.NewRecorder()
	h.Delete(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/files/"+fileID, nil)
	req = req.WithContext(withChiContext(testutil.AdminContext(), map[string]string{"id": fileID}))
	rr = httptest.NewRecorder()
	h.Delete(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "deleted"))
}
