package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/extremegraphics/lead-pipeline-api/internal/auth"
	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"github.com/extremegraphics/lead-pipeline-api/internal/mapper"
	"github.com/extremegraphics/lead-pipeline-api/internal/metrics"
	"github.com/extremegraphics/lead-pipeline-api/internal/repository"
	"github.com/extremegraphics/lead-pipeline-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxFileSize is the attachment ceiling in bytes (10 MiB, inclusive)
const MaxFileSize int64 = 10 * 1024 * 1024

// UploadInput describes one attachment on its way to storage
type UploadInput struct {
	LeadID      int64
	QuoteID     *int64
	Filename    string
	ContentType string
	// Size is the size declared by the client, or -1 when unknown
	Size int64
	Data io.Reader
}

// FileService handles lead attachments. A rejected upload leaves neither a
// row nor a stored blob behind.
type FileService struct {
	fileRepo *repository.FileRepository
	leadRepo *repository.LeadRepository
	storage  storage.Storage
	maxSize  int64
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewFileService(
	fileRepo *repository.FileRepository,
	leadRepo *repository.LeadRepository,
	store storage.Storage,
	maxSize int64,
	m *metrics.Metrics,
	logger *zap.Logger,
) *FileService {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return &FileService{
		fileRepo: fileRepo,
		leadRepo: leadRepo,
		storage:  store,
		maxSize:  maxSize,
		metrics:  m,
		logger:   logger,
	}
}

// MaxSize returns the configured upload ceiling
func (s *FileService) MaxSize() int64 {
	return s.maxSize
}

func (s *FileService) Upload(ctx context.Context, in UploadInput) (*domain.FileDTO, error) {
	if in.Data == nil || strings.TrimSpace(in.Filename) == "" {
		return nil, ErrFileRequired
	}
	if in.LeadID <= 0 {
		return nil, ErrInvalidLeadID
	}
	if in.Size > s.maxSize {
		s.metrics.FileUploaded("rejected")
		return nil, ErrFileTooLarge
	}

	exists, err := s.leadRepo.Exists(ctx, in.LeadID)
	if err != nil {
		return nil, fmt.Errorf("failed to check lead: %w", err)
	}
	if !exists {
		return nil, ErrLeadReferenceNotFound
	}

	// Read one byte past the ceiling so oversize bodies are caught even when
	// the declared size lied
	content, err := io.ReadAll(io.LimitReader(in.Data, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxSize {
		s.metrics.FileUploaded("rejected")
		return nil, ErrFileTooLarge
	}
	if len(content) == 0 {
		return nil, ErrFileRequired
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}
	filename := filepath.Base(in.Filename)

	ref, size, err := s.storage.Upload(ctx, filename, contentType, bytes.NewReader(content))
	if err != nil {
		s.metrics.FileUploaded("failed")
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	leadID := in.LeadID
	file := &domain.File{
		LeadID:   &leadID,
		QuoteID:  in.QuoteID,
		Filename: filename,
		FileURL:  ref,
		FileType: contentType,
		FileSize: size,
	}
	if user, ok := auth.FromContext(ctx); ok && user.CrmUserID != nil {
		file.UploadedBy = user.CrmUserID
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		if delErr := s.storage.Delete(ctx, ref); delErr != nil {
			s.logger.Warn("failed to remove orphaned blob", zap.Error(delErr))
		}
		s.metrics.FileUploaded("failed")
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	s.metrics.FileUploaded("stored")
	s.logger.Info("file uploaded",
		zap.Int64("file_id", file.ID),
		zap.Int64("lead_id", leadID),
		zap.Int64("size", size))

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

// ListByLead returns the files of a lead, newest first
func (s *FileService) ListByLead(ctx context.Context, leadID int64) (*domain.FileListResponse, error) {
	if leadID <= 0 {
		return nil, ErrInvalidLeadID
	}
	files, err := s.fileRepo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	dtos := make([]domain.FileDTO, len(files))
	for i := range files {
		dtos[i] = mapper.ToFileDTO(&files[i])
	}
	return &domain.FileListResponse{Files: dtos}, nil
}

// Download opens the stored content of a file. The caller closes the reader.
func (s *FileService) Download(ctx context.Context, id int64) (*domain.FileDTO, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to get file: %w", err)
	}

	reader, err := s.storage.Download(ctx, file.FileURL)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to download file: %w", err)
	}

	dto := mapper.ToFileDTO(file)
	return &dto, reader, nil
}

// Delete removes the file row and its blob. Admin only.
func (s *FileService) Delete(ctx context.Context, id int64) error {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}
	if !user.IsAdmin() {
		return ErrForbidden
	}

	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to get file: %w", err)
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if err := s.storage.Delete(ctx, file.FileURL); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to delete file blob", zap.Int64("file_id", id), zap.Error(err))
	}

	s.logger.Info("file deleted", zap.Int64("file_id", id), zap.String("deleted_by", user.AuthUserID))
	return nil
}
