// Package storage holds the blob backends behind lead file attachments.
// A backend returns an opaque reference on upload which is what the files
// table keeps in file_url.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/extremegraphics/lead-pipeline-api/internal/config"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Download for an unknown reference
var ErrNotFound = errors.New("stored object not found")

// Storage defines the interface for file storage operations
type Storage interface {
	Upload(ctx context.Context, filename string, contentType string, data io.Reader) (string, int64, error)
	Download(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

const (
	ModeInline = "inline"
	ModeLocal  = "local"
	ModeAzure  = "azure"
)

// NewStorage picks the backend named by cfg.Mode
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case ModeInline, "":
		return NewInlineStorage(), nil
	case ModeLocal:
		return NewLocalStorage(cfg.LocalBasePath)
	case ModeAzure, "cloud":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// countingReader tracks how many bytes have passed through r
type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}
