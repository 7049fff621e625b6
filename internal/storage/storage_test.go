package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/extremegraphics/lead-pipeline-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInlineStorage_RoundTrip(t *testing.T) {
	s := NewInlineStorage()
	ctx := context.Background()

	ref, size, err := s.Upload(ctx, "logo.png", "image/png", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", ref)

	rc, err := s.Download(ctx, ref)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "hello", string(body))

	assert.NoError(t, s.Delete(ctx, ref))
}

func TestParseDataURL(t *testing.T) {
	mime, payload, err := ParseDataURL("data:text/plain;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime)
	assert.Equal(t, "hi", string(payload))

	_, _, err = ParseDataURL("leads/abc.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = ParseDataURL("data:text/plain,hi")
	assert.Error(t, err)
}

func TestLocalStorage(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ref, size, err := s.Upload(ctx, "Quote.PDF", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), size)
	assert.True(t, strings.HasSuffix(ref, ".pdf"))

	rc, err := s.Download(ctx, ref)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "%PDF-1.4", string(body))

	require.NoError(t, s.Delete(ctx, ref))
	_, err = s.Download(ctx, ref)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Download(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewStorage_Modes(t *testing.T) {
	s, err := NewStorage(&config.StorageConfig{Mode: "inline"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &InlineStorage{}, s)

	s, err = NewStorage(&config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(&config.StorageConfig{Mode: "azure"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewStorage(&config.StorageConfig{Mode: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}
