package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// InlineStorage keeps the whole file inside its reference as a
// data:<mime>;base64,<payload> URL. Nothing is written anywhere else.
type InlineStorage struct{}

func NewInlineStorage() *InlineStorage {
	return &InlineStorage{}
}

func (s *InlineStorage) Upload(_ context.Context, _ string, contentType string, data io.Reader) (string, int64, error) {
	var buf bytes.Buffer
	size, err := io.Copy(&buf, data)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read upload: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ref := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return ref, size, nil
}

func (s *InlineStorage) Download(_ context.Context, ref string) (io.ReadCloser, error) {
	_, payload, err := ParseDataURL(ref)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

// Delete is a no-op, the bytes go away with the row
func (s *InlineStorage) Delete(context.Context, string) error {
	return nil
}

// ParseDataURL splits a base64 data URL into its MIME type and payload
func ParseDataURL(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, ErrNotFound
	}
	header, encoded, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("malformed data url")
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("malformed data url: %w", err)
	}
	return strings.TrimSuffix(header, ";base64"), payload, nil
}
