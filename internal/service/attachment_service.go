package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkovac/chatter/internal/domain"
	"github.com/dkovac/chatter/pkg/filemeta"
	"github.com/google/uuid"
)

// MaxAttachmentSize is the upload ceiling (50 MB).
const MaxAttachmentSize = 50 << 20

var (
	ErrAttachmentTooLarge = errors.New("attachment exceeds the size limit")
	ErrDisallowedType     = errors.New("attachment type is not allowed")
)

// allowedAttachmentTypes mirrors what the chat client offers in its file
// picker: documents, common image formats, and plain text.
var allowedAttachmentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"application/vnd.ms-powerpoint":                                     {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain":    {},
	"image/jpeg":    {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/svg+xml": {},
}

// AttachmentService stores uploaded chat attachments on disk. It knows
// nothing about chat semantics; it validates, stores, and describes files.
type AttachmentService struct {
	dir       string
	urlPrefix string
}

func NewAttachmentService(dir string) (*AttachmentService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating attachment dir: %w", err)
	}
	return &AttachmentService{dir: dir, urlPrefix: "/attachments/"}, nil
}

// Ingest validates and stores one uploaded file. The stored name is a
// generated UUID plus the original extension; the original name survives only
// as display metadata, never as a path component. A rejected or failed upload
// leaves no file behind.
func (s *AttachmentService) Ingest(r io.Reader, originalName, mimeType string, declaredSize int64) (*domain.AttachmentMeta, error) {
	if declaredSize > MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}
	if _, ok := allowedAttachmentTypes[mimeType]; !ok {
		return nil, ErrDisallowedType
	}

	storageName := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.dir, storageName)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating attachment file: %w", err)
	}

	// The declared size comes from the multipart header; cap the actual
	// bytes too in case the two disagree.
	n, err := io.Copy(f, io.LimitReader(r, MaxAttachmentSize+1))
	if err == nil && n > MaxAttachmentSize {
		err = ErrAttachmentTooLarge
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("writing attachment file: %w", cerr)
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &domain.AttachmentMeta{
		StorageName:   storageName,
		OriginalName:  originalName,
		MimeType:      mimeType,
		SizeBytes:     n,
		URL:           s.urlPrefix + storageName,
		IconGlyph:     filemeta.IconFor(mimeType),
		FormattedSize: filemeta.FormatSize(n),
	}, nil
}

// Dir returns the storage directory, for the static file mount.
func (s *AttachmentService) Dir() string {
	return s.dir
}
