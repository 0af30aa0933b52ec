package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"fingerprintapi/internal/storage"
)

var (
	ErrReaderNil     = errors.New("reader is nil")
	ErrFileNotFound  = errors.New("file not found")
	ErrInvalidBase64 = errors.New("invalid base64 payload")
)

// Upload is one file in a multipart batch.
type Upload struct {
	Reader   io.Reader
	Filename string
	Size     int64
}

// FileService stores uploaded fingerprint files and serves them back. Stored
// references look like /fingerprints/{uuid}{ext}; only the reference string is
// handed to the person store, never bytes.
type FileService interface {
	// Store writes one file under a uuid-based name, extension taken from the
	// original filename, and returns its public reference.
	Store(ctx context.Context, r io.Reader, originalFilename string, size int64) (string, error)

	// StoreBatch stores files in input order, returning references in the same
	// order. The first failure aborts the batch; files already written stay.
	StoreBatch(ctx context.Context, uploads []Upload) ([]string, error)

	// StoreBase64 decodes a base64 payload (optionally carrying a data-URL
	// prefix), resolves the extension from the hint or the byte signature, and
	// stores it under {stem}_{uuid}{ext}.
	StoreBase64(ctx context.Context, base64Data, fileName, imageFormat string) (string, error)

	// Retrieve opens a stored file by name for download. The name is reduced
	// to its basename first so it can never resolve outside the storage root.
	Retrieve(ctx context.Context, fileName string) (io.ReadCloser, string, error)
}

type fileService struct {
	store  storage.Storage
	prefix string
}

// NewFileService constructs a FileService over the given backend.
// publicPrefix is the URL-path prefix for returned references.
func NewFileService(store storage.Storage, publicPrefix string) FileService {
	return &fileService{store: store, prefix: strings.TrimRight(publicPrefix, "/")}
}

func (s *fileService) Store(ctx context.Context, r io.Reader, originalFilename string, size int64) (string, error) {
	if r == nil {
		return "", ErrReaderNil
	}
	ext := strings.ToLower(filepath.Ext(originalFilename))
	key := uuid.New().String() + ext

	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentTypeFor(key),
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	}); err != nil {
		return "", fmt.Errorf("store file: %w", err)
	}

	return s.prefix + "/" + key, nil
}

func (s *fileService) StoreBatch(ctx context.Context, uploads []Upload) ([]string, error) {
	refs := make([]string, 0, len(uploads))
	for _, u := range uploads {
		ref, err := s.Store(ctx, u.Reader, u.Filename, u.Size)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *fileService) StoreBase64(ctx context.Context, base64Data, fileName, imageFormat string) (string, error) {
	// Strip a data-URL prefix: everything up to and including the first comma.
	if i := strings.Index(base64Data, ","); i >= 0 {
		base64Data = base64Data[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", ErrInvalidBase64
	}

	ext := resolveImageExtension(raw, imageFormat)
	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	key := fmt.Sprintf("%s_%s%s", stem, uuid.New().String(), ext)

	if _, err := s.store.Put(ctx, key, bytes.NewReader(raw), storage.PutObjectOptions{
		Size:        int64(len(raw)),
		ContentType: contentTypeFor(key),
	}); err != nil {
		return "", fmt.Errorf("store base64 image: %w", err)
	}

	return s.prefix + "/" + key, nil
}

func (s *fileService) Retrieve(ctx context.Context, fileName string) (io.ReadCloser, string, error) {
	name := sanitizeFilename(fileName)
	if name == "" {
		return nil, "", ErrFileNotFound
	}

	rc, _, err := s.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", ErrFileNotFound
		}
		return nil, "", fmt.Errorf("retrieve file: %w", err)
	}
	return rc, contentTypeFor(name), nil
}

// sanitizeFilename strips any directory components, forward or backward
// slashed, leaving only the basename.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return name
}

// resolveImageExtension picks the stored extension: an explicit format hint
// wins, then the byte signature, then .jpg.
func resolveImageExtension(data []byte, providedFormat string) string {
	if providedFormat != "" {
		format := strings.ToLower(providedFormat)
		if strings.HasPrefix(format, ".") {
			return format
		}
		return "." + format
	}
	return sniffImageExtension(data)
}

// sniffImageExtension inspects well-known image byte signatures.
func sniffImageExtension(data []byte) string {
	if len(data) >= 4 {
		switch {
		case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
			return ".jpg"
		case data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
			return ".png"
		case data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46:
			return ".gif"
		case data[0] == 0x42 && data[1] == 0x4D:
			return ".bmp"
		}
	}
	// WebP: RIFF container with a WEBP fourcc at offset 8.
	if len(data) >= 12 &&
		data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
		data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50 {
		return ".webp"
	}
	return ".jpg"
}

// contentTypeFor maps a filename's extension to the download content type.
func contentTypeFor(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
