package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var ErrInvalidKey = errors.New("invalid storage key")

// StorageInterface is the object storage surface used for appliance and
// category images. Implementations: local filesystem (mock) and S3.
type StorageInterface interface {
	// Upload stores the object and returns its public URL
	Upload(ctx context.Context, key, contentType string, reader io.Reader) (string, error)

	// GeneratePresignedUploadURL lets a client PUT the object directly
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	DeleteFile(ctx context.Context, key string) error

	// PublicURL is the stable URL stored on appliances and categories
	PublicURL(key string) string
}

// LocalFiles is implemented by the mock backend so the HTTP layer can serve
// its upload and download URLs.
type LocalFiles interface {
	SaveFile(key string, reader io.Reader) error
	ReadFile(key string) (io.ReadCloser, error)
}

// CleanKey rejects absolute keys and keys escaping the storage root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
