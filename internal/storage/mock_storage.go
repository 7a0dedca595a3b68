package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"appliance-rental-backend/internal/logger"

	"github.com/google/uuid"
)

// MockStorageService implements image storage using local filesystem
// This is for demo/testing without AWS S3
type MockStorageService struct {
	baseURL   string // Server URL (e.g., "http://localhost:8080")
	imagesDir string
}

// NewMockStorageService creates a new mock storage service
func NewMockStorageService(baseURL, uploadsDir string) (*MockStorageService, error) {
	imagesDir := filepath.Join(uploadsDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &MockStorageService{baseURL: baseURL, imagesDir: imagesDir}, nil
}

func (m *MockStorageService) path(key string) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.imagesDir, filepath.FromSlash(cleaned)), nil
}

func (m *MockStorageService) Upload(ctx context.Context, key, contentType string, reader io.Reader) (string, error) {
	if err := m.SaveFile(key, reader); err != nil {
		return "", err
	}
	return m.PublicURL(key), nil
}

// GeneratePresignedUploadURL generates a mock upload URL pointing to the server
func (m *MockStorageService) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	if _, err := CleanKey(key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/storage/upload/%s?key=%s", m.baseURL, uuid.NewString(), url.QueryEscape(key)), nil
}

// GeneratePresignedDownloadURL generates a mock download URL
func (m *MockStorageService) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if _, err := CleanKey(key); err != nil {
		return "", err
	}
	return m.PublicURL(key), nil
}

func (m *MockStorageService) PublicURL(key string) string {
	return fmt.Sprintf("%s/api/v1/storage/download?key=%s", m.baseURL, url.QueryEscape(key))
}

// FileExists checks if file exists in local filesystem
func (m *MockStorageService) FileExists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := m.path(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

// DeleteFile deletes file from local filesystem
func (m *MockStorageService) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := m.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SaveFile saves uploaded file to local filesystem
func (m *MockStorageService) SaveFile(key string, reader io.Reader) error {
	fullPath, err := m.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, reader)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Debug("Stored file", "key", key, "bytes", n)
	return nil
}

// ReadFile reads file from local filesystem
func (m *MockStorageService) ReadFile(key string) (io.ReadCloser, error) {
	fullPath, err := m.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}
