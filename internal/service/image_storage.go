package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/storage"

	"github.com/google/uuid"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type imageStorageService struct {
	store storage.StorageInterface
	cfg   config.StorageConfig
}

func NewImageStorageService(store storage.StorageInterface, cfg config.StorageConfig) ImageService {
	return &imageStorageService{store: store, cfg: cfg}
}

func (s *imageStorageService) maxBytes() int64 {
	return s.cfg.MaxFileSize * 1024 * 1024
}

// objectKey builds images/{user}/{uuid}{ext} after checking the content type.
func (s *imageStorageService) objectKey(actor domain.Actor, filename, contentType string) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !slices.Contains(s.cfg.AllowedTypes, contentType) {
		return "", domain.Validationf("content type %q is not allowed", contentType)
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = strings.ToLower(path.Ext(filename))
	}
	return fmt.Sprintf("images/%s/%s%s", actor.UserID, uuid.NewString(), ext), nil
}

func (s *imageStorageService) Upload(ctx context.Context, actor domain.Actor, filename, contentType string, size int64, r io.Reader) (*UploadResult, error) {
	logger.EnterMethod("imageStorageService.Upload", "userID", actor.UserID, "filename", filename, "size", size)
	if err := requireUser(actor); err != nil {
		logger.ExitMethodWithError("imageStorageService.Upload", err)
		return nil, err
	}
	if size <= 0 {
		err := domain.Validationf("file is empty")
		logger.ExitMethodWithError("imageStorageService.Upload", err)
		return nil, err
	}
	if size > s.maxBytes() {
		err := domain.Validationf("file exceeds the %d MB limit", s.cfg.MaxFileSize)
		logger.ExitMethodWithError("imageStorageService.Upload", err)
		return nil, err
	}
	key, err := s.objectKey(actor, filename, contentType)
	if err != nil {
		logger.ExitMethodWithError("imageStorageService.Upload", err)
		return nil, err
	}

	url, err := s.store.Upload(ctx, key, contentType, io.LimitReader(r, s.maxBytes()))
	if err != nil {
		logger.ExitMethodWithError("imageStorageService.Upload", err, "key", key)
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	logger.ExitMethod("imageStorageService.Upload", "key", key)
	return &UploadResult{Key: key, URL: url}, nil
}

// PresignUpload lets the client PUT the image straight to storage. URL is the
// address the object will be served from once uploaded.
func (s *imageStorageService) PresignUpload(ctx context.Context, actor domain.Actor, filename, contentType string) (*UploadResult, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	key, err := s.objectKey(actor, filename, contentType)
	if err != nil {
		return nil, err
	}
	uploadURL, err := s.store.GeneratePresignedUploadURL(ctx, key, contentType, s.cfg.URLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}
	return &UploadResult{
		Key:       key,
		URL:       s.store.PublicURL(key),
		UploadURL: uploadURL,
		ExpiresAt: time.Now().Add(s.cfg.URLExpiry).Unix(),
	}, nil
}
