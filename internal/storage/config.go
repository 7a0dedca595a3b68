package storage

import (
	"context"
	"fmt"

	"appliance-rental-backend/internal/config"
)

// New builds the backend selected by cfg.Type
func New(ctx context.Context, cfg config.StorageConfig) (StorageInterface, error) {
	switch cfg.Type {
	case "", "mock":
		return NewMockStorageService(cfg.BaseURL, cfg.UploadDir)
	case "s3":
		return NewS3StorageService(ctx, S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PublicBaseURL:   cfg.S3.PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
