package storage

import (
	"context"
	"fmt"

	appconfig "github.com/01moynul/taptosell-admin/internal/config"
)

type FactoryResult struct {
	Driver  string
	Storage Storage
}

// FromConfig builds the storage driver selected by cfg.StorageDriver.
func FromConfig(ctx context.Context, cfg *appconfig.Config) (FactoryResult, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return FactoryResult{Driver: "local", Storage: NewLocal(cfg.LocalUploadDir, cfg.LocalUploadURLPrefix)}, nil

	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" || cfg.S3PublicBaseURL == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET, S3_PUBLIC_BASE_URL required")
		}
		s, err := NewS3(ctx, S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Storage: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.StorageDriver)
	}
}
