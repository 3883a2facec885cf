package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/01moynul/taptosell-admin/internal/productform"
	"github.com/01moynul/taptosell-admin/internal/storage"
)

// ErrFileTooLarge is returned when an upload exceeds the configured limit.
var ErrFileTooLarge = errors.New("file too large")

// ImageUploader stores product images through a storage driver, shrinking
// oversized raster images first.
type ImageUploader struct {
	storage   storage.Storage
	optimizer *storage.Optimizer
	maxBytes  int64
	log       logrus.FieldLogger
}

func NewImageUploader(s storage.Storage, optimizer *storage.Optimizer, maxBytes int64, logger logrus.FieldLogger) *ImageUploader {
	return &ImageUploader{
		storage:   s,
		optimizer: optimizer,
		maxBytes:  maxBytes,
		log:       logger.WithField("component", "image_upload"),
	}
}

// Upload implements productform.Uploader.
func (u *ImageUploader) Upload(ctx context.Context, f productform.File) (string, error) {
	// 1. --- Check type ---
	ext, err := storage.ImageExt(f.Name)
	if err != nil {
		return "", err
	}

	// 2. --- Read with limit ---
	reader := f.Body
	if u.maxBytes > 0 {
		reader = io.LimitReader(f.Body, u.maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if u.maxBytes > 0 && int64(len(data)) > u.maxBytes {
		return "", ErrFileTooLarge
	}

	// 3. --- Optimize ---
	if u.optimizer != nil {
		if data, err = u.optimizer.Optimize(data, f.Name); err != nil {
			return "", err
		}
	}

	// 4. --- Store ---
	contentType := f.ContentType
	if contentType == "" {
		contentType = storage.ContentType(ext)
	}
	res, err := u.storage.Put(ctx, bytes.NewReader(data), storage.PutInput{
		Filename:    f.Name,
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	u.log.WithFields(logrus.Fields{"key": res.Key, "bytes": len(data)}).Info("image stored")
	return res.URL, nil
}

// Delete implements productform.Uploader. It removes an image stored by Upload.
func (u *ImageUploader) Delete(ctx context.Context, url string) error {
	key, ok := u.storage.KeyOf(url)
	if !ok {
		return fmt.Errorf("delete %s: %w", url, storage.ErrForeignURL)
	}
	if err := u.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	u.log.WithField("key", key).Info("image deleted")
	return nil
}
