// Package storage stores uploaded product images on local disk or S3.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedType is returned for files that are not accepted images.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrForeignURL is returned for URLs the driver did not hand out.
	ErrForeignURL = errors.New("url does not belong to this storage")
)

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
	// KeyOf returns the key behind a URL returned by Put.
	KeyOf(url string) (string, bool)
}

var imageTypes = map[string]string{
	".gif":  "image/gif",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
}

// ImageExt returns the lower-cased extension of filename when it is an
// accepted image type, or ErrUnsupportedType.
func ImageExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageTypes[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// ContentType returns the MIME type of an accepted image extension.
func ContentType(ext string) string {
	return imageTypes[strings.ToLower(ext)]
}
