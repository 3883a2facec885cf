package storage

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxDimension = 1600
	defaultJPEGQuality  = 82
)

// Optimizer shrinks raster images whose longest side exceeds MaxDimension.
// GIF and SVG files are passed through untouched.
type Optimizer struct {
	MaxDimension int
	JPEGQuality  int
	Logger       logrus.FieldLogger
}

func NewOptimizer(maxDimension int, logger logrus.FieldLogger) *Optimizer {
	if maxDimension <= 0 {
		maxDimension = defaultMaxDimension
	}
	return &Optimizer{MaxDimension: maxDimension, JPEGQuality: defaultJPEGQuality, Logger: logger}
}

// Optimize returns the bytes to store for an image named filename.
func (o *Optimizer) Optimize(data []byte, filename string) ([]byte, error) {
	ext, err := ImageExt(filename)
	if err != nil {
		return nil, err
	}
	if ext == ".svg" || ext == ".gif" {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= o.MaxDimension && height <= o.MaxDimension {
		return data, nil
	}

	resized := imaging.Fit(img, o.MaxDimension, o.MaxDimension, imaging.Lanczos)

	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(o.JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	if o.Logger != nil {
		o.Logger.WithFields(logrus.Fields{
			"file":        filename,
			"from":        fmt.Sprintf("%dx%d", width, height),
			"to":          fmt.Sprintf("%dx%d", resized.Bounds().Dx(), resized.Bounds().Dy()),
			"output_size": buf.Len(),
		}).Debug("image resized")
	}
	return buf.Bytes(), nil
}
