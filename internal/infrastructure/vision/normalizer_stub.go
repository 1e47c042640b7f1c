//go:build !gocv
// +build !gocv

package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"diary-bot/internal/domain/port"
)

// PhotoNormalizer без OpenCV: проверяет формат, JPEG пропускает как есть,
// PNG перекодирует в JPEG. Размер не меняется.
type PhotoNormalizer struct {
	MaxSide      int
	MinImageSide int
	JPEGQuality  int
}

// NewPhotoNormalizer создаёт нормализатор-заглушку (без OpenCV).
func NewPhotoNormalizer(maxSide int) *PhotoNormalizer {
	if maxSide <= 0 {
		maxSide = defaultMaxSide
	}
	return &PhotoNormalizer{
		MaxSide:      maxSide,
		MinImageSide: defaultMinSide,
		JPEGQuality:  defaultJPEGQuality,
	}
}

// Normalize проверяет, что data это JPEG или PNG
func (n *PhotoNormalizer) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	_ = ctx
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width < n.MinImageSide || cfg.Height < n.MinImageSide {
		return nil, fmt.Errorf("image is too small (%dx%d)", cfg.Width, cfg.Height)
	}

	switch format {
	case "jpeg":
		return data, nil
	case "png":
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.JPEGQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
}

var _ port.PhotoProcessor = (*PhotoNormalizer)(nil)
