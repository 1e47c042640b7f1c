//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"diary-bot/internal/domain/port"
)

// PhotoNormalizer приводит фото блюда к JPEG с ограниченной стороной
type PhotoNormalizer struct {
	MaxSide      int
	MinImageSide int
	JPEGQuality  int
}

// NewPhotoNormalizer создаёт нормализатор на OpenCV
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

// Normalize декодирует фото, уменьшает до MaxSide по большей стороне и кодирует в JPEG
func (n *PhotoNormalizer) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	_ = ctx
	mat, err := decodeToMat(data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Cols() < n.MinImageSide || mat.Rows() < n.MinImageSide {
		return nil, fmt.Errorf("image is too small (%dx%d)", mat.Cols(), mat.Rows())
	}

	if mat.Cols() > n.MaxSide || mat.Rows() > n.MaxSide {
		w, h := scaledSize(mat.Cols(), mat.Rows(), n.MaxSide)
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(mat, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationArea)
		return encodeJPEG(resized, n.JPEGQuality)
	}
	return encodeJPEG(mat, n.JPEGQuality)
}

func encodeJPEG(mat gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

var _ port.PhotoProcessor = (*PhotoNormalizer)(nil)
