package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"math"

	"golang.org/x/image/draw"
)

// ImageService decodes and scales cover art.
//
// Example usage:
//
//	svc := NewImageService()
//
//	// Fit a downloaded cover into a 24x24 pixel box
//	thumb, err := svc.Thumbnail(ctx, coverBytes, 24, 24)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Thumbnail decodes data (JPEG, PNG or GIF) and scales it to fit within
// maxWidth x maxHeight, preserving the aspect ratio. Images smaller than the
// box are scaled up.
//
// The Catmull-Rom kernel is used for high-quality resizing.
//
// Example:
//
//	// A 1500x1000 cover fitted into 30x30 becomes 30x20
//	thumb, err := svc.Thumbnail(ctx, data, 30, 30)
func (s *ImageService) Thumbnail(ctx context.Context, data []byte, maxWidth, maxHeight int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	width, height := FitSize(img.Bounds().Dx(), img.Bounds().Dy(), maxWidth, maxHeight)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	return dst, nil
}

// FitSize returns the largest size with the aspect ratio of width x height
// that fits within maxWidth x maxHeight. Both results are at least 1.
func FitSize(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 || maxWidth <= 0 || maxHeight <= 0 {
		return 1, 1
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		// Height is the limiting factor
		width = int(math.Round(float64(maxHeight) * ratio))
		height = maxHeight
	} else {
		// Width is the limiting factor
		height = int(math.Round(float64(maxWidth) / ratio))
		width = maxWidth
	}

	return max(width, 1), max(height, 1)
}
