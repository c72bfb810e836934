package ioutils

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
)

// ImageService prepares cover art before it is embedded in a tag.
//
// Example usage:
//
//	svc := NewImageService()
//
//	// Shrink to at most 1000x1000 and re-encode as JPEG
//	data, mimeType, err := svc.Prepare(ctx, imageData, PrepareOptions{
//	    MaxSize:       1000,
//	    ConvertToJPEG: true,
//	})
type ImageService struct {
	quality int
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{quality: 90}
}

// PrepareOptions controls Prepare.
type PrepareOptions struct {
	// MaxSize bounds both dimensions in pixels. Zero keeps the size.
	MaxSize int

	// ConvertToJPEG re-encodes PNG input as JPEG.
	ConvertToJPEG bool
}

// DetectMIME sniffs the content type of image data.
func DetectMIME(data []byte) string {
	return http.DetectContentType(data)
}

// Prepare applies opts to data and returns the resulting bytes along with
// their MIME type. Data that needs no change is returned as is.
func (s *ImageService) Prepare(ctx context.Context, data []byte, opts PrepareOptions) ([]byte, string, error) {
	mimeType := DetectMIME(data)

	if opts.ConvertToJPEG && mimeType != "image/jpeg" {
		converted, err := s.ConvertToJPEG(ctx, data)
		if err != nil {
			return nil, "", err
		}
		data, mimeType = converted, "image/jpeg"
	}

	if opts.MaxSize > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("decode image: %w", err)
		}
		if cfg.Width > opts.MaxSize || cfg.Height > opts.MaxSize {
			resized, err := s.ResizeImage(ctx, data, opts.MaxSize, opts.MaxSize)
			if err != nil {
				return nil, "", err
			}
			data = resized
		}
	}

	return data, mimeType, nil
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved and the Catmull-Rom kernel is used for
// scaling. The result keeps the input encoding: PNG stays PNG, anything
// else is written as JPEG.
//
// Example:
//
//	// A 1500x1000 image becomes 1000x667
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Calculate new dimensions maintaining aspect ratio
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if format == "png" {
		err = png.Encode(&buf, dst)
	} else {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: s.quality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), nil
}

// ConvertToJPEG converts an image to JPEG format.
//
// Input that is already JPEG is re-encoded as well.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	return buf.Bytes(), nil
}
