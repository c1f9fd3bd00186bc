package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // để DecodeConfig nhận diện và từ chối rõ ràng
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

var (
	ErrImageTooLarge    = errors.New("image exceeds maximum size")
	ErrUnsupportedImage = errors.New("image format not allowed (only jpeg/png)")
)

const (
	defaultMaxSize      = 5 * 1024 * 1024 // 5MB
	defaultMaxDimension = 1600
	jpegQuality         = 90
)

type ImageProcessor struct {
	MaxSize      int64 // bytes
	MaxDimension int   // px, cạnh dài nhất sau khi xử lý
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: defaultMaxSize, MaxDimension: defaultMaxDimension}
}

// PreparedImage - ảnh sẵn sàng upload
type PreparedImage struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Prepare kiểm tra JPEG/PNG và thu nhỏ ảnh vượt MaxDimension (giữ tỉ lệ, giữ format).
// Ảnh đã đủ nhỏ được trả nguyên bytes.
func (p *ImageProcessor) Prepare(data []byte) (*PreparedImage, error) {
	if int64(len(data)) > p.MaxSize {
		return nil, ErrImageTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	out := &PreparedImage{Data: data, Width: cfg.Width, Height: cfg.Height}
	switch format {
	case "jpeg":
		out.ContentType, out.Ext = "image/jpeg", ".jpg"
	case "png":
		out.ContentType, out.Ext = "image/png", ".png"
	default:
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedImage, format)
	}

	if cfg.Width <= p.MaxDimension && cfg.Height <= p.MaxDimension {
		return out, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}
	resized := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)

	b := new(bytes.Buffer)
	if format == "png" {
		err = png.Encode(b, resized)
	} else {
		err = jpeg.Encode(b, resized, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("cannot encode %s: %w", format, err)
	}

	bounds := resized.Bounds()
	out.Data, out.Width, out.Height = b.Bytes(), bounds.Dx(), bounds.Dy()
	return out, nil
}
