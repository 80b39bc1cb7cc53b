package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io/fs"
	"os"

	"golang.org/x/image/draw"
)

// ErrNoCamera is returned when no camera snapshot source is available.
var ErrNoCamera = errors.New("no camera available")

// Camera captures a still frame of the ID card.
type Camera interface {
	Snapshot(ctx context.Context) (image.Image, error)
}

// FileCamera reads its frame from an image file written by an external
// capture tool (PNG or JPEG).
type FileCamera struct {
	Path string
}

// Snapshot implements Camera.
func (c FileCamera) Snapshot(ctx context.Context) (image.Image, error) {
	if c.Path == "" {
		return nil, ErrNoCamera
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", c.Path, ErrNoCamera)
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}

// Downscale shrinks img to at most maxWidth pixels wide, keeping the aspect
// ratio. Smaller images and maxWidth <= 0 return img unchanged.
func Downscale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	height := b.Dy() * maxWidth / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// DataURL encodes img as a base64 PNG data URL, the form the OCR service
// accepts in its base64Image field.
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
