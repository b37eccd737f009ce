package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WEBP format decoder
)

// Decode parses encoded image bytes (PNG, JPEG, GIF, BMP or WEBP) into a
// Buffer.
func Decode(data []byte) (*Buffer, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img), nil
}

// EncodeJPEG serializes the buffer as JPEG with the given quality (1-100).
func EncodeJPEG(p *Buffer, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, p.ToRGBA(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNG serializes the buffer as PNG.
func EncodePNG(p *Buffer) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.ToRGBA()); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
