package imaging

import (
	"image"
	"image/color"
)

// Buffer is the engine's pixel format: a packed, row-major RGB buffer with
// 8 bits per channel and exactly three channels. Every pipeline stage takes
// a Buffer and returns a new one; nothing mutates a Buffer after it has been
// handed to a stage, which is what lets stages compose and be tested in
// isolation.
//
// Invariants: Width > 0, Height > 0, len(Pix) == Width*Height*3.
type Buffer struct {
	Width  int
	Height int
	// Pix holds the pixel data in R, G, B order, row by row.
	Pix []uint8
}

// New allocates a zeroed (black) buffer of the given dimensions.
func New(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Clone returns a deep copy of the buffer.
func (p *Buffer) Clone() *Buffer {
	out := New(p.Width, p.Height)
	copy(out.Pix, p.Pix)
	return out
}

// Empty reports whether the buffer has no pixels.
func (p *Buffer) Empty() bool {
	return p == nil || p.Width <= 0 || p.Height <= 0 || len(p.Pix) == 0
}

// Offset returns the index of the R component of pixel (x, y).
func (p *Buffer) Offset(x, y int) int {
	return (y*p.Width + x) * 3
}

// RGB returns the color components at (x, y). Coordinates must be in bounds.
func (p *Buffer) RGB(x, y int) (uint8, uint8, uint8) {
	i := p.Offset(x, y)
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

// SetRGB stores the color components at (x, y). Coordinates must be in bounds.
func (p *Buffer) SetRGB(x, y int, r, g, b uint8) {
	i := p.Offset(x, y)
	p.Pix[i] = r
	p.Pix[i+1] = g
	p.Pix[i+2] = b
}

// FromImage converts any image.Image into a Buffer.
//
// Colors are read through the Color interface and scaled from 16-bit to
// 8-bit components, the same way color sampling does. Alpha is discarded:
// the engine works on opaque three-channel data throughout.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	out := New(bounds.Dx(), bounds.Dy())

	// Fast path for the types the decoders actually produce.
	if nrgba, ok := img.(*image.NRGBA); ok {
		i := 0
		for y := 0; y < out.Height; y++ {
			row := nrgba.Pix[y*nrgba.Stride:]
			for x := 0; x < out.Width; x++ {
				out.Pix[i] = row[x*4]
				out.Pix[i+1] = row[x*4+1]
				out.Pix[i+2] = row[x*4+2]
				i += 3
			}
		}
		return out
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// Convert from 16-bit to 8-bit
			out.Pix[i] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(b >> 8)
			i += 3
		}
	}
	return out
}

// ToRGBA converts the buffer to a fully opaque *image.RGBA for use with
// libraries that operate on standard image types.
func (p *Buffer) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	si := 0
	for y := 0; y < p.Height; y++ {
		di := y * out.Stride
		for x := 0; x < p.Width; x++ {
			out.Pix[di] = p.Pix[si]
			out.Pix[di+1] = p.Pix[si+1]
			out.Pix[di+2] = p.Pix[si+2]
			out.Pix[di+3] = 0xff
			si += 3
			di += 4
		}
	}
	return out
}

// ToNRGBA converts the buffer to a fully opaque *image.NRGBA.
func (p *Buffer) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	si := 0
	for y := 0; y < p.Height; y++ {
		di := y * out.Stride
		for x := 0; x < p.Width; x++ {
			out.Pix[di] = p.Pix[si]
			out.Pix[di+1] = p.Pix[si+1]
			out.Pix[di+2] = p.Pix[si+2]
			out.Pix[di+3] = 0xff
			si += 3
			di += 4
		}
	}
	return out
}

// Uniform builds a buffer filled with a single color. Used by tests and by
// degenerate-input handling.
func Uniform(width, height int, c color.RGBA) *Buffer {
	out := New(width, height)
	for i := 0; i < len(out.Pix); i += 3 {
		out.Pix[i] = c.R
		out.Pix[i+1] = c.G
		out.Pix[i+2] = c.B
	}
	return out
}

// Luminance returns the BT.601 luma of each pixel as a flat slice of values
// in [0, 255], row-major. Edge and sketch stages work on this single
// channel.
func (p *Buffer) Luminance() []float64 {
	out := make([]float64, p.Width*p.Height)
	si := 0
	for i := range out {
		r := float64(p.Pix[si])
		g := float64(p.Pix[si+1])
		b := float64(p.Pix[si+2])
		out[i] = 0.299*r + 0.587*g + 0.114*b
		si += 3
	}
	return out
}
