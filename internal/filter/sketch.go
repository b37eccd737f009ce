package filter

import (
	"github.com/disintegration/imaging"

	img "github.com/inkbrush/cartoonize/internal/imaging"
)

// Sketch produces a pencil-sketch rendition: the image is reduced to
// grayscale, inverted, blurred, and the blur is blended back over the
// grayscale with a color-dodge (brightening) blend. Strokes emerge where
// the blurred inversion disagrees with the original tone. The output has
// three identical channels so it stays in the engine's fixed pixel format.
func Sketch(src *img.Buffer, blurSigma float64) *img.Buffer {
	gray := imaging.Grayscale(src.ToNRGBA())
	inverted := imaging.Invert(gray)
	blurred := imaging.Blur(inverted, blurSigma)

	out := img.New(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		gi := y * gray.Stride
		bi := y * blurred.Stride
		for x := 0; x < src.Width; x++ {
			base := int(gray.Pix[gi+x*4])
			mask := int(blurred.Pix[bi+x*4])

			// Color dodge: base / (1 - mask). Saturates to white where the
			// blurred inversion is near full.
			var v int
			if mask >= 255 {
				v = 255
			} else {
				v = base * 256 / (255 - mask)
				if v > 255 {
					v = 255
				}
			}
			out.SetRGB(x, y, uint8(v), uint8(v), uint8(v))
		}
	}
	return out
}

// Blend mixes two equally sized buffers: out = (1-alpha)*a + alpha*b.
// The colored pencil style blends the quantized color image (a) under the
// sketch (b) at reduced color opacity.
func Blend(a, b *img.Buffer, alpha float64) *img.Buffer {
	out := img.New(a.Width, a.Height)
	inv := 1.0 - alpha
	for i := range a.Pix {
		out.Pix[i] = uint8(inv*float64(a.Pix[i]) + alpha*float64(b.Pix[i]) + 0.5)
	}
	return out
}
