package imaging

import (
	"github.com/disintegration/imaging"
)

// FitWithin downscales the buffer so that it fits inside maxWidth x maxHeight
// while preserving aspect ratio. Buffers that already fit are returned
// unchanged (same pointer); upscaling never happens.
func FitWithin(p *Buffer, maxWidth, maxHeight int) *Buffer {
	scale := fitScale(p.Width, p.Height, maxWidth, maxHeight)
	if scale >= 1.0 {
		return p
	}

	newWidth := int(float64(p.Width) * scale)
	newHeight := int(float64(p.Height) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	resized := imaging.Resize(p.ToNRGBA(), newWidth, newHeight, imaging.Lanczos)
	return FromImage(resized)
}

// Thumbnail produces a small preview that fits inside width x height,
// preserving aspect ratio.
func Thumbnail(p *Buffer, width, height int) *Buffer {
	fitted := imaging.Fit(p.ToNRGBA(), width, height, imaging.Lanczos)
	return FromImage(fitted)
}

// fitScale returns the factor that fits (w, h) inside (maxW, maxH), capped
// at 1.0 so images within bounds keep their size.
func fitScale(w, h, maxW, maxH int) float64 {
	scale := 1.0
	if sw := float64(maxW) / float64(w); sw < scale {
		scale = sw
	}
	if sh := float64(maxH) / float64(h); sh < scale {
		scale = sh
	}
	return scale
}
