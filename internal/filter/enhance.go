package filter

import (
	"github.com/anthonynsimon/bild/effect"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/inkbrush/cartoonize/internal/imaging"
)

// Saturate scales saturation in HSV space by the given factor, clamping to
// the valid range. Factors above 1 give the vivid colors the cartoon styles
// lean on; 1.0 is a no-op.
func Saturate(src *imaging.Buffer, factor float64) *imaging.Buffer {
	if factor == 1.0 {
		return src.Clone()
	}
	out := imaging.New(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 3 {
		c := colorful.Color{
			R: float64(src.Pix[i]) / 255.0,
			G: float64(src.Pix[i+1]) / 255.0,
			B: float64(src.Pix[i+2]) / 255.0,
		}
		h, s, v := c.Hsv()
		s *= factor
		if s > 1 {
			s = 1
		}
		boosted := colorful.Hsv(h, s, v).Clamped()
		out.Pix[i] = uint8(boosted.R*255 + 0.5)
		out.Pix[i+1] = uint8(boosted.G*255 + 0.5)
		out.Pix[i+2] = uint8(boosted.B*255 + 0.5)
	}
	return out
}

// Unsharp sharpens by amplifying the difference between the image and a
// blurred copy of itself.
func Unsharp(src *imaging.Buffer, radius, amount float64) *imaging.Buffer {
	return imaging.FromImage(effect.UnsharpMask(src.ToRGBA(), radius, amount))
}

// LocalContrast equalizes the luminance channel per tile with a clipped
// histogram, then remaps each pixel through a bilinear interpolation of the
// four surrounding tile mappings. Clipping the histogram before building
// the CDF limits how much a tile can amplify its own noise; the
// interpolation removes tile seams. Chroma is preserved by scaling RGB with
// the luminance ratio.
func LocalContrast(src *imaging.Buffer, gridSize int, clipFactor float64) *imaging.Buffer {
	w, h := src.Width, src.Height
	if gridSize < 1 {
		gridSize = 1
	}
	tileW := (w + gridSize - 1) / gridSize
	tileH := (h + gridSize - 1) / gridSize

	lum := src.Luminance()

	// Per-tile clipped-histogram CDF mappings.
	mappings := make([][256]float64, gridSize*gridSize)
	for ty := 0; ty < gridSize; ty++ {
		for tx := 0; tx < gridSize; tx++ {
			x1 := tx * tileW
			y1 := ty * tileH
			x2 := clampInt(x1+tileW, 0, w)
			y2 := clampInt(y1+tileH, 0, h)
			if x1 >= w || y1 >= h {
				continue
			}

			var hist [256]float64
			count := 0.0
			for y := y1; y < y2; y++ {
				for x := x1; x < x2; x++ {
					v := int(lum[y*w+x])
					hist[v]++
					count++
				}
			}
			if count == 0 {
				continue
			}

			clip := clipFactor * count / 256.0
			excess := 0.0
			for v := range hist {
				if hist[v] > clip {
					excess += hist[v] - clip
					hist[v] = clip
				}
			}
			redistribute := excess / 256.0

			cdf := 0.0
			m := &mappings[ty*gridSize+tx]
			for v := 0; v < 256; v++ {
				cdf += hist[v] + redistribute
				m[v] = cdf / count * 255.0
			}
		}
	}

	out := imaging.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			oldL := lum[y*w+x]
			newL := interpolateMapping(mappings, gridSize, tileW, tileH, x, y, oldL)

			i := src.Offset(x, y)
			if oldL < 1 {
				out.Pix[i] = src.Pix[i]
				out.Pix[i+1] = src.Pix[i+1]
				out.Pix[i+2] = src.Pix[i+2]
				continue
			}
			ratio := newL / oldL
			out.Pix[i] = clampByte(float64(src.Pix[i]) * ratio)
			out.Pix[i+1] = clampByte(float64(src.Pix[i+1]) * ratio)
			out.Pix[i+2] = clampByte(float64(src.Pix[i+2]) * ratio)
		}
	}
	return out
}

// interpolateMapping evaluates the clipped-CDF mapping at (x, y) by blending
// the mappings of the four nearest tile centers.
func interpolateMapping(mappings [][256]float64, gridSize, tileW, tileH, x, y int, lum float64) float64 {
	fx := (float64(x) - float64(tileW)/2) / float64(tileW)
	fy := (float64(y) - float64(tileH)/2) / float64(tileH)

	tx0 := int(fx)
	ty0 := int(fy)
	if fx < 0 {
		tx0 = 0
		fx = 0
	}
	if fy < 0 {
		ty0 = 0
		fy = 0
	}
	tx1 := clampInt(tx0+1, 0, gridSize-1)
	ty1 := clampInt(ty0+1, 0, gridSize-1)
	tx0 = clampInt(tx0, 0, gridSize-1)
	ty0 = clampInt(ty0, 0, gridSize-1)

	wx := fx - float64(int(fx))
	wy := fy - float64(int(fy))

	v := int(lum)
	top := (1-wx)*mappings[ty0*gridSize+tx0][v] + wx*mappings[ty0*gridSize+tx1][v]
	bottom := (1-wx)*mappings[ty1*gridSize+tx0][v] + wx*mappings[ty1*gridSize+tx1][v]
	return (1-wy)*top + wy*bottom
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
