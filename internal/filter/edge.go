package filter

import (
	"math"

	"github.com/anthonynsimon/bild/effect"

	"github.com/inkbrush/cartoonize/internal/imaging"
)

// Mask is a binary per-pixel edge map: true marks a pixel that belongs to a
// detected boundary. Fusion darkens masked pixels in the quantized image.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-false mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// At reports whether (x, y) is marked as an edge.
func (m *Mask) At(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

// Set marks or clears the edge flag at (x, y).
func (m *Mask) Set(x, y int, edge bool) {
	m.Bits[y*m.Width+x] = edge
}

// Count returns the number of marked pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// AdaptiveMean thresholds the luminance channel against its local mean:
// a pixel is marked as an edge when it is darker than the mean of its
// block x block neighborhood by more than offset. Lower offsets mark more
// edges. The local means come from a summed-area table, so the cost is
// independent of the block size.
func AdaptiveMean(src *imaging.Buffer, block, offset int) *Mask {
	w, h := src.Width, src.Height
	lum := src.Luminance()
	mask := NewMask(w, h)

	// Summed-area table with a one-cell border of zeros.
	integral := make([]float64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		rowSum := 0.0
		for x := 0; x < w; x++ {
			rowSum += lum[y*w+x]
			integral[(y+1)*(w+1)+(x+1)] = integral[y*(w+1)+(x+1)] + rowSum
		}
	}

	radius := block / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x1 := clampInt(x-radius, 0, w-1)
			y1 := clampInt(y-radius, 0, h-1)
			x2 := clampInt(x+radius, 0, w-1)
			y2 := clampInt(y+radius, 0, h-1)
			area := float64((x2 - x1 + 1) * (y2 - y1 + 1))
			sum := integral[(y2+1)*(w+1)+(x2+1)] -
				integral[y1*(w+1)+(x2+1)] -
				integral[(y2+1)*(w+1)+x1] +
				integral[y1*(w+1)+x1]
			mean := sum / area
			if lum[y*w+x] <= mean-float64(offset) {
				mask.Set(x, y, true)
			}
		}
	}
	return mask
}

// SobelEdges marks pixels whose gradient magnitude exceeds threshold.
// The gradient comes from a sobel pass over the grayscale image.
func SobelEdges(src *imaging.Buffer, threshold uint8) *Mask {
	sobel := effect.Sobel(effect.Grayscale(src.ToRGBA()))
	mask := NewMask(src.Width, src.Height)
	for y := 0; y < src.Height; y++ {
		row := sobel.Pix[y*sobel.Stride:]
		for x := 0; x < src.Width; x++ {
			if row[x*4] >= threshold {
				mask.Set(x, y, true)
			}
		}
	}
	return mask
}

// Canny runs Canny edge detection on the buffer's luminance channel:
// gaussian blur, sobel gradients, non-maximum suppression along the
// gradient direction, then hysteresis between the low and high thresholds
// (both on the 0-255 scale).
func Canny(src *imaging.Buffer, thresholdLow, thresholdHigh int) *Mask {
	w, h := src.Width, src.Height

	gray := make([][]float64, h)
	lum := src.Luminance()
	for y := 0; y < h; y++ {
		gray[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			gray[y][x] = lum[y*w+x] / 255.0
		}
	}

	blurred := gaussianBlur5(gray, w, h)

	magnitude := make([][]float64, h)
	direction := make([][]float64, h)
	sobelX := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	for y := 0; y < h; y++ {
		magnitude[y] = make([]float64, w)
		direction[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clampInt(y+ky, 0, h-1)
					px := clampInt(x+kx, 0, w-1)
					gx += blurred[py][px] * sobelX[ky+1][kx+1]
					gy += blurred[py][px] * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression: keep only local maxima along the gradient
	// direction so edges thin to one pixel.
	suppressed := make([][]float64, h)
	for y := 0; y < h; y++ {
		suppressed[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			if y == 0 || y == h-1 || x == 0 || x == w-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	// Double threshold with hysteresis: weak edges survive only when
	// adjacent to a strong edge.
	mask := NewMask(w, h)
	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			val := suppressed[y][x]
			if val >= highThresh {
				mask.Set(x, y, true)
			} else if val >= lowThresh {
				hasStrongNeighbor := false
				for ky := -1; ky <= 1 && !hasStrongNeighbor; ky++ {
					for kx := -1; kx <= 1 && !hasStrongNeighbor; kx++ {
						py := clampInt(y+ky, 0, h-1)
						px := clampInt(x+kx, 0, w-1)
						if suppressed[py][px] >= highThresh {
							hasStrongNeighbor = true
						}
					}
				}
				if hasStrongNeighbor {
					mask.Set(x, y, true)
				}
			}
		}
	}
	return mask
}

// EnsembleEdges combines three independent estimators into one mask.
//
// Combining rule: majority vote. A pixel is an edge when at least two of
// {sobel gradient magnitude, adaptive local mean threshold, Canny} mark it.
// The vote rejects single-estimator noise while keeping boundaries that any
// two methods agree on.
func EnsembleEdges(src *imaging.Buffer, block, offset, cannyLow, cannyHigh int, sobelThreshold uint8) *Mask {
	sobel := SobelEdges(src, sobelThreshold)
	adaptive := AdaptiveMean(Median(src, 7), block, offset)
	canny := Canny(src, cannyLow, cannyHigh)

	mask := NewMask(src.Width, src.Height)
	for i := range mask.Bits {
		votes := 0
		if sobel.Bits[i] {
			votes++
		}
		if adaptive.Bits[i] {
			votes++
		}
		if canny.Bits[i] {
			votes++
		}
		mask.Bits[i] = votes >= 2
	}
	return mask
}

// DilateMask thickens the edge mask by the given radius, producing the bold
// outlines of the edge_heavy style.
func DilateMask(m *Mask, radius float64) *Mask {
	img := imaging.New(m.Width, m.Height)
	for i, b := range m.Bits {
		if b {
			img.Pix[i*3] = 255
			img.Pix[i*3+1] = 255
			img.Pix[i*3+2] = 255
		}
	}
	dilated := effect.Dilate(img.ToRGBA(), radius)
	out := NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		row := dilated.Pix[y*dilated.Stride:]
		for x := 0; x < m.Width; x++ {
			if row[x*4] >= 128 {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

// Fuse darkens the quantized image wherever the mask flags an edge,
// composing the final cartoon: flat color regions separated by dark lines.
func Fuse(src *imaging.Buffer, m *Mask) *imaging.Buffer {
	out := src.Clone()
	for i, edge := range m.Bits {
		if edge {
			out.Pix[i*3] = 0
			out.Pix[i*3+1] = 0
			out.Pix[i*3+2] = 0
		}
	}
	return out
}

// gaussianBlur5 applies the fixed 5x5 gaussian kernel (sigma ~= 1.4) used to
// denoise the luminance channel before gradient computation.
func gaussianBlur5(img [][]float64, width, height int) [][]float64 {
	kernel := [5][5]float64{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273.0

	result := make([][]float64, height)
	for y := 0; y < height; y++ {
		result[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					py := clampInt(y+ky, 0, height-1)
					px := clampInt(x+kx, 0, width-1)
					sum += img[py][px] * kernel[ky+2][kx+2]
				}
			}
			result[y][x] = sum / kernelSum
		}
	}
	return result
}
