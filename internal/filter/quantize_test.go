package filter

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	img "github.com/inkbrush/cartoonize/internal/imaging"
)

func TestQuantizeUniformIsIdentity(t *testing.T) {
	src := img.Uniform(24, 24, color.RGBA{R: 77, G: 130, B: 200})
	out := Quantize(src, 8)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestQuantizeTwoColors(t *testing.T) {
	src := img.New(32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if x < 16 {
				src.SetRGB(x, y, 20, 20, 20)
			} else {
				src.SetRGB(x, y, 230, 230, 230)
			}
		}
	}

	out := Quantize(src, 2)

	r, g, b := out.RGB(0, 0)
	require.Equal(t, [3]uint8{20, 20, 20}, [3]uint8{r, g, b})
	r, g, b = out.RGB(31, 0)
	require.Equal(t, [3]uint8{230, 230, 230}, [3]uint8{r, g, b})
}

func TestQuantizeReducesPalette(t *testing.T) {
	src := gradientImage(64, 48)
	out := Quantize(src, 4)

	colors := make(map[[3]uint8]struct{})
	for i := 0; i < len(out.Pix); i += 3 {
		colors[[3]uint8{out.Pix[i], out.Pix[i+1], out.Pix[i+2]}] = struct{}{}
	}
	assert.LessOrEqual(t, len(colors), 4)
	assert.Greater(t, len(colors), 1)
}

func TestQuantizeDeterministic(t *testing.T) {
	src := gradientImage(80, 60)
	first := Quantize(src, 8)
	second := Quantize(src, 8)
	assert.Equal(t, first.Pix, second.Pix)
}

func TestQuantizeMoreClustersThanColors(t *testing.T) {
	src := img.Uniform(16, 16, color.RGBA{R: 50, G: 100, B: 150})
	out := Quantize(src, 16)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestQuantizeDoesNotMutateInput(t *testing.T) {
	src := gradientImage(32, 32)
	before := make([]uint8, len(src.Pix))
	copy(before, src.Pix)

	Quantize(src, 6)
	assert.Equal(t, before, src.Pix)
}
