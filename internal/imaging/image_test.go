package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(3, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	buf := FromImage(src)
	require.Equal(t, 4, buf.Width)
	require.Equal(t, 3, buf.Height)
	require.Len(t, buf.Pix, 4*3*3)

	r, g, b := buf.RGB(0, 0)
	assert.Equal(t, [3]uint8{10, 20, 30}, [3]uint8{r, g, b})
	r, g, b = buf.RGB(3, 2)
	assert.Equal(t, [3]uint8{200, 100, 50}, [3]uint8{r, g, b})

	rgba := buf.ToRGBA()
	require.Equal(t, image.Rect(0, 0, 4, 3), rgba.Bounds())
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, rgba.RGBAAt(0, 0))
}

func TestFromImageGenericPath(t *testing.T) {
	// YCbCr exercises the slow path through the Color interface.
	src := image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio444)
	buf := FromImage(src)
	require.Equal(t, 8, buf.Width)
	require.Equal(t, 8, buf.Height)
	require.Len(t, buf.Pix, 8*8*3)
}

func TestCloneIsIndependent(t *testing.T) {
	a := Uniform(2, 2, color.RGBA{R: 100, G: 100, B: 100})
	b := a.Clone()
	b.SetRGB(0, 0, 1, 2, 3)

	r, _, _ := a.RGB(0, 0)
	assert.Equal(t, uint8(100), r, "clone mutation must not affect the original")
}

func TestEmpty(t *testing.T) {
	var nilBuf *Buffer
	assert.True(t, nilBuf.Empty())
	assert.True(t, (&Buffer{}).Empty())
	assert.False(t, New(1, 1).Empty())
}

func TestLuminance(t *testing.T) {
	buf := Uniform(2, 1, color.RGBA{R: 255, G: 255, B: 255})
	lum := buf.Luminance()
	require.Len(t, lum, 2)
	assert.InDelta(t, 255.0, lum[0], 0.01)

	black := Uniform(1, 1, color.RGBA{})
	assert.InDelta(t, 0.0, black.Luminance()[0], 0.01)
}
