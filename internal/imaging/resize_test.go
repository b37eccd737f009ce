package imaging

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitWithinDownscales(t *testing.T) {
	src := Uniform(4000, 3000, color.RGBA{R: 128, G: 128, B: 128})
	out := FitWithin(src, 1920, 1080)

	assert.LessOrEqual(t, out.Width, 1920)
	assert.LessOrEqual(t, out.Height, 1080)

	// Aspect ratio preserved within rounding.
	srcRatio := float64(src.Width) / float64(src.Height)
	outRatio := float64(out.Width) / float64(out.Height)
	assert.InDelta(t, srcRatio, outRatio, 0.01)

	// The limiting dimension is fully used.
	assert.Equal(t, 1080, out.Height)
}

func TestFitWithinKeepsSmallImages(t *testing.T) {
	src := Uniform(800, 600, color.RGBA{R: 1, G: 2, B: 3})
	out := FitWithin(src, 1920, 1080)
	assert.Same(t, src, out, "images within bounds are returned unchanged")
}

func TestFitWithinWideImage(t *testing.T) {
	src := Uniform(10000, 100, color.RGBA{})
	out := FitWithin(src, 1920, 1080)
	assert.Equal(t, 1920, out.Width)
	assert.LessOrEqual(t, out.Height, 1080)
	assert.GreaterOrEqual(t, out.Height, 1)
}

func TestThumbnail(t *testing.T) {
	src := Uniform(600, 400, color.RGBA{R: 50, G: 50, B: 50})
	thumb := Thumbnail(src, 300, 300)
	assert.Equal(t, 300, thumb.Width)
	assert.Equal(t, 200, thumb.Height)
}

func TestCodecRoundTrip(t *testing.T) {
	src := Uniform(64, 48, color.RGBA{R: 200, G: 150, B: 100})

	jpg, err := EncodeJPEG(src, 95)
	require.NoError(t, err)
	decoded, err := Decode(jpg)
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Width)
	assert.Equal(t, 48, decoded.Height)

	png, err := EncodePNG(src)
	require.NoError(t, err)
	decoded, err = Decode(png)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, decoded.Pix, "png round trip is lossless")
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	require.Error(t, err)
}
