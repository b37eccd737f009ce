package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkbrush/cartoonize/internal/imaging"
	"github.com/inkbrush/cartoonize/internal/style"
)

// photoImage synthesizes an image with gradients and a hard boundary so
// smoothing, quantization and edge detection all have something to chew on.
func photoImage(w, h int) *imaging.Buffer {
	out := imaging.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := uint8((x * 255) / (w - 1))
			g := uint8((y * 255) / (h - 1))
			b := uint8(((x + y) * 255) / (w + h - 2))
			if x > w/2 && y > h/2 {
				r, g, b = 30, 30, 30
			}
			out.SetRGB(x, y, r, g, b)
		}
	}
	return out
}

func TestClassicalConvertAllStyles(t *testing.T) {
	registry := style.NewRegistry()
	stylizer := NewClassicalStylizer(registry)
	src := photoImage(64, 64)

	for _, spec := range registry.List() {
		if spec.Category != style.CategoryClassical {
			continue
		}
		out, err := stylizer.Convert(src, spec.ID, spec.Defaults)
		require.NoError(t, err, spec.ID)
		assert.Equal(t, src.Width, out.Width, spec.ID)
		assert.Equal(t, src.Height, out.Height, spec.ID)
	}
}

func TestClassicalDeterministic(t *testing.T) {
	stylizer := NewClassicalStylizer(style.NewRegistry())
	src := photoImage(64, 64)

	first, err := stylizer.Convert(src, "classic", style.DefaultParams())
	require.NoError(t, err)
	second, err := stylizer.Convert(src, "classic", style.DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, first.Pix, second.Pix)
}

func TestClassicalDoesNotMutateInput(t *testing.T) {
	registry := style.NewRegistry()
	stylizer := NewClassicalStylizer(registry)
	src := photoImage(64, 64)
	before := make([]uint8, len(src.Pix))
	copy(before, src.Pix)

	ultra, err := registry.Lookup("ultra")
	require.NoError(t, err)
	_, err = stylizer.Convert(src, "ultra", ultra.Defaults)
	require.NoError(t, err)
	assert.Equal(t, before, src.Pix)
}

func TestClassicalRejectsNeuralStyle(t *testing.T) {
	stylizer := NewClassicalStylizer(style.NewRegistry())

	_, err := stylizer.Convert(photoImage(64, 64), "anime", style.DefaultParams())
	assert.ErrorIs(t, err, style.ErrUnsupportedStyle)
}

func TestClassicalRejectsUnknownStyle(t *testing.T) {
	stylizer := NewClassicalStylizer(style.NewRegistry())

	_, err := stylizer.Convert(photoImage(64, 64), "sepia", style.DefaultParams())
	assert.ErrorIs(t, err, style.ErrUnsupportedStyle)
}

func TestClassicalRejectsBadParams(t *testing.T) {
	stylizer := NewClassicalStylizer(style.NewRegistry())
	params := style.DefaultParams()
	params.ColorClusters = 1

	_, err := stylizer.Convert(photoImage(64, 64), "classic", params)
	assert.ErrorIs(t, err, style.ErrInvalidParameter)
}

func TestPencilSketchIsGrayscale(t *testing.T) {
	stylizer := NewClassicalStylizer(style.NewRegistry())
	src := photoImage(64, 64)

	out, err := stylizer.Convert(src, "pencil_sketch", style.DefaultParams())
	require.NoError(t, err)
	for i := 0; i < len(out.Pix); i += 3 {
		require.Equal(t, out.Pix[i], out.Pix[i+1])
		require.Equal(t, out.Pix[i], out.Pix[i+2])
	}
}

func TestColoredPencilCarriesColor(t *testing.T) {
	stylizer := NewClassicalStylizer(style.NewRegistry())
	src := photoImage(64, 64)

	out, err := stylizer.Convert(src, "pencil_sketch_color", style.DefaultParams())
	require.NoError(t, err)

	colored := false
	for i := 0; i < len(out.Pix); i += 3 {
		if out.Pix[i] != out.Pix[i+1] || out.Pix[i] != out.Pix[i+2] {
			colored = true
			break
		}
	}
	assert.True(t, colored, "colored pencil output must not be pure grayscale")
}
