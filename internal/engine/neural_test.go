package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkbrush/cartoonize/internal/imaging"
	"github.com/inkbrush/cartoonize/internal/style"
)

// fakeBackend scripts the probe result and the stylize outcome.
type fakeBackend struct {
	capability Capability
	err        error
	calls      int
}

func (f *fakeBackend) Probe() Capability { return f.capability }

func (f *fakeBackend) Stylize(src *imaging.Buffer, styleID string) (*imaging.Buffer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := src.Clone()
	// Mark the output so tests can tell backend results from fallbacks.
	out.Pix[0] = 251
	return out, nil
}

func newNeuralFixture(backend Backend) *NeuralStylizer {
	registry := style.NewRegistry()
	return NewNeuralStylizer(backend, NewClassicalStylizer(registry), registry)
}

func TestNeuralUsesBackendWhenAvailable(t *testing.T) {
	backend := &fakeBackend{capability: Capability{Available: true, Device: "cpu"}}
	stylizer := newNeuralFixture(backend)

	out, fallback, err := stylizer.Convert(photoImage(64, 64), "anime", style.DefaultParams())
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, uint8(251), out.Pix[0])
	assert.Equal(t, 1, backend.calls)
}

func TestNeuralFallsBackWhenBackendUnavailable(t *testing.T) {
	backend := &fakeBackend{capability: Capability{Available: false, Reason: "no runtime"}}
	stylizer := newNeuralFixture(backend)
	src := photoImage(64, 64)

	for _, id := range []string{"cartoon", "anime", "watercolor"} {
		out, fallback, err := stylizer.Convert(src, id, style.DefaultParams())
		require.NoError(t, err, id)
		assert.True(t, fallback, id)
		assert.Equal(t, src.Width, out.Width, id)
	}
	assert.Equal(t, 0, backend.calls, "an unavailable backend is never invoked")
}

func TestNeuralFallsBackOnPerCallUnavailability(t *testing.T) {
	backend := &fakeBackend{
		capability: Capability{Available: true, Device: "cpu"},
		err:        fmt.Errorf("%w: model file missing", ErrBackendUnavailable),
	}
	stylizer := newNeuralFixture(backend)

	out, fallback, err := stylizer.Convert(photoImage(64, 64), "cartoon", style.DefaultParams())
	require.NoError(t, err)
	assert.True(t, fallback)
	assert.NotEqual(t, uint8(251), out.Pix[0])
}

func TestNeuralSurfacesInferenceErrors(t *testing.T) {
	backend := &fakeBackend{
		capability: Capability{Available: true, Device: "cpu"},
		err:        errors.New("tensor shape mismatch"),
	}
	stylizer := newNeuralFixture(backend)

	_, _, err := stylizer.Convert(photoImage(64, 64), "anime", style.DefaultParams())
	assert.ErrorIs(t, err, ErrProcessing)
}

func TestNeuralRejectsNonNeuralStyle(t *testing.T) {
	backend := &fakeBackend{capability: Capability{Available: false}}
	stylizer := newNeuralFixture(backend)

	_, _, err := stylizer.Convert(photoImage(64, 64), "classic", style.DefaultParams())
	assert.ErrorIs(t, err, style.ErrUnsupportedStyle)
}

func TestCapabilityProbedOnce(t *testing.T) {
	backend := &fakeBackend{capability: Capability{Available: false, Reason: "stubbed"}}
	stylizer := newNeuralFixture(backend)

	capability := stylizer.Capability()
	assert.False(t, capability.Available)
	assert.Equal(t, "stubbed", capability.Reason)

	// Mutating the backend afterwards must not change the recorded result.
	backend.capability = Capability{Available: true}
	assert.False(t, stylizer.Capability().Available)
}

func TestStubBackend(t *testing.T) {
	backend := NewBackend("models")
	capability := backend.Probe()
	if capability.Available {
		t.Skip("learned backend compiled in")
	}
	assert.NotEmpty(t, capability.Reason)

	_, err := backend.Stylize(photoImage(64, 64), "anime")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}
