package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	p, err := DefaultParams().Validate()
	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), p)
}

func TestValidateClusterRange(t *testing.T) {
	cases := []struct {
		clusters int
		ok       bool
	}{
		{1, false},
		{2, true},
		{8, true},
		{32, true},
		{33, false},
		{0, false},
		{-4, false},
	}
	for _, tc := range cases {
		p := DefaultParams()
		p.ColorClusters = tc.clusters
		_, err := p.Validate()
		if tc.ok {
			assert.NoError(t, err, "clusters=%d", tc.clusters)
		} else {
			assert.ErrorIs(t, err, ErrInvalidParameter, "clusters=%d", tc.clusters)
		}
	}
}

func TestValidateClampsEvenKernels(t *testing.T) {
	p := DefaultParams()
	p.BilateralDiameter = 8
	p.MedianKernel = 6
	p.EdgeBlockSize = 10

	out, err := p.Validate()
	require.NoError(t, err)
	assert.Equal(t, 9, out.BilateralDiameter)
	assert.Equal(t, 7, out.MedianKernel)
	assert.Equal(t, 11, out.EdgeBlockSize)
}

func TestValidateRejectsBadKernels(t *testing.T) {
	p := DefaultParams()
	p.BilateralDiameter = 0
	_, err := p.Validate()
	assert.ErrorIs(t, err, ErrInvalidParameter)

	p = DefaultParams()
	p.MedianKernel = 101
	_, err = p.Validate()
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestValidateRejectsBadSigmas(t *testing.T) {
	p := DefaultParams()
	p.SigmaColor = 0
	_, err := p.Validate()
	assert.ErrorIs(t, err, ErrInvalidParameter)

	p = DefaultParams()
	p.SigmaSpace = -1
	_, err = p.Validate()
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestValidateRejectsNegativeOffset(t *testing.T) {
	p := DefaultParams()
	p.EdgeOffset = -1
	_, err := p.Validate()
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestOverridesApply(t *testing.T) {
	clusters := 12
	sigma := 150.0

	o := &Overrides{ColorClusters: &clusters, SigmaColor: &sigma}
	p := o.Apply(DefaultParams())

	assert.Equal(t, 12, p.ColorClusters)
	assert.Equal(t, 150.0, p.SigmaColor)
	assert.Equal(t, 300.0, p.SigmaSpace, "untouched fields keep defaults")
	assert.Equal(t, 9, p.BilateralDiameter)
}

func TestNilOverridesKeepDefaults(t *testing.T) {
	var o *Overrides
	assert.Equal(t, DefaultParams(), o.Apply(DefaultParams()))
}
