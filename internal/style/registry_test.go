package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCanonicalOrder(t *testing.T) {
	r := NewRegistry()
	specs := r.List()

	ids := make([]string, len(specs))
	for i, s := range specs {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{
		"classic", "smooth", "edge_heavy", "pencil_sketch",
		"pencil_sketch_color", "oil_painting", "ultra",
		"cartoon", "anime", "watercolor",
	}, ids)
}

func TestRegistryCategories(t *testing.T) {
	r := NewRegistry()

	classical := []string{"classic", "smooth", "edge_heavy", "pencil_sketch", "pencil_sketch_color", "oil_painting", "ultra"}
	for _, id := range classical {
		spec, err := r.Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, CategoryClassical, spec.Category, id)
	}

	neural := []string{"cartoon", "anime", "watercolor"}
	for _, id := range neural {
		spec, err := r.Lookup(id)
		require.NoError(t, err)
		assert.Equal(t, CategoryNeural, spec.Category, id)
	}
}

func TestLookupUnknownStyle(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("sepia")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedStyle)
	assert.Contains(t, err.Error(), "sepia")
}

func TestStyleDefaults(t *testing.T) {
	r := NewRegistry()

	classic, err := r.Lookup("classic")
	require.NoError(t, err)
	assert.Equal(t, 8, classic.Defaults.ColorClusters)
	assert.Equal(t, 9, classic.Defaults.BilateralDiameter)

	oil, err := r.Lookup("oil_painting")
	require.NoError(t, err)
	assert.Equal(t, 6, oil.Defaults.ColorClusters)
	assert.Equal(t, 15, oil.Defaults.BilateralDiameter)
	assert.Equal(t, 450.0, oil.Defaults.SigmaColor)

	ultra, err := r.Lookup("ultra")
	require.NoError(t, err)
	assert.Equal(t, 16, ultra.Defaults.ColorClusters)
	assert.Equal(t, 75.0, ultra.Defaults.SigmaSpace)
}

func TestListReturnsCopy(t *testing.T) {
	r := NewRegistry()
	first := r.List()
	first[0].ID = "mutated"

	second := r.List()
	assert.Equal(t, "classic", second[0].ID)
}
