package style

import (
	"errors"
	"fmt"
)

// ErrUnsupportedStyle is wrapped by lookups of unknown style identifiers.
var ErrUnsupportedStyle = errors.New("unsupported style")

// Category tells the dispatcher which stylizer executes a style.
type Category string

const (
	// CategoryClassical styles run the filter-graph recipes directly.
	CategoryClassical Category = "classical"
	// CategoryNeural styles go through the learned backend when it is
	// available and fall back to classical-equivalent recipes otherwise.
	CategoryNeural Category = "neural"
)

// Spec describes one style: its identifier, which pipeline category handles
// it, default parameters, and the recipe classical execution interprets.
// Specs are created once at startup and never mutated.
type Spec struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Defaults    Params   `json:"-"`
	Recipe      Recipe   `json:"-"`
}

// Registry is the static catalog of styles. It is populated once by
// NewRegistry and read-only afterward, so concurrent lookups need no
// locking.
type Registry struct {
	order []string
	specs map[string]Spec
}

// NewRegistry builds the catalog with all supported styles in their
// canonical order.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[string]Spec)}

	base := DefaultParams()

	oilParams := base
	oilParams.ColorClusters = 6
	oilParams.BilateralDiameter = 15
	oilParams.SigmaColor = 450
	oilParams.SigmaSpace = 450

	ultraParams := base
	ultraParams.ColorClusters = 16
	ultraParams.SigmaColor = 75
	ultraParams.SigmaSpace = 75

	r.add(Spec{
		ID:          "classic",
		Name:        "Classic Cartoon",
		Category:    CategoryClassical,
		Description: "Edge detection with color quantization",
		Defaults:    base,
		Recipe: Recipe{
			SmoothPasses: 1,
			Edge:         EdgeAdaptive,
		},
	})
	r.add(Spec{
		ID:          "smooth",
		Name:        "Smooth Cartoon",
		Category:    CategoryClassical,
		Description: "Softer edges with smooth colors",
		Defaults:    base,
		Recipe: Recipe{
			SmoothPasses:    1,
			WideKernel:      true,
			Edge:            EdgeAdaptive,
			EdgeOffsetDelta: 3,
		},
	})
	r.add(Spec{
		ID:          "edge_heavy",
		Name:        "Bold Edges",
		Category:    CategoryClassical,
		Description: "Prominent, bold edge lines",
		Defaults:    base,
		Recipe: Recipe{
			SmoothPasses:    1,
			Edge:            EdgeBold,
			EdgeOffsetDelta: -1,
		},
	})
	r.add(Spec{
		ID:          "pencil_sketch",
		Name:        "Pencil Sketch",
		Category:    CategoryClassical,
		Description: "Black and white pencil drawing effect",
		Defaults:    base,
		Recipe: Recipe{
			Sketch: true,
		},
	})
	r.add(Spec{
		ID:          "pencil_sketch_color",
		Name:        "Colored Pencil",
		Category:    CategoryClassical,
		Description: "Colored pencil sketch effect",
		Defaults:    base,
		Recipe: Recipe{
			Sketch:      true,
			SketchColor: true,
		},
	})
	r.add(Spec{
		ID:          "oil_painting",
		Name:        "Oil Painting",
		Category:    CategoryClassical,
		Description: "Oil painting artistic style",
		Defaults:    oilParams,
		Recipe: Recipe{
			SmoothPasses: 2,
			WideKernel:   true,
			SigmaBoost:   1.5,
			Edge:         EdgeNone,
			Clusters:     6,
		},
	})
	r.add(Spec{
		ID:          "ultra",
		Name:        "Ultra Quality",
		Category:    CategoryClassical,
		Description: "Three-pass smoothing, ensemble edges and enhanced colors",
		Defaults:    ultraParams,
		Recipe: Recipe{
			SmoothPasses:  3,
			Edge:          EdgeEnsemble,
			Clusters:      16,
			Saturation:    1.4,
			LocalContrast: true,
			Unsharp:       true,
		},
	})

	r.add(Spec{
		ID:          "cartoon",
		Name:        "AI Cartoon",
		Category:    CategoryNeural,
		Description: "Learned cartoon style transfer",
		Defaults:    ultraParams,
	})
	r.add(Spec{
		ID:          "anime",
		Name:        "Anime Style",
		Category:    CategoryNeural,
		Description: "Japanese anime/manga style transfer",
		Defaults:    base,
	})
	r.add(Spec{
		ID:          "watercolor",
		Name:        "Watercolor",
		Category:    CategoryNeural,
		Description: "Watercolor painting style transfer",
		Defaults:    oilParams,
	})

	return r
}

func (r *Registry) add(s Spec) {
	r.order = append(r.order, s.ID)
	r.specs[s.ID] = s
}

// Lookup resolves a style identifier. Unknown identifiers fail with an
// error wrapping ErrUnsupportedStyle.
func (r *Registry) Lookup(id string) (Spec, error) {
	spec, ok := r.specs[id]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnsupportedStyle, id)
	}
	return spec, nil
}

// List returns all specs in insertion order. The returned slice is a copy;
// callers may not mutate registry state through it.
func (r *Registry) List() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.specs[id])
	}
	return out
}
