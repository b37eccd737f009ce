package engine

import (
	"errors"
	"fmt"

	"github.com/inkbrush/cartoonize/internal/imaging"
	"github.com/inkbrush/cartoonize/internal/style"
)

// neuralStyleIDs are the styles the learned backend is responsible for.
var neuralStyleIDs = []string{"cartoon", "anime", "watercolor"}

// Capability describes whether the learned backend can run, decided exactly
// once at process start and never re-checked per call.
type Capability struct {
	Available bool   `json:"available"`
	Device    string `json:"device,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Backend is the learned style-transfer implementation. The real backend is
// compiled in with the gocv build tag; the default build links a stub whose
// probe reports unavailable.
type Backend interface {
	// Probe checks dependency and accelerator availability. Called once.
	Probe() Capability

	// Stylize runs inference for one of the neural style ids. The output
	// must match the input's dimensions and channel count. A failure that
	// wraps ErrBackendUnavailable routes the call to the classical
	// fallback; any other error surfaces as a processing failure.
	Stylize(src *imaging.Buffer, styleID string) (*imaging.Buffer, error)
}

// NeuralStylizer wraps the optional learned backend. When the capability
// probe reports the backend unusable, conversions transparently substitute
// a documented classical-equivalent recipe per style instead of failing;
// the substitution is reported through the fallback flag, never hidden.
type NeuralStylizer struct {
	backend    Backend
	capability Capability
	classical  *ClassicalStylizer
	registry   *style.Registry
}

// NewNeuralStylizer probes the backend once and records the result as an
// immutable capability descriptor.
func NewNeuralStylizer(backend Backend, classical *ClassicalStylizer, registry *style.Registry) *NeuralStylizer {
	return &NeuralStylizer{
		backend:    backend,
		capability: backend.Probe(),
		classical:  classical,
		registry:   registry,
	}
}

// Capability exposes the probe result so the surrounding application can
// report availability (health responses and the like).
func (s *NeuralStylizer) Capability() Capability {
	return s.capability
}

// Convert stylizes the image with the learned backend when available, and
// with the style's classical-equivalent recipe otherwise. The returned
// flag reports whether the fallback path ran.
func (s *NeuralStylizer) Convert(src *imaging.Buffer, styleID string, params style.Params) (*imaging.Buffer, bool, error) {
	if s.capability.Available {
		out, err := s.backend.Stylize(src, styleID)
		if err == nil {
			return out, false, nil
		}
		if !errors.Is(err, ErrBackendUnavailable) {
			return nil, false, fmt.Errorf("%w: %v", ErrProcessing, err)
		}
		// Fail open: a backend that cannot serve this call degrades to the
		// classical recipe, reported via the fallback flag.
	}

	recipe, err := s.fallbackRecipe(styleID)
	if err != nil {
		return nil, false, err
	}
	out, err := s.classical.Apply(src, recipe, params)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// fallbackRecipe maps each neural style to its documented classical
// equivalent:
//
//	cartoon    -> the ultra recipe
//	anime      -> edge_heavy plus a strong saturation boost
//	watercolor -> oil_painting plus extra smoothing and a mild boost
func (s *NeuralStylizer) fallbackRecipe(styleID string) (style.Recipe, error) {
	switch styleID {
	case "cartoon":
		spec, err := s.registry.Lookup("ultra")
		if err != nil {
			return style.Recipe{}, err
		}
		return spec.Recipe, nil
	case "anime":
		spec, err := s.registry.Lookup("edge_heavy")
		if err != nil {
			return style.Recipe{}, err
		}
		recipe := spec.Recipe
		recipe.Saturation = 1.5
		return recipe, nil
	case "watercolor":
		spec, err := s.registry.Lookup("oil_painting")
		if err != nil {
			return style.Recipe{}, err
		}
		recipe := spec.Recipe
		recipe.ExtraSmoothing = true
		recipe.Saturation = 1.2
		return recipe, nil
	default:
		return style.Recipe{}, fmt.Errorf("%w: %q is not a neural style", style.ErrUnsupportedStyle, styleID)
	}
}
