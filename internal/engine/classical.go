package engine

import (
	"fmt"

	"github.com/inkbrush/cartoonize/internal/filter"
	"github.com/inkbrush/cartoonize/internal/imaging"
	"github.com/inkbrush/cartoonize/internal/style"
)

// Edge estimator constants shared by the recipes. Canny thresholds follow
// the usual low:high ratio of roughly 1:3.
const (
	cannyLow       = 30
	cannyHigh      = 100
	sobelThreshold = 64
	sketchBlur     = 8.0
	// sketchColorOpacity is how much of the quantized color image shows
	// through the colored pencil blend.
	sketchColorOpacity = 0.45
)

// ClassicalStylizer executes the filter-graph recipes for the non-learned
// styles. Convert is a pure function: deterministic for fixed inputs and
// free of observable side effects.
type ClassicalStylizer struct {
	registry *style.Registry
}

// NewClassicalStylizer builds a stylizer over the given style catalog.
func NewClassicalStylizer(registry *style.Registry) *ClassicalStylizer {
	return &ClassicalStylizer{registry: registry}
}

// Convert runs the style's recipe over the image. The style id and
// parameters are guarded here independently of the dispatcher, so the
// component stays safe when called directly.
func (s *ClassicalStylizer) Convert(src *imaging.Buffer, styleID string, params style.Params) (*imaging.Buffer, error) {
	spec, err := s.registry.Lookup(styleID)
	if err != nil {
		return nil, err
	}
	if spec.Category != style.CategoryClassical {
		return nil, fmt.Errorf("%w: %q is not a classical style", style.ErrUnsupportedStyle, styleID)
	}
	params, err = params.Validate()
	if err != nil {
		return nil, err
	}
	return s.Apply(src, spec.Recipe, params)
}

// Apply interprets a recipe directly. The neural stylizer uses this for its
// fallback routing, where the recipe does not belong to the requested
// style id.
func (s *ClassicalStylizer) Apply(src *imaging.Buffer, recipe style.Recipe, params style.Params) (out *imaging.Buffer, err error) {
	// A numerical edge case deep inside a stage must fail that one
	// conversion, not the process.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrProcessing, r)
		}
	}()

	if recipe.Sketch {
		return s.applySketch(src, recipe, params), nil
	}

	diameter := params.BilateralDiameter
	if recipe.WideKernel && diameter < 15 {
		diameter = 15
	}
	sigmaColor, sigmaSpace := params.SigmaColor, params.SigmaSpace
	if recipe.SigmaBoost > 0 {
		sigmaColor *= recipe.SigmaBoost
		sigmaSpace *= recipe.SigmaBoost
	}
	passes := recipe.SmoothPasses
	if passes < 1 {
		passes = 1
	}

	smooth := filter.BilateralCascade(src, passes, diameter, sigmaColor, sigmaSpace)

	clusters := params.ColorClusters
	if recipe.Clusters > 0 {
		clusters = recipe.Clusters
	}
	quantized := filter.Quantize(smooth, clusters)

	if recipe.Saturation > 0 && recipe.Saturation != 1 {
		quantized = filter.Saturate(quantized, recipe.Saturation)
	}

	result := quantized
	if mask := s.edgeMask(src, recipe, params); mask != nil {
		result = filter.Fuse(quantized, mask)
	}

	if recipe.ExtraSmoothing {
		result = filter.Gaussian(result, 2.0)
	}
	if recipe.LocalContrast {
		result = filter.LocalContrast(result, 8, 2.0)
	}
	if recipe.Unsharp {
		result = filter.Unsharp(result, 2.0, 0.5)
	}
	return result, nil
}

// edgeMask builds the recipe's edge mask from the unsmoothed source:
// edges come from the original tones, not the flattened ones. Returns nil
// when the recipe has no edge overlay.
func (s *ClassicalStylizer) edgeMask(src *imaging.Buffer, recipe style.Recipe, params style.Params) *filter.Mask {
	offset := params.EdgeOffset + recipe.EdgeOffsetDelta
	if offset < 0 {
		offset = 0
	}

	switch recipe.Edge {
	case style.EdgeAdaptive:
		blurred := filter.Median(src, params.MedianKernel)
		return filter.AdaptiveMean(blurred, params.EdgeBlockSize, offset)
	case style.EdgeBold:
		blurred := filter.Median(src, params.MedianKernel)
		mask := filter.AdaptiveMean(blurred, params.EdgeBlockSize, offset)
		return filter.DilateMask(mask, 1)
	case style.EdgeEnsemble:
		return filter.EnsembleEdges(src, params.EdgeBlockSize, offset, cannyLow, cannyHigh, sobelThreshold)
	default:
		return nil
	}
}

func (s *ClassicalStylizer) applySketch(src *imaging.Buffer, recipe style.Recipe, params style.Params) *imaging.Buffer {
	sketch := filter.Sketch(src, sketchBlur)
	if !recipe.SketchColor {
		return sketch
	}
	quantized := filter.Quantize(src, params.ColorClusters)
	return filter.Blend(sketch, quantized, sketchColorOpacity)
}
