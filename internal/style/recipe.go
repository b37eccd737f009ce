package style

// EdgeMode selects how a recipe builds its edge mask.
type EdgeMode int

const (
	// EdgeNone skips the edge overlay entirely (oil painting).
	EdgeNone EdgeMode = iota
	// EdgeAdaptive thresholds luminance against its local mean.
	EdgeAdaptive
	// EdgeBold uses a lower threshold and dilates the mask for thick lines.
	EdgeBold
	// EdgeEnsemble majority-votes sobel, adaptive and Canny estimators.
	EdgeEnsemble
)

// Recipe is a declarative description of a classical pipeline: which stages
// run and with what style-specific settings. The stylizer interprets
// recipes in a fixed stage order (smooth, edge, quantize, fuse, enhance),
// so adding a style means adding a table entry, not a new procedure.
type Recipe struct {
	// SmoothPasses is the number of cascaded bilateral passes (0 skips
	// smoothing, only the sketch styles do that).
	SmoothPasses int

	// WideKernel switches to a larger bilateral diameter for the softer
	// styles; SigmaBoost scales both sigmas beyond the parameter defaults.
	WideKernel bool
	SigmaBoost float64

	// Edge selects the edge mask construction; EdgeOffsetDelta shifts the
	// adaptive threshold offset relative to the parameter default (negative
	// marks more edges, positive fewer).
	Edge            EdgeMode
	EdgeOffsetDelta int

	// Clusters overrides the parameter cluster count when non-zero.
	Clusters int

	// Sketch replaces the color pipeline with the pencil-sketch pipeline;
	// SketchColor additionally blends the sketch over the quantized colors.
	Sketch      bool
	SketchColor bool

	// Saturation scales HSV saturation after quantization (0 or 1 leaves
	// colors untouched).
	Saturation float64

	// Post-processing toggles used by the highest-quality recipes.
	LocalContrast  bool
	Unsharp        bool
	ExtraSmoothing bool
}
