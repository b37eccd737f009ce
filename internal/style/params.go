package style

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is wrapped by validation failures on conversion
// parameters: values outside their declared range that cannot be clamped.
var ErrInvalidParameter = errors.New("invalid parameter")

// Parameter ranges. Cluster counts outside the range are rejected; even
// kernel diameters are clamped up to the next odd value.
const (
	MinColorClusters = 2
	MaxColorClusters = 32
	MaxKernelSize    = 99
)

// Params holds the numeric knobs of a conversion. Zero values are filled
// from the style's defaults before validation, so callers only set the
// fields they want to override.
type Params struct {
	// ColorClusters is the number of k-means centroids used for color
	// quantization (2-32).
	ColorClusters int `json:"color_clusters"`

	// BilateralDiameter is the kernel width of the bilateral filter in
	// pixels. Must be positive and odd; even values are clamped up.
	BilateralDiameter int `json:"bilateral_diameter"`

	// SigmaColor and SigmaSpace control the bilateral filter's color and
	// spatial falloff. Must be positive.
	SigmaColor float64 `json:"sigma_color"`
	SigmaSpace float64 `json:"sigma_space"`

	// MedianKernel is the size of the median prefilter applied to the
	// luminance channel before edge thresholding. Must be positive and odd.
	MedianKernel int `json:"median_kernel"`

	// EdgeBlockSize is the neighborhood size of the adaptive threshold.
	// Must be positive and odd.
	EdgeBlockSize int `json:"edge_block_size"`

	// EdgeOffset is subtracted from the local mean before thresholding;
	// lower values mark more pixels as edges. Must be non-negative.
	EdgeOffset int `json:"edge_offset"`
}

// DefaultParams returns the base parameter set shared by most styles.
func DefaultParams() Params {
	return Params{
		ColorClusters:     8,
		BilateralDiameter: 9,
		SigmaColor:        300,
		SigmaSpace:        300,
		MedianKernel:      7,
		EdgeBlockSize:     9,
		EdgeOffset:        2,
	}
}

// Overrides carries optional per-request parameter replacements. Nil fields
// keep the style's defaults. Overrides are validated, never silently
// ignored: an out-of-range value fails the whole request.
type Overrides struct {
	ColorClusters     *int     `json:"color_clusters,omitempty"`
	BilateralDiameter *int     `json:"bilateral_diameter,omitempty"`
	SigmaColor        *float64 `json:"sigma_color,omitempty"`
	SigmaSpace        *float64 `json:"sigma_space,omitempty"`
	MedianKernel      *int     `json:"median_kernel,omitempty"`
	EdgeBlockSize     *int     `json:"edge_block_size,omitempty"`
	EdgeOffset        *int     `json:"edge_offset,omitempty"`
}

// Apply merges the overrides onto a copy of the defaults.
func (o *Overrides) Apply(defaults Params) Params {
	p := defaults
	if o == nil {
		return p
	}
	if o.ColorClusters != nil {
		p.ColorClusters = *o.ColorClusters
	}
	if o.BilateralDiameter != nil {
		p.BilateralDiameter = *o.BilateralDiameter
	}
	if o.SigmaColor != nil {
		p.SigmaColor = *o.SigmaColor
	}
	if o.SigmaSpace != nil {
		p.SigmaSpace = *o.SigmaSpace
	}
	if o.MedianKernel != nil {
		p.MedianKernel = *o.MedianKernel
	}
	if o.EdgeBlockSize != nil {
		p.EdgeBlockSize = *o.EdgeBlockSize
	}
	if o.EdgeOffset != nil {
		p.EdgeOffset = *o.EdgeOffset
	}
	return p
}

// Validate checks the parameters against their declared ranges and returns
// a normalized copy. Kernel sizes that are merely even are clamped up to
// the next odd value; everything else out of range is rejected with an
// error wrapping ErrInvalidParameter.
func (p Params) Validate() (Params, error) {
	if p.ColorClusters < MinColorClusters || p.ColorClusters > MaxColorClusters {
		return p, fmt.Errorf("%w: color_clusters %d outside range %d-%d",
			ErrInvalidParameter, p.ColorClusters, MinColorClusters, MaxColorClusters)
	}

	var err error
	if p.BilateralDiameter, err = normalizeKernel("bilateral_diameter", p.BilateralDiameter); err != nil {
		return p, err
	}
	if p.MedianKernel, err = normalizeKernel("median_kernel", p.MedianKernel); err != nil {
		return p, err
	}
	if p.EdgeBlockSize, err = normalizeKernel("edge_block_size", p.EdgeBlockSize); err != nil {
		return p, err
	}

	if p.SigmaColor <= 0 {
		return p, fmt.Errorf("%w: sigma_color must be positive, got %v", ErrInvalidParameter, p.SigmaColor)
	}
	if p.SigmaSpace <= 0 {
		return p, fmt.Errorf("%w: sigma_space must be positive, got %v", ErrInvalidParameter, p.SigmaSpace)
	}
	if p.EdgeOffset < 0 {
		return p, fmt.Errorf("%w: edge_offset must be non-negative, got %d", ErrInvalidParameter, p.EdgeOffset)
	}
	return p, nil
}

func normalizeKernel(name string, size int) (int, error) {
	if size < 1 || size > MaxKernelSize {
		return size, fmt.Errorf("%w: %s %d outside range 1-%d", ErrInvalidParameter, name, size, MaxKernelSize)
	}
	if size%2 == 0 {
		size++
	}
	return size, nil
}
