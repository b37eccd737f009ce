package engine

import (
	"fmt"
	"time"

	"github.com/inkbrush/cartoonize/internal/imaging"
	"github.com/inkbrush/cartoonize/internal/style"
)

// Input bounds and the resize policy. Inputs larger than the output bounds
// are downscaled before filtering when the caller asks for it, which keeps
// the quadratic-ish stages affordable on very large photos.
const (
	MinDimension    = 50
	MaxDimension    = 10000
	MaxOutputWidth  = 1920
	MaxOutputHeight = 1080
)

// Options carries the per-request conversion settings.
type Options struct {
	// ResizeOutput downscales inputs exceeding 1920x1080 before filtering,
	// preserving aspect ratio.
	ResizeOutput bool

	// Overrides replaces individual style defaults; nil keeps them all.
	Overrides *style.Overrides
}

// Result is the outcome of one conversion. It is owned by the caller; the
// engine retains no reference after returning.
type Result struct {
	Image        *imaging.Buffer
	StyleUsed    string
	Elapsed      time.Duration
	FallbackUsed bool
}

// Dispatcher is the engine's single entry point: it validates input,
// applies the resize policy, routes to the classical or neural stylizer by
// style category, and measures timing.
type Dispatcher struct {
	registry  *style.Registry
	classical *ClassicalStylizer
	neural    *NeuralStylizer
}

// NewDispatcher wires the dispatcher over its collaborators.
func NewDispatcher(registry *style.Registry, classical *ClassicalStylizer, neural *NeuralStylizer) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		classical: classical,
		neural:    neural,
	}
}

// Capability reports the neural backend's probe result for health and
// status reporting.
func (d *Dispatcher) Capability() Capability {
	return d.neural.Capability()
}

// Styles enumerates the registry in its stable order.
func (d *Dispatcher) Styles() []style.Spec {
	return d.registry.List()
}

// Convert runs one conversion. All validation errors are raised before any
// filtering work starts: no wasted computation, no partial side effects.
func (d *Dispatcher) Convert(src *imaging.Buffer, styleID string, opts Options) (*Result, error) {
	if err := validateInput(src); err != nil {
		return nil, err
	}

	spec, err := d.registry.Lookup(styleID)
	if err != nil {
		return nil, err
	}

	params, err := opts.Overrides.Apply(spec.Defaults).Validate()
	if err != nil {
		return nil, err
	}

	if opts.ResizeOutput {
		src = imaging.FitWithin(src, MaxOutputWidth, MaxOutputHeight)
	}

	start := time.Now()
	var (
		out      *imaging.Buffer
		fallback bool
	)
	switch spec.Category {
	case style.CategoryNeural:
		out, fallback, err = d.neural.Convert(src, styleID, params)
	default:
		out, err = d.classical.Convert(src, styleID, params)
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Image:        out,
		StyleUsed:    styleID,
		Elapsed:      time.Since(start),
		FallbackUsed: fallback,
	}, nil
}

// BatchItem is one entry of a batch conversion.
type BatchItem struct {
	Name  string
	Image *imaging.Buffer
}

// BatchItemResult holds one item's outcome: exactly one of Result and Err
// is set.
type BatchItemResult struct {
	Name   string
	Result *Result
	Err    error
}

// BatchReport summarizes a batch conversion.
type BatchReport struct {
	Total      int
	Successful int
	Failed     int
	Items      []BatchItemResult
}

// ConvertBatch converts each item independently with per-item failure
// isolation: one item's error never aborts or corrupts its siblings.
func (d *Dispatcher) ConvertBatch(items []BatchItem, styleID string, opts Options) *BatchReport {
	report := &BatchReport{
		Total: len(items),
		Items: make([]BatchItemResult, 0, len(items)),
	}
	for _, item := range items {
		result, err := d.Convert(item.Image, styleID, opts)
		if err != nil {
			report.Failed++
			report.Items = append(report.Items, BatchItemResult{Name: item.Name, Err: err})
			continue
		}
		report.Successful++
		report.Items = append(report.Items, BatchItemResult{Name: item.Name, Result: result})
	}
	return report
}

func validateInput(src *imaging.Buffer) error {
	if src.Empty() {
		return fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	if src.Width < MinDimension || src.Height < MinDimension {
		return fmt.Errorf("%w: %dx%d below minimum %dx%d",
			ErrInvalidInput, src.Width, src.Height, MinDimension, MinDimension)
	}
	if src.Width > MaxDimension || src.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d above maximum %dx%d",
			ErrInvalidInput, src.Width, src.Height, MaxDimension, MaxDimension)
	}
	if len(src.Pix) != src.Width*src.Height*3 {
		return fmt.Errorf("%w: pixel buffer length %d does not match %dx%dx3",
			ErrInvalidInput, len(src.Pix), src.Width, src.Height)
	}
	return nil
}
