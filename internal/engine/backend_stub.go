//go:build !gocv
// +build !gocv

package engine

import (
	"fmt"

	"github.com/inkbrush/cartoonize/internal/imaging"
)

// stubBackend stands in for the learned backend in builds without the gocv
// tag. Its probe reports unavailable, so every neural style routes through
// the classical fallback recipes.
type stubBackend struct{}

// NewBackend returns the stub backend; modelDir is accepted for signature
// parity with the gocv build and ignored.
func NewBackend(modelDir string) Backend {
	_ = modelDir
	return stubBackend{}
}

func (stubBackend) Probe() Capability {
	return Capability{
		Available: false,
		Reason:    "built without gocv support",
	}
}

func (stubBackend) Stylize(src *imaging.Buffer, styleID string) (*imaging.Buffer, error) {
	_ = src
	return nil, fmt.Errorf("%w: built without gocv support (style %q)", ErrBackendUnavailable, styleID)
}
