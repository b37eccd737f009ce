package engine

import "errors"

var (
	// ErrInvalidInput marks malformed or out-of-bounds input images.
	ErrInvalidInput = errors.New("invalid input image")

	// ErrProcessing marks an unexpected failure inside a filtering
	// pipeline. It is caught at the stylizer boundary so a batch item's
	// failure never affects its siblings.
	ErrProcessing = errors.New("processing failed")

	// ErrBackendUnavailable is internal to the neural path: it triggers the
	// classical fallback and never reaches callers. Its occurrence is
	// visible only through the FallbackUsed result flag.
	ErrBackendUnavailable = errors.New("neural backend unavailable")
)
