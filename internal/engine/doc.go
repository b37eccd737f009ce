// Package engine hosts the stylization entry points: the classical recipe
// interpreter, the neural wrapper with its startup capability probe and
// classical fallback routing, and the dispatcher that validates, resizes,
// routes and times conversions.
//
// # Concurrency
//
// Conversions are synchronous and CPU-bound, operating only on buffers
// local to the call. The registry is read-only after construction and the
// neural backend serializes inference internally, so any number of
// conversions may run concurrently.
//
// # Error Taxonomy
//
// Validation failures (ErrInvalidInput, style.ErrUnsupportedStyle,
// style.ErrInvalidParameter) are raised before any filtering begins.
// ErrProcessing wraps unexpected pipeline failures and is caught per item
// in batch mode. ErrBackendUnavailable never escapes this package: it is
// the fallback trigger, observable only through Result.FallbackUsed.
package engine
