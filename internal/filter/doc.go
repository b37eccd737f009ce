// Package filter implements the composable pipeline stages the stylizer
// recipes are built from: edge-preserving smoothing, edge extraction,
// color quantization, sketching, fusion, and post-processing enhancement.
//
// Every stage is a pure function over imaging.Buffer values: it never
// mutates its input and is deterministic for fixed inputs, including the
// k-means quantizer, which uses RNG-free initialization. That determinism
// is what makes classical conversions byte-reproducible.
package filter
