// Package imaging defines the engine's pixel buffer and the boundary
// conversions around it: decoding uploaded bytes, encoding results, and the
// resize policy applied before expensive filtering.
//
// # Pixel Format
//
// The Buffer type is a packed, row-major, 8-bit RGB buffer with exactly
// three channels. All stylization stages consume and produce Buffers;
// alpha channels and 16-bit depths are flattened at the decode boundary.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with origin at the top-left corner:
// X increases rightward, Y increases downward.
//
// # Thread Safety
//
// Buffers carry no synchronization. A Buffer is owned by the conversion
// that produced it; stages never mutate their input, so concurrent
// conversions on different Buffers are safe without locking.
package imaging
