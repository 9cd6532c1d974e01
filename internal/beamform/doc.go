// Package beamform turns focal points into the numeric payloads the
// beamforming ASIC accepts: exact per-element delay tables and their
// quantized Taylor coefficient approximations for transmit and receive.
//
// Everything here is a pure function of its inputs. Parameter records are
// passed by value; no call keeps state between invocations, so results may
// be computed concurrently and memoized freely.
//
// Degenerate requests (focus at the array centre, steering angles outside
// [-90°, 90°]) return zero values rather than errors, and coefficients that
// do not fit their register width are saturated.
package beamform
