// Package scan precomputes beamforming payloads over a steering grid.
//
// A Cache is built once per parameter set, in parallel, and is read-only
// afterwards: accessors return copies, and a parameter change means
// building a new Cache rather than patching the old one.
package scan
