package beamform

import "math"

// Register ranges.
const (
	CoeffMin  = -128
	CoeffMax  = 127
	DelayMax  = 127
	OffsetMax = 255
	ScaleMax  = 255
)

// round rounds to the nearest integer, ties toward +Inf: floor(v + 0.5).
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// clamp limits v to [lo, hi] and reports whether it had to.
func clamp(v, lo, hi float64) (float64, bool) {
	switch {
	case math.IsNaN(v):
		return 0, true
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	}
	return v, false
}

// quantize rounds v and saturates it into a signed coefficient register.
func quantize(v float64) (int16, bool) {
	c, sat := clamp(round(v), CoeffMin, CoeffMax)
	return int16(c), sat
}

// fits reports whether v rounds into a signed coefficient register.
func fits(v float64) bool {
	r := round(v)
	return r >= CoeffMin && r <= CoeffMax
}
