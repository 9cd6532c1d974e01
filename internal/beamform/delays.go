package beamform

import (
	"gonum.org/v1/gonum/floats"

	"github.com/soundcath/beamformer/internal/geometry"
)

// DelayField holds one delay per element, indexed by Layout.Index, in
// delay ticks. After normalization the smallest entry is 0.
type DelayField [NumElements]int8

// GroupDelayField holds the delays of the 16 elements of a single group,
// normalized within that group.
type GroupDelayField [GroupSize]int8

// Max returns the largest delay in the field.
func (f DelayField) Max() int8 {
	var m int8
	for _, v := range f {
		if v > m {
			m = v
		}
	}
	return m
}

// RelativeDelays returns the exact, unnormalized delay of every element
// relative to the array centre, in ticks of the given resolution:
// -(d(element) - r) / (c * res). Elements nearer the focus fire later.
// A focus at the array centre yields all zeros.
func RelativeDelays(focus geometry.RectPoint, t Transducer, resolution float64) [NumElements]float64 {
	var out [NumElements]float64
	r := focus.Norm()
	if r == 0 {
		return out
	}
	for i := range out {
		p := t.Layout.Position(t.Layout.Element(i))
		out[i] = -t.ticks(p.Distance(focus)-r, resolution)
	}
	return out
}

// CalculateDelays returns the normalized per-element delay field for a
// focal point. Values are shifted so the minimum is zero, rounded and
// saturated at DelayMax.
func CalculateDelays(focus geometry.RectPoint, t Transducer, resolution float64) DelayField {
	var f DelayField
	if focus.IsOrigin() {
		return f
	}
	raw := RelativeDelays(focus, t, resolution)
	normalize(raw[:], func(i int, v int8) { f[i] = v })
	return f
}

// CalculateGroupDelays returns the delays of the elements of group g,
// normalized so the earliest element of that group fires at zero.
func CalculateGroupDelays(focus geometry.RectPoint, group int, t Transducer, resolution float64) GroupDelayField {
	var f GroupDelayField
	if focus.IsOrigin() || group < 0 || group >= t.Layout.Groups() {
		return f
	}
	r := focus.Norm()
	var raw [GroupSize]float64
	for l := range raw {
		p := t.Layout.Position(geometry.ElementIndex{Group: group, Local: l})
		raw[l] = -t.ticks(p.Distance(focus)-r, resolution)
	}
	normalize(raw[:], func(i int, v int8) { f[i] = v })
	return f
}

func normalize(raw []float64, set func(int, int8)) {
	lo := floats.Min(raw)
	for i, v := range raw {
		c, _ := clamp(round(v-lo), 0, DelayMax)
		set(i, int8(c))
	}
}
