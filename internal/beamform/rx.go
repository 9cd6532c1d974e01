package beamform

import (
	"math"

	"github.com/soundcath/beamformer/internal/geometry"
)

// RxCoeffs is the receive register payload. Indices 0..6 are polynomial
// terms already divided by the scale, 7 and 8 the unscaled fine linear
// terms, 9 the scale itself.
type RxCoeffs [10]int16

// Indices into RxCoeffs.
const (
	RxX     = iota // residual linear x, ×L0
	RxXX           // x², ×L1
	RxXXX          // x³, ×L2
	RxY            // residual linear y, ×L0
	RxYY           // y², ×L1
	RxYYY          // y³, ×L2
	RxXY           // x·y, ×L1
	RxFineX        // c78·x
	RxFineY        // c78·y
	RxScale
)

// RxScales are the candidate scale factors, smallest first.
var RxScales = [...]int{1, 4, 8, 16}

// Scale returns the stored scale factor.
func (c RxCoeffs) Scale() int { return int(c[RxScale]) }

// IsZero reports whether every coefficient is zero.
func (c RxCoeffs) IsZero() bool { return c == RxCoeffs{} }

// AssignmentBounds returns the range of the per-group 3-bit assignment
// field implied by the scaled polynomial terms. A scale is acceptable only
// when 0 <= lo <= hi <= 7.
type AssignmentBounds func(terms [7]float64, scale int) (lo, hi int)

// StubAssignmentBounds always reports (0, 0), which accepts every scale.
// The real bound is defined by the ASIC datasheet and has not been
// validated yet.
func StubAssignmentBounds([7]float64, int) (lo, hi int) { return 0, 0 }

// RxResult is the outcome of a receive compression.
type RxResult struct {
	Coeffs    RxCoeffs
	Saturated int // number of fields that had to be clamped
}

// RxCompressor compresses receive delay fields. The zero Assignment uses
// StubAssignmentBounds.
type RxCompressor struct {
	Transducer Transducer
	Rx         RxParams
	Assignment AssignmentBounds
}

// NewRxCompressor returns a compressor with the stub assignment bound.
func NewRxCompressor(p Params) RxCompressor {
	return RxCompressor{Transducer: p.Transducer, Rx: p.Rx, Assignment: StubAssignmentBounds}
}

// CompressRx fits the receive Taylor polynomial for a focal point using
// the default assignment bound.
func CompressRx(focus geometry.RectPoint, p Params) RxCoeffs {
	return NewRxCompressor(p).Compress(focus).Coeffs
}

// terms returns the seven scalable terms and the two raw fine terms.
//
// The linear delay x_r·n·pitch/(c·res) of element column n is split into a
// coarse part carried by the fine register (c78 sub-steps) and a residual
// carried by RxX. Higher orders use group-pitch coordinates like transmit.
func (rc RxCompressor) terms(focus geometry.RectPoint) (terms [7]float64, fineX, fineY float64) {
	t, rx := rc.Transducer, rc.Rx
	r := focus.Norm()
	xr, yr := focus.X/r, focus.Y/r
	gp := t.Layout.GroupPitch

	rawX := xr * t.ticks(t.Layout.Pitch, rx.Resolution)
	rawY := yr * t.ticks(t.Layout.Pitch, rx.Resolution)
	fineX = math.Floor(rx.C78 * rawX)
	fineY = math.Floor(rx.C78 * rawY)

	k2 := t.ticks(gp*gp/(2*r), rx.Resolution)
	k3 := t.ticks(gp*gp*gp/(2*r*r), rx.Resolution)

	terms = [7]float64{
		RxX:   rx.L0 * (rawX - fineX/rx.C78),
		RxXX:  rx.L1 * -(1 - xr*xr) * k2,
		RxXXX: rx.L2 * -xr * (1 - xr*xr) * k3,
		RxY:   rx.L0 * (rawY - fineY/rx.C78),
		RxYY:  rx.L1 * -(1 - yr*yr) * k2,
		RxYYY: rx.L2 * -yr * (1 - yr*yr) * k3,
		RxXY:  rx.L1 * xr * yr * 2 * k2,
	}
	return terms, fineX, fineY
}

// chooseScale returns the smallest candidate scale that keeps every term
// in range and satisfies the assignment bound, or the largest candidate.
func (rc RxCompressor) chooseScale(terms [7]float64) int {
	assign := rc.Assignment
	if assign == nil {
		assign = StubAssignmentBounds
	}
	for _, s := range RxScales {
		ok := true
		for _, v := range terms {
			if !fits(v / float64(s)) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if lo, hi := assign(terms, s); lo >= 0 && lo <= hi && hi <= 7 {
			return s
		}
	}
	return RxScales[len(RxScales)-1]
}

// Compress fits the receive Taylor polynomial for a focal point. A focus
// at the array centre yields all-zero coefficients.
func (rc RxCompressor) Compress(focus geometry.RectPoint) RxResult {
	var res RxResult
	if focus.IsOrigin() {
		return res
	}
	terms, fineX, fineY := rc.terms(focus)
	scale := rc.chooseScale(terms)

	for k, v := range terms {
		c, sat := quantize(v / float64(scale))
		res.Coeffs[k] = c
		if sat {
			res.Saturated++
		}
	}
	for k, v := range [2]float64{fineX, fineY} {
		c, sat := clamp(v, CoeffMin, CoeffMax)
		res.Coeffs[RxFineX+k] = int16(c)
		if sat {
			res.Saturated++
		}
	}
	s, _ := clamp(float64(scale), 0, ScaleMax)
	res.Coeffs[RxScale] = int16(s)
	return res
}

// RxElementDelays is a reconstructed receive delay per element, in ticks.
type RxElementDelays [NumElements]float64

// UncompressRx evaluates receive coefficients at every element.
func UncompressRx(c RxCoeffs, t Transducer, rx RxParams) RxElementDelays {
	var out RxElementDelays
	l := t.Layout
	ratio := l.Pitch / l.GroupPitch
	s := float64(c[RxScale])
	for i := range out {
		col, row := l.Cell(l.Element(i))
		nx := float64(col) - float64(l.Columns()-1)/2
		ny := float64(row) - float64(l.Rows()-1)/2
		x, y := nx*ratio, ny*ratio

		poly := float64(c[RxX])*nx/rx.L0 +
			float64(c[RxXX])*x*x/rx.L1 +
			float64(c[RxXXX])*x*x*x/rx.L2 +
			float64(c[RxY])*ny/rx.L0 +
			float64(c[RxYY])*y*y/rx.L1 +
			float64(c[RxYYY])*y*y*y/rx.L2 +
			float64(c[RxXY])*x*y/rx.L1

		out[i] = float64(c[RxFineX])*nx/rx.C78 + float64(c[RxFineY])*ny/rx.C78 + s*poly
	}
	return out
}
