package beamform

import (
	"math"

	"github.com/soundcath/beamformer/internal/geometry"
)

// TxCoeffs is the transmit register payload:
// [offset, x, y, x², y², x·y, x³, y³]. The offset lies in [0, 255]; the
// polynomial terms in [-128, 127].
type TxCoeffs [8]int16

// Indices into TxCoeffs.
const (
	TxOffset = iota
	TxX
	TxY
	TxXX
	TxYY
	TxXY
	TxXXX
	TxYYY
)

// TxResult is the outcome of a transmit compression.
type TxResult struct {
	Coeffs    TxCoeffs
	Offset    float64 // resolved beam offset, seconds
	Saturated int     // number of fields that had to be clamped
}

// txTerms returns the seven unquantized polynomial terms (TxX..TxYYY) of
// the transmit delay surface, in group-pitch coordinates, each multiplied by
// its L factor.
//
// With u, v the element offset from the centre, a = x_r·u + y_r·v and
// q = u² + v², the delay is expanded to third order as
// [a − (q − a²)/2r − a(q − a²)/2r²] / (c·res).
func txTerms(focus geometry.RectPoint, t Transducer, tx TxParams) [7]float64 {
	r := focus.Norm()
	xr, yr := focus.X/r, focus.Y/r
	gp := t.Layout.GroupPitch

	k1 := t.ticks(gp, tx.Resolution)
	k2 := t.ticks(gp*gp/(2*r), tx.Resolution)
	k3 := t.ticks(gp*gp*gp/(2*r*r), tx.Resolution)

	return [7]float64{
		tx.L1 * xr * k1,
		tx.L1 * yr * k1,
		tx.L2 * -(1 - xr*xr) * k2,
		tx.L2 * -(1 - yr*yr) * k2,
		tx.L4Sq * xr * yr * 2 * k2,
		tx.L3 * -xr * (1 - xr*xr) * k3,
		tx.L3 * -yr * (1 - yr*yr) * k3,
	}
}

// txBasisMax returns max |basis_k| / L_k over the aperture for each term.
func txBasisMax(tx TxParams) [7]float64 {
	xm, ym := tx.XMax, tx.YMax
	return [7]float64{
		xm / tx.L1,
		ym / tx.L1,
		xm * xm / tx.L2,
		ym * ym / tx.L2,
		xm * ym / tx.L4Sq,
		xm * xm * xm / tx.L3,
		ym * ym * ym / tx.L3,
	}
}

// CompressTx fits the transmit Taylor polynomial for a focal point.
//
// Each term is rounded and clamped independently. The beam offset is the
// requested hint in ticks, raised to a lower bound computed from the worst
// case sum of the unclamped terms over the aperture so no group can end
// up with a negative delay, and saturated at 255. A focus at the array
// centre yields the zero result.
func CompressTx(focus geometry.RectPoint, t Transducer, tx TxParams) TxResult {
	var res TxResult
	if focus.IsOrigin() {
		return res
	}

	terms := txTerms(focus, t, tx)
	basis := txBasisMax(tx)

	var worst float64
	for k, v := range terms {
		rounded := round(v)
		worst += math.Abs(rounded) * basis[k]
		c, sat := quantize(v)
		res.Coeffs[TxX+k] = c
		if sat {
			res.Saturated++
		}
	}

	lb := math.Ceil(worst)
	if lb > OffsetMax {
		lb = OffsetMax
		res.Saturated++
	}
	hint := round(tx.OffsetHint / tx.Resolution)
	offset, _ := clamp(hint, lb, OffsetMax)
	res.Coeffs[TxOffset] = int16(offset)
	res.Offset = offset * tx.Resolution
	return res
}

// TxGroupDelays is a reconstructed transmit delay per group, in ticks.
type TxGroupDelays [NumGroups]float64

// UncompressTx evaluates transmit coefficients at every group centre.
func UncompressTx(c TxCoeffs, t Transducer, tx TxParams) TxGroupDelays {
	var out TxGroupDelays
	for g := range out {
		x, y := t.Layout.GroupOffset(g)
		out[g] = float64(c[TxOffset]) +
			float64(c[TxX])*x/tx.L1 +
			float64(c[TxY])*y/tx.L1 +
			float64(c[TxXX])*x*x/tx.L2 +
			float64(c[TxYY])*y*y/tx.L2 +
			float64(c[TxXY])*x*y/tx.L4Sq +
			float64(c[TxXXX])*x*x*x/tx.L3 +
			float64(c[TxYYY])*y*y*y/tx.L3
	}
	return out
}

// ExactTxGroupDelays returns the exact relative delay of every group centre
// for a focal point, in transmit ticks.
func ExactTxGroupDelays(focus geometry.RectPoint, t Transducer, tx TxParams) TxGroupDelays {
	var out TxGroupDelays
	r := focus.Norm()
	if r == 0 {
		return out
	}
	for g := range out {
		out[g] = -t.ticks(t.Layout.GroupCentre(g).Distance(focus)-r, tx.Resolution)
	}
	return out
}
