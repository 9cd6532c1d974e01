package beamform

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/soundcath/beamformer/internal/geometry"
)

// ErrorStats summarizes the difference between an exact and a
// reconstructed delay profile, in ticks, after removing the mean of each.
type ErrorStats struct {
	Max float64
	RMS float64
}

// ReconstructionError compares two delay profiles of equal length. Only the
// shape matters: a constant offset between them is not an error.
func ReconstructionError(exact, approx []float64) ErrorStats {
	if len(exact) == 0 || len(exact) != len(approx) {
		return ErrorStats{}
	}
	diff := make([]float64, len(exact))
	floats.SubTo(diff, approx, exact)
	floats.AddConst(-stat.Mean(diff, nil), diff)

	sq := make([]float64, len(diff))
	floats.MulTo(sq, diff, diff)
	return ErrorStats{
		Max: math.Max(floats.Max(diff), -floats.Min(diff)),
		RMS: math.Sqrt(stat.Mean(sq, nil)),
	}
}

// TxError returns the transmit reconstruction error of coefficients c for
// a focal point, evaluated at every group centre.
func TxError(focus geometry.RectPoint, c TxCoeffs, t Transducer, tx TxParams) ErrorStats {
	exact := ExactTxGroupDelays(focus, t, tx)
	approx := UncompressTx(c, t, tx)
	return ReconstructionError(exact[:], approx[:])
}

// RxError returns the receive reconstruction error of coefficients c for a
// focal point, evaluated at every element.
func RxError(focus geometry.RectPoint, c RxCoeffs, t Transducer, rx RxParams) ErrorStats {
	exact := RelativeDelays(focus, t, rx.Resolution)
	approx := UncompressRx(c, t, rx)
	return ReconstructionError(exact[:], approx[:])
}
