package beamform

import (
	"math"

	"github.com/soundcath/beamformer/internal/geometry"
)

// DynamicReceiveCurve describes how the receive focus evolves along one
// steering ray during a receive window. Base holds the coefficients at the
// start depth; Slope, Duration and Master describe how the ASIC re-issues
// them as the echo deepens.
type DynamicReceiveCurve struct {
	Slope    [8]int16
	Duration [8]int16
	Master   [9]int16
	Base     RxCoeffs
}

// IsZero reports whether c is the degenerate "no beam" curve.
func (c DynamicReceiveCurve) IsZero() bool { return c == DynamicReceiveCurve{} }

// SweepModel derives the slope, duration and master curve fields of a
// dynamic receive curve. start is the focus at the start depth, runtime
// the length of the receive window in seconds.
//
// No model ships with the package: the derivation depends on the ASIC
// sweep engine, whose formula is not yet documented by the vendor.
type SweepModel interface {
	Sweep(start geometry.RectPoint, base RxCoeffs, runtime float64) (slope, duration [8]int16, master [9]int16)
}

// Runtime returns the round-trip time of the receive window between the
// configured start and stop depths.
func (rx RxParams) Runtime(soundSpeed float64) float64 {
	if soundSpeed <= 0 {
		return 0
	}
	return 2 * (rx.StopDepth - rx.StartDepth) / soundSpeed
}

// validAngle reports whether a steering angle lies in [-90, 90].
func validAngle(deg float64) bool {
	return !math.IsNaN(deg) && deg >= -90 && deg <= 90
}

// Dynamic builds the dynamic receive curve for a steering direction.
// Angles outside [-90°, 90°] yield the zero curve. Without a model the
// sweep fields stay zero and only Base is populated.
func (rc RxCompressor) Dynamic(xDeg, yDeg, runtime float64, model SweepModel) DynamicReceiveCurve {
	var curve DynamicReceiveCurve
	if !validAngle(xDeg) || !validAngle(yDeg) {
		return curve
	}
	start := geometry.FromSteering(xDeg, yDeg, rc.Rx.StartDepth)
	curve.Base = rc.Compress(start).Coeffs
	if model != nil {
		curve.Slope, curve.Duration, curve.Master = model.Sweep(start, curve.Base, runtime)
	}
	return curve
}

// CompressRxDynamic builds the dynamic receive curve for a steering
// direction with the default assignment bound and no sweep model.
func CompressRxDynamic(xDeg, yDeg float64, p Params) DynamicReceiveCurve {
	return NewRxCompressor(p).Dynamic(xDeg, yDeg, p.Rx.Runtime(p.Transducer.SoundSpeed), nil)
}
