package beamform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundcath/beamformer/internal/geometry"
)

func TestCompressRxGolden(t *testing.T) {
	p := DefaultParams()
	want := RxCoeffs{1, -86, -33, 1, -86, -33, 86, 55, 55, 8}
	for i := 0; i < 3; i++ {
		got := CompressRx(geometry.Rect(0.005, 0.005, 0.005), p)
		require.Equal(t, want, got, "run %d", i)
	}
}

func TestCompressRxKnownFoci(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name  string
		focus geometry.RectPoint
		want  RxCoeffs
	}{
		{"on axis", geometry.Rect(0, 0, 0.05), RxCoeffs{0, -45, 0, 0, -45, 0, 0, 0, 0, 4}},
		{"steered", geometry.Rect(0.01, -0.02, 0.05), RxCoeffs{1, -39, -1, 1, -35, 1, -5, 17, -36, 4}},
		{"mirrored golden", geometry.Rect(-0.005, -0.005, 0.005), RxCoeffs{0, -86, 33, 0, -86, 33, 86, -56, -56, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompressRx(tt.focus, p))
		})
	}
}

func TestCompressRxOrigin(t *testing.T) {
	p := DefaultParams()
	c := CompressRx(geometry.RectPoint{}, p)
	assert.True(t, c.IsZero())
	assert.Equal(t, RxResult{}, NewRxCompressor(p).Compress(geometry.RectPoint{}))
}

func TestCompressRxRanges(t *testing.T) {
	p := DefaultParams()
	rc := NewRxCompressor(p)
	for _, r := range []float64{1e-5, 0.001, 0.005, 0.02, 0.1, 0.26} {
		for xDeg := -90.0; xDeg <= 90; xDeg += 15 {
			for yDeg := -90.0; yDeg <= 90; yDeg += 15 {
				focus := geometry.FromSteering(xDeg, yDeg, r)
				res := rc.Compress(focus)
				for k := RxX; k <= RxFineY; k++ {
					require.GreaterOrEqual(t, res.Coeffs[k], int16(CoeffMin), "focus %v term %d", focus, k)
					require.LessOrEqual(t, res.Coeffs[k], int16(CoeffMax), "focus %v term %d", focus, k)
				}
				require.Contains(t, RxScales[:], res.Coeffs.Scale(), "focus %v", focus)
				assert.Equal(t, res, rc.Compress(focus), "not idempotent for %v", focus)
			}
		}
	}
}

func TestCompressRxSaturatedFallback(t *testing.T) {
	p := DefaultParams()
	res := NewRxCompressor(p).Compress(geometry.Rect(0, 0, 1e-5))
	assert.Equal(t, 16, res.Coeffs.Scale())
	assert.Equal(t, int16(CoeffMin), res.Coeffs[RxXX])
	assert.Equal(t, int16(CoeffMin), res.Coeffs[RxYY])
	assert.Equal(t, 2, res.Saturated)
}

func TestCompressRxAssignmentBounds(t *testing.T) {
	p := DefaultParams()
	focus := geometry.Rect(0.005, 0.005, 0.005)

	var calls []int
	rc := NewRxCompressor(p)
	rc.Assignment = func(terms [7]float64, scale int) (int, int) {
		calls = append(calls, scale)
		if scale < 16 {
			return 3, 8
		}
		return 2, 5
	}
	got := rc.Compress(focus).Coeffs
	assert.Equal(t, RxCoeffs{0, -43, -16, 0, -43, -16, 43, 55, 55, 16}, got)
	// Scales 1 and 4 fail the range check before the bound is consulted.
	assert.Equal(t, []int{8, 16}, calls)

	rc.Assignment = func([7]float64, int) (int, int) { return 5, 1 }
	assert.Equal(t, 16, rc.Compress(focus).Coeffs.Scale(), "unsatisfiable bound falls back to 16")

	rc.Assignment = nil
	assert.Equal(t, 8, rc.Compress(focus).Coeffs.Scale(), "nil bound behaves like the stub")
}

func TestCompressRxReconstruction(t *testing.T) {
	p := DefaultParams()
	foci := []geometry.RectPoint{
		geometry.Rect(0, 0, 0.05),
		geometry.Rect(0.01, -0.02, 0.05),
		geometry.Rect(0.02, 0.02, 0.04),
		geometry.Rect(-0.01, 0.015, 0.06),
		geometry.Rect(0, 0, 0.1),
	}
	for _, f := range foci {
		c := CompressRx(f, p)
		e := RxError(f, c, p.Transducer, p.Rx)
		assert.Less(t, e.Max, 1.5, "focus %v", f)
	}
}
