package beamform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconstructionError(t *testing.T) {
	exact := []float64{0, 1, 2, 3}

	e := ReconstructionError(exact, []float64{10, 11, 12, 13})
	assert.InDelta(t, 0, e.Max, 1e-12, "constant offsets are not errors")
	assert.InDelta(t, 0, e.RMS, 1e-12)

	e = ReconstructionError(exact, []float64{1, 0, 3, 2})
	assert.InDelta(t, 1, e.Max, 1e-12)
	assert.InDelta(t, 1, e.RMS, 1e-12)

	e = ReconstructionError(exact, []float64{0, 1, 2, 7})
	assert.InDelta(t, 3, e.Max, 1e-12)
	assert.InDelta(t, math.Sqrt(3), e.RMS, 1e-12)

	assert.Equal(t, ErrorStats{}, ReconstructionError(exact, exact[:2]))
	assert.Equal(t, ErrorStats{}, ReconstructionError(nil, nil))
}
