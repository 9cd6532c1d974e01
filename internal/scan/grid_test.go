package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridAngles(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, -30.0, p.XAngle(0))
	assert.InDelta(t, 30.0, p.XAngle(59), 1e-12)
	assert.InDelta(t, -30+60.0/59, p.YAngle(1), 1e-12)

	p.XSteps = 1
	p.XMinDeg, p.XMaxDeg = 12, 40
	assert.Equal(t, 12.0, p.XAngle(0))
}

func TestGridIndex(t *testing.T) {
	p := Params{XSteps: 7, YSteps: 5}
	seen := make(map[int]bool)
	for j := 0; j < p.YSteps; j++ {
		for i := 0; i < p.XSteps; i++ {
			idx := p.Index(i, j)
			assert.False(t, seen[idx], "slot %d reused", idx)
			seen[idx] = true
			gi, gj := p.Cell(idx)
			assert.Equal(t, [2]int{i, j}, [2]int{gi, gj})
		}
	}
	assert.Len(t, seen, p.Cells())
	assert.False(t, p.InRange(7, 0))
	assert.False(t, p.InRange(0, -1))
}

func TestGridNearest(t *testing.T) {
	p := Params{XMinDeg: -30, XMaxDeg: 30, XSteps: 61, YMinDeg: -10, YMaxDeg: 10, YSteps: 3}
	tests := []struct {
		x, y   float64
		wi, wj int
	}{
		{0, 0, 30, 1},
		{-30, -10, 0, 0},
		{29.6, 4, 60, 1},
		{100, -100, 60, 0},
	}
	for _, tt := range tests {
		i, j := p.Nearest(tt.x, tt.y)
		assert.Equal(t, [2]int{tt.wi, tt.wj}, [2]int{i, j}, "Nearest(%v, %v)", tt.x, tt.y)
	}

	single := Params{XMinDeg: 5, XMaxDeg: 5, XSteps: 1, YSteps: 1}
	i, j := single.Nearest(10, 10)
	assert.Equal(t, [2]int{0, 0}, [2]int{i, j})
}

func TestParamsDistances(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 0.05, p.TxDistance())
	assert.Equal(t, FarFieldDistance, p.RxDistance())
	assert.True(t, p.Dynamic())
	assert.Equal(t, ModeCoefficients, p.Mode())

	p.FocusTx, p.FocusRx, p.UseDelays = 0, 0.03, true
	assert.Equal(t, FarFieldDistance, p.TxDistance())
	assert.Equal(t, 0.03, p.RxDistance())
	assert.False(t, p.Dynamic())
	assert.Equal(t, ModeDelays, p.Mode())
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeCoefficients, ModeDelays} {
		got, ok := ParseMode(m.String())
		assert.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParseMode("bogus")
	assert.False(t, ok)
}
