package scan

import "math"

// angle returns the i-th of steps angles spread evenly over [lo, hi].
// A single step sits at lo.
func angle(lo, hi float64, steps, i int) float64 {
	if steps <= 1 {
		return lo
	}
	return lo + float64(i)*(hi-lo)/float64(steps-1)
}

// XAngle returns the X steering angle of column i, in degrees.
func (p Params) XAngle(i int) float64 { return angle(p.XMinDeg, p.XMaxDeg, p.XSteps, i) }

// YAngle returns the Y steering angle of row j, in degrees.
func (p Params) YAngle(j int) float64 { return angle(p.YMinDeg, p.YMaxDeg, p.YSteps, j) }

// Index returns the flat slot of cell (i, j); rows run along Y.
func (p Params) Index(i, j int) int { return j*p.XSteps + i }

// Cell is the inverse of Index.
func (p Params) Cell(idx int) (i, j int) { return idx % p.XSteps, idx / p.XSteps }

// InRange reports whether (i, j) addresses a grid cell.
func (p Params) InRange(i, j int) bool {
	return i >= 0 && i < p.XSteps && j >= 0 && j < p.YSteps
}

// Nearest returns the cell whose steering angles are closest to the
// requested ones.
func (p Params) Nearest(xDeg, yDeg float64) (i, j int) {
	return nearest(p.XMinDeg, p.XMaxDeg, p.XSteps, xDeg), nearest(p.YMinDeg, p.YMaxDeg, p.YSteps, yDeg)
}

func nearest(lo, hi float64, steps int, v float64) int {
	if steps <= 1 || hi == lo {
		return 0
	}
	k := math.Round((v - lo) / (hi - lo) * float64(steps-1))
	return int(math.Max(0, math.Min(k, float64(steps-1))))
}
