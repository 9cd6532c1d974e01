package scan

import (
	"github.com/soundcath/beamformer/internal/config"
)

// FarFieldDistance stands in for an infinite focus distance, in meters.
const FarFieldDistance = 1000.0

// Mode selects what a Cache holds per cell.
type Mode int

const (
	// ModeCoefficients stores Taylor coefficients, the RX group delays of
	// the representative group and, with dynamic receive, the receive curve.
	ModeCoefficients Mode = iota
	// ModeDelays stores the exact TX/RX delay field pair.
	ModeDelays
)

func (m Mode) String() string {
	if m == ModeDelays {
		return "delays"
	}
	return "coefficients"
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "delays":
		return ModeDelays, true
	case "coefficients":
		return ModeCoefficients, true
	}
	return ModeCoefficients, false
}

// Params describes the steering grid and focus settings of a scan.
type Params struct {
	XMinDeg, XMaxDeg float64
	XSteps           int
	YMinDeg, YMaxDeg float64
	YSteps           int
	FocusTx          float64 // meters, 0 = far field
	FocusRx          float64 // meters, 0 = dynamic receive
	UseDelays        bool
	Workers          int // 0 = GOMAXPROCS
}

// DefaultParams returns the stock 60×60 scan over ±30°.
func DefaultParams() Params {
	return ParamsFromConfig(&config.EmptyConfig().Scan)
}

// ParamsFromConfig converts the scan section of a validated configuration.
func ParamsFromConfig(c *config.ScanConfig) Params {
	return Params{
		XMinDeg:   c.GetXMinDeg(),
		XMaxDeg:   c.GetXMaxDeg(),
		XSteps:    c.GetXSteps(),
		YMinDeg:   c.GetYMinDeg(),
		YMaxDeg:   c.GetYMaxDeg(),
		YSteps:    c.GetYSteps(),
		FocusTx:   c.GetFocusTxM(),
		FocusRx:   c.GetFocusRxM(),
		UseDelays: c.GetUseDelays(),
		Workers:   c.GetWorkers(),
	}
}

// Mode returns the storage mode implied by UseDelays.
func (p Params) Mode() Mode {
	if p.UseDelays {
		return ModeDelays
	}
	return ModeCoefficients
}

// Dynamic reports whether receive focus follows the echo depth.
func (p Params) Dynamic() bool { return p.FocusRx == 0 }

// TxDistance returns the transmit focus distance.
func (p Params) TxDistance() float64 {
	if p.FocusTx == 0 {
		return FarFieldDistance
	}
	return p.FocusTx
}

// RxDistance returns the static receive focus distance.
func (p Params) RxDistance() float64 {
	if p.FocusRx == 0 {
		return FarFieldDistance
	}
	return p.FocusRx
}

// Cells returns the number of grid cells.
func (p Params) Cells() int { return p.XSteps * p.YSteps }
