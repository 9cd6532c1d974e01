package config

import "fmt"

// TxConfig holds the transmit Taylor compression parameters.
type TxConfig struct {
	L1           *float64 `json:"l1,omitempty" yaml:"l1,omitempty"`
	L2           *float64 `json:"l2,omitempty" yaml:"l2,omitempty"`
	L3           *float64 `json:"l3,omitempty" yaml:"l3,omitempty"`
	L4Sq         *float64 `json:"l4_sq,omitempty" yaml:"l4_sq,omitempty"`
	XMax         *float64 `json:"x_max,omitempty" yaml:"x_max,omitempty"` // aperture half-width, group pitches
	YMax         *float64 `json:"y_max,omitempty" yaml:"y_max,omitempty"`
	DelayResNs   *float64 `json:"delay_res_ns,omitempty" yaml:"delay_res_ns,omitempty"`
	OffsetHintNs *float64 `json:"offset_hint_ns,omitempty" yaml:"offset_hint_ns,omitempty"`
}

// GetL1 returns the linear term scale.
func (c *TxConfig) GetL1() float64 { return valueOr(c.L1, 4) }

// GetL2 returns the quadratic term scale.
func (c *TxConfig) GetL2() float64 { return valueOr(c.L2, 64) }

// GetL3 returns the cubic term scale.
func (c *TxConfig) GetL3() float64 { return valueOr(c.L3, 1500) }

// GetL4Sq returns the cross term scale.
func (c *TxConfig) GetL4Sq() float64 { return valueOr(c.L4Sq, 32) }

// GetXMax returns the largest |X| group offset on the aperture.
func (c *TxConfig) GetXMax() float64 { return valueOr(c.XMax, 1.5) }

// GetYMax returns the largest |Y| group offset on the aperture.
func (c *TxConfig) GetYMax() float64 { return valueOr(c.YMax, 7.5) }

// GetDelayResNs returns the transmit delay resolution in ns.
func (c *TxConfig) GetDelayResNs() float64 { return valueOr(c.DelayResNs, 12.5) }

// GetOffsetHintNs returns the requested beam offset in ns.
func (c *TxConfig) GetOffsetHintNs() float64 { return valueOr(c.OffsetHintNs, 0) }

// Validate checks the tx section.
func (c *TxConfig) Validate() error {
	if c.GetL1() <= 0 || c.GetL2() <= 0 || c.GetL3() <= 0 || c.GetL4Sq() <= 0 {
		return fmt.Errorf("l-factors must be positive")
	}
	if c.GetXMax() < 0 || c.GetYMax() < 0 {
		return fmt.Errorf("x_max and y_max must be non-negative")
	}
	if c.GetDelayResNs() <= 0 {
		return fmt.Errorf("delay_res_ns must be positive, got %f", c.GetDelayResNs())
	}
	if c.GetOffsetHintNs() < 0 {
		return fmt.Errorf("offset_hint_ns must be non-negative, got %f", c.GetOffsetHintNs())
	}
	return nil
}

// RxConfig holds the receive Taylor compression parameters.
type RxConfig struct {
	L0          *float64 `json:"l0,omitempty" yaml:"l0,omitempty"`
	L1          *float64 `json:"l1,omitempty" yaml:"l1,omitempty"`
	L2          *float64 `json:"l2,omitempty" yaml:"l2,omitempty"`
	C78Factor   *float64 `json:"c78_factor,omitempty" yaml:"c78_factor,omitempty"`
	DelayResNs  *float64 `json:"delay_res_ns,omitempty" yaml:"delay_res_ns,omitempty"`
	StartDepthM *float64 `json:"start_depth_m,omitempty" yaml:"start_depth_m,omitempty"`
	StopDepthM  *float64 `json:"stop_depth_m,omitempty" yaml:"stop_depth_m,omitempty"`
}

// GetL0 returns the residual linear term scale.
func (c *RxConfig) GetL0() float64 { return valueOr(c.L0, 128) }

// GetL1 returns the quadratic and cross term scale.
func (c *RxConfig) GetL1() float64 { return valueOr(c.L1, 1024) }

// GetL2 returns the cubic term scale.
func (c *RxConfig) GetL2() float64 { return valueOr(c.L2, 8192) }

// GetC78Factor returns the fine term correction factor.
func (c *RxConfig) GetC78Factor() float64 { return valueOr(c.C78Factor, 16) }

// GetDelayResNs returns the receive delay resolution in ns.
func (c *RxConfig) GetDelayResNs() float64 { return valueOr(c.DelayResNs, 20) }

// GetStartDepthM returns the dynamic receive start depth in meters.
func (c *RxConfig) GetStartDepthM() float64 { return valueOr(c.StartDepthM, 1e-5) }

// GetStopDepthM returns the dynamic receive stop depth in meters.
func (c *RxConfig) GetStopDepthM() float64 { return valueOr(c.StopDepthM, 1e-4) }

// Validate checks the rx section.
func (c *RxConfig) Validate() error {
	if c.GetL0() <= 0 || c.GetL1() <= 0 || c.GetL2() <= 0 {
		return fmt.Errorf("l-factors must be positive")
	}
	if c.GetC78Factor() <= 0 {
		return fmt.Errorf("c78_factor must be positive, got %f", c.GetC78Factor())
	}
	if c.GetDelayResNs() <= 0 {
		return fmt.Errorf("delay_res_ns must be positive, got %f", c.GetDelayResNs())
	}
	// a zero start depth puts the dynamic focus on the array centre, which
	// compresses to the all-zero "no beam" curve
	if c.GetStartDepthM() <= 0 || c.GetStopDepthM() < c.GetStartDepthM() {
		return fmt.Errorf("need 0 < start_depth_m <= stop_depth_m, got %g and %g", c.GetStartDepthM(), c.GetStopDepthM())
	}
	return nil
}
