package config

import "fmt"

// ScanConfig holds the steering grid and focus settings of a scan.
type ScanConfig struct {
	XMinDeg   *float64 `json:"x_min_deg,omitempty" yaml:"x_min_deg,omitempty"`
	XMaxDeg   *float64 `json:"x_max_deg,omitempty" yaml:"x_max_deg,omitempty"`
	XSteps    *int     `json:"x_steps,omitempty" yaml:"x_steps,omitempty"`
	YMinDeg   *float64 `json:"y_min_deg,omitempty" yaml:"y_min_deg,omitempty"`
	YMaxDeg   *float64 `json:"y_max_deg,omitempty" yaml:"y_max_deg,omitempty"`
	YSteps    *int     `json:"y_steps,omitempty" yaml:"y_steps,omitempty"`
	FocusTxM  *float64 `json:"focus_tx_m,omitempty" yaml:"focus_tx_m,omitempty"` // 0 = far field
	FocusRxM  *float64 `json:"focus_rx_m,omitempty" yaml:"focus_rx_m,omitempty"` // 0 = dynamic
	UseDelays *bool    `json:"use_delays,omitempty" yaml:"use_delays,omitempty"`
	Workers   *int     `json:"workers,omitempty" yaml:"workers,omitempty"` // 0 = GOMAXPROCS
}

func (c *ScanConfig) GetXMinDeg() float64 { return valueOr(c.XMinDeg, -30) }
func (c *ScanConfig) GetXMaxDeg() float64 { return valueOr(c.XMaxDeg, 30) }
func (c *ScanConfig) GetXSteps() int { return valueOr(c.XSteps, 60) }
func (c *ScanConfig) GetYMinDeg() float64 { return valueOr(c.YMinDeg, -30) }
func (c *ScanConfig) GetYMaxDeg() float64 { return valueOr(c.YMaxDeg, 30) }
func (c *ScanConfig) GetYSteps() int { return valueOr(c.YSteps, 60) }
func (c *ScanConfig) GetFocusTxM() float64 { return valueOr(c.FocusTxM, 0.05) }
func (c *ScanConfig) GetFocusRxM() float64 { return valueOr(c.FocusRxM, 0) }
func (c *ScanConfig) GetUseDelays() bool { return valueOr(c.UseDelays, false) }
func (c *ScanConfig) GetWorkers() int { return valueOr(c.Workers, 0) }

// Validate checks the scan section.
func (c *ScanConfig) Validate() error {
	for _, a := range []struct {
		name string
		v    float64
	}{
		{"x_min_deg", c.GetXMinDeg()}, {"x_max_deg", c.GetXMaxDeg()},
		{"y_min_deg", c.GetYMinDeg()}, {"y_max_deg", c.GetYMaxDeg()},
	} {
		if a.v < -90 || a.v > 90 {
			return fmt.Errorf("%s must be within [-90, 90], got %f", a.name, a.v)
		}
	}
	if c.GetXMinDeg() > c.GetXMaxDeg() {
		return fmt.Errorf("x_min_deg (%f) must not exceed x_max_deg (%f)", c.GetXMinDeg(), c.GetXMaxDeg())
	}
	if c.GetYMinDeg() > c.GetYMaxDeg() {
		return fmt.Errorf("y_min_deg (%f) must not exceed y_max_deg (%f)", c.GetYMinDeg(), c.GetYMaxDeg())
	}
	if c.GetXSteps() < 1 || c.GetYSteps() < 1 {
		return fmt.Errorf("x_steps and y_steps must be at least 1, got %d and %d", c.GetXSteps(), c.GetYSteps())
	}
	if c.GetFocusTxM() < 0 || c.GetFocusRxM() < 0 {
		return fmt.Errorf("focus distances must be non-negative")
	}
	if c.GetWorkers() < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.GetWorkers())
	}
	return nil
}
