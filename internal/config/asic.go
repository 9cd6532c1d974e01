package config

import "fmt"

// Clock speeds accepted by the ASIC.
const (
	ClockLow  = "low"  // 25 MHz
	ClockHigh = "high" // 100 MHz
)

// ASICConfig holds the register-level settings uploaded to the ASIC before
// a scan. Names follow the SetParam groups (ConfigCore, BeamTiming,
// ConfigDRV, BModeSendBeam).
type ASICConfig struct {
	Clock *string `json:"clock,omitempty" yaml:"clock,omitempty"`

	// ConfigCore
	ISelLNA          *int  `json:"isel_lna,omitempty" yaml:"isel_lna,omitempty"`
	ISelOdrv         *int  `json:"isel_odrv,omitempty" yaml:"isel_odrv,omitempty"`
	ISelResCtrl      *int  `json:"isel_res_ctrl,omitempty" yaml:"isel_res_ctrl,omitempty"`
	ISelDcGND        *int  `json:"isel_dc_gnd,omitempty" yaml:"isel_dc_gnd,omitempty"`
	ResCal           *int  `json:"res_cal,omitempty" yaml:"res_cal,omitempty"`
	AnalogResetNoRx  *bool `json:"analog_reset_no_rx,omitempty" yaml:"analog_reset_no_rx,omitempty"`
	AnalogResetAuto  *bool `json:"analog_reset_auto,omitempty" yaml:"analog_reset_auto,omitempty"`
	LNAAutoPowerDown *bool `json:"lna_auto_power_down,omitempty" yaml:"lna_auto_power_down,omitempty"`
	BiasEn           *bool `json:"bias_en,omitempty" yaml:"bias_en,omitempty"`
	ODrvEn           *bool `json:"odrv_en,omitempty" yaml:"odrv_en,omitempty"`
	RxAlwaysEn       *bool `json:"rx_always_en,omitempty" yaml:"rx_always_en,omitempty"`
	CWEn             *bool `json:"cw_en,omitempty" yaml:"cw_en,omitempty"`
	LNAEn            *bool `json:"lna_en,omitempty" yaml:"lna_en,omitempty"`

	// BeamTiming, in clock cycles
	SetupTime        *int `json:"setup_time,omitempty" yaml:"setup_time,omitempty"`
	RunRxTime        *int `json:"run_rx_time,omitempty" yaml:"run_rx_time,omitempty"`
	RunTxTime        *int `json:"run_tx_time,omitempty" yaml:"run_tx_time,omitempty"`
	StopTxTime       *int `json:"stop_tx_time,omitempty" yaml:"stop_tx_time,omitempty"`
	StopRxTime       *int `json:"stop_rx_time,omitempty" yaml:"stop_rx_time,omitempty"`
	AnaResetStopTime *int `json:"ana_reset_stop_time,omitempty" yaml:"ana_reset_stop_time,omitempty"`
	PreChargeTime    *int `json:"pre_charge_time,omitempty" yaml:"pre_charge_time,omitempty"`

	// ConfigDRV
	DrvEnable *bool `json:"drv_enable,omitempty" yaml:"drv_enable,omitempty"`
	DrvFFEn   *bool `json:"drv_ff_en,omitempty" yaml:"drv_ff_en,omitempty"`
	DrvBias   *int  `json:"drv_bias,omitempty" yaml:"drv_bias,omitempty"`

	// BModeSendBeam
	BModeDepthRange *float64 `json:"bmode_depth_range,omitempty" yaml:"bmode_depth_range,omitempty"`
	BModeDBRange    *float64 `json:"bmode_db_range,omitempty" yaml:"bmode_db_range,omitempty"`
}

func (c *ASICConfig) GetClock() string { return valueOr(c.Clock, ClockLow) }
func (c *ASICConfig) GetISelLNA() int { return valueOr(c.ISelLNA, 4) }
func (c *ASICConfig) GetISelOdrv() int { return valueOr(c.ISelOdrv, 3) }
func (c *ASICConfig) GetISelResCtrl() int { return valueOr(c.ISelResCtrl, 6) }
func (c *ASICConfig) GetISelDcGND() int { return valueOr(c.ISelDcGND, 8) }
func (c *ASICConfig) GetResCal() int { return valueOr(c.ResCal, 4) }
func (c *ASICConfig) GetAnalogResetNoRx() bool { return valueOr(c.AnalogResetNoRx, false) }
func (c *ASICConfig) GetAnalogResetAuto() bool { return valueOr(c.AnalogResetAuto, true) }
func (c *ASICConfig) GetLNAAutoPowerDown() bool {
	return valueOr(c.LNAAutoPowerDown, true)
}
func (c *ASICConfig) GetBiasEn() bool { return valueOr(c.BiasEn, true) }
func (c *ASICConfig) GetODrvEn() bool { return valueOr(c.ODrvEn, true) }
func (c *ASICConfig) GetRxAlwaysEn() bool { return valueOr(c.RxAlwaysEn, true) }
func (c *ASICConfig) GetCWEn() bool { return valueOr(c.CWEn, false) }
func (c *ASICConfig) GetLNAEn() bool { return valueOr(c.LNAEn, true) }

func (c *ASICConfig) GetSetupTime() int { return valueOr(c.SetupTime, 25) }
func (c *ASICConfig) GetRunRxTime() int { return valueOr(c.RunRxTime, 30) }
func (c *ASICConfig) GetRunTxTime() int { return valueOr(c.RunTxTime, 40) }
func (c *ASICConfig) GetStopTxTime() int { return valueOr(c.StopTxTime, 30) }
func (c *ASICConfig) GetStopRxTime() int { return valueOr(c.StopRxTime, 20) }
func (c *ASICConfig) GetAnaResetStopTime() int { return valueOr(c.AnaResetStopTime, 20) }
func (c *ASICConfig) GetPreChargeTime() int { return valueOr(c.PreChargeTime, 30) }

func (c *ASICConfig) GetDrvEnable() bool { return valueOr(c.DrvEnable, true) }
func (c *ASICConfig) GetDrvFFEn() bool { return valueOr(c.DrvFFEn, true) }
func (c *ASICConfig) GetDrvBias() int { return valueOr(c.DrvBias, 7) }

func (c *ASICConfig) GetBModeDepthRange() float64 { return valueOr(c.BModeDepthRange, 0.25) }
func (c *ASICConfig) GetBModeDBRange() float64 { return valueOr(c.BModeDBRange, 40) }

// ClockMHz returns the configured clock frequency.
func (c *ASICConfig) ClockMHz() int {
	if c.GetClock() == ClockHigh {
		return 100
	}
	return 25
}

// Validate checks the asic section.
func (c *ASICConfig) Validate() error {
	if clk := c.GetClock(); clk != ClockLow && clk != ClockHigh {
		return fmt.Errorf("clock must be %q or %q, got %q", ClockLow, ClockHigh, clk)
	}
	for _, f := range []struct {
		name  string
		v     int
		limit int
	}{
		{"isel_lna", c.GetISelLNA(), 15},
		{"isel_odrv", c.GetISelOdrv(), 15},
		{"isel_res_ctrl", c.GetISelResCtrl(), 15},
		{"isel_dc_gnd", c.GetISelDcGND(), 15},
		{"res_cal", c.GetResCal(), 15},
		{"drv_bias", c.GetDrvBias(), 15},
		{"setup_time", c.GetSetupTime(), 255},
		{"run_rx_time", c.GetRunRxTime(), 255},
		{"run_tx_time", c.GetRunTxTime(), 255},
		{"stop_tx_time", c.GetStopTxTime(), 255},
		{"stop_rx_time", c.GetStopRxTime(), 255},
		{"ana_reset_stop_time", c.GetAnaResetStopTime(), 255},
		{"pre_charge_time", c.GetPreChargeTime(), 255},
	} {
		if f.v < 0 || f.v > f.limit {
			return fmt.Errorf("%s must be within [0, %d], got %d", f.name, f.limit, f.v)
		}
	}
	if c.GetBModeDepthRange() <= 0 {
		return fmt.Errorf("bmode_depth_range must be positive, got %f", c.GetBModeDepthRange())
	}
	return nil
}
