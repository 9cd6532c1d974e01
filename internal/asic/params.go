package asic

import "github.com/soundcath/beamformer/internal/config"

// Param is one SetParam write.
type Param struct {
	Group string
	Name  string
	Value any
}

// Command formats p as a SetParam command line.
func (p Param) Command() string { return SetParam(p.Group, p.Name, p.Value) }

// ParamsFromConfig lists the parameter writes that bring the ASIC into the
// configured state, in upload order.
func ParamsFromConfig(c *config.ASICConfig) []Param {
	if c == nil {
		c = &config.ASICConfig{}
	}
	return []Param{
		{GroupConfig, "ClkSpeed", c.ClockMHz()},

		{GroupConfigCore, "ISelLNA", c.GetISelLNA()},
		{GroupConfigCore, "ISelOdrv", c.GetISelOdrv()},
		{GroupConfigCore, "ISelResCntl", c.GetISelResCtrl()},
		{GroupConfigCore, "ISelDcGND", c.GetISelDcGND()},
		{GroupConfigCore, "ISelPpHVP", c.GetISelLNA()},
		{GroupConfigCore, "ResCal", c.GetResCal()},
		{GroupConfigCore, "AnalogResetNoRx", c.GetAnalogResetNoRx()},
		{GroupConfigCore, "AnalogResetAuto", c.GetAnalogResetAuto()},
		{GroupConfigCore, "RxAlwaysEn", c.GetRxAlwaysEn()},
		{GroupConfigCore, "LNAAutoPowerDown", c.GetLNAAutoPowerDown()},
		{GroupConfigCore, "BiasEn", c.GetBiasEn()},
		{GroupConfigCore, "ODrvEn", c.GetODrvEn()},
		{GroupConfigCore, "CWEn", c.GetCWEn()},
		{GroupConfigCore, "LNAEn", c.GetLNAEn()},

		{GroupBeamTiming, "SetupTime", c.GetSetupTime()},
		{GroupBeamTiming, "RunRxTime", c.GetRunRxTime()},
		{GroupBeamTiming, "RunTxTime", c.GetRunTxTime()},
		{GroupBeamTiming, "StopTxTime", c.GetStopTxTime()},
		{GroupBeamTiming, "StopRxTime", c.GetStopRxTime()},
		{GroupBeamTiming, "AnaResetStopTime", c.GetAnaResetStopTime()},
		{GroupBeamTiming, "PreChargeTime", c.GetPreChargeTime()},

		{GroupBModeSendBeam, "DepthRange", c.GetBModeDepthRange()},
		{GroupBModeSendBeam, "DBRange", c.GetBModeDBRange()},

		{GroupConfigDRV, "BiasSel", c.GetDrvBias()},
		{GroupConfigDRV, "FFen", c.GetDrvFFEn()},
		{GroupConfigDRV, "Enable", c.GetDrvEnable()},
	}
}
