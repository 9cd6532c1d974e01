package beamform

import (
	"github.com/soundcath/beamformer/internal/config"
	"github.com/soundcath/beamformer/internal/geometry"
	"github.com/soundcath/beamformer/internal/units"
)

// Fixed channel counts of the ASIC.
const (
	NumElements = config.ChannelGroups * config.GroupChannels
	NumGroups   = config.ChannelGroups
	GroupSize   = config.GroupChannels
)

// Transducer describes the array geometry and the medium.
type Transducer struct {
	Layout     geometry.Layout
	SoundSpeed float64 // m/s
}

// TxParams are the transmit compression constants.
type TxParams struct {
	L1, L2, L3, L4Sq float64
	XMax, YMax       float64 // aperture bound in group pitches
	Resolution       float64 // seconds per delay tick
	OffsetHint       float64 // requested beam offset, seconds
}

// RxParams are the receive compression constants.
type RxParams struct {
	L0, L1, L2 float64
	C78        float64 // fine term correction factor
	Resolution float64 // seconds per delay tick
	StartDepth float64 // dynamic receive window, meters
	StopDepth  float64
}

// Params bundles everything the compressors need.
type Params struct {
	Transducer Transducer
	Tx         TxParams
	Rx         RxParams
}

// DefaultParams returns the parameters of the stock catheter.
func DefaultParams() Params {
	return ParamsFromConfig(config.EmptyConfig())
}

// ParamsFromConfig converts a validated configuration into parameter records.
func ParamsFromConfig(cfg *config.Config) Params {
	t := &cfg.Transducer
	return Params{
		Transducer: Transducer{
			Layout: geometry.Layout{
				XGroups:    t.GetXGroups(),
				YGroups:    t.GetYGroups(),
				XElems:     t.GetXElems(),
				YElems:     t.GetYElems(),
				Pitch:      units.NanometersToMeters(t.GetPitchNm()),
				GroupPitch: units.NanometersToMeters(t.GetGroupPitchNm()),
			},
			SoundSpeed: t.GetSoundSpeed(),
		},
		Tx: TxParams{
			L1:         cfg.Tx.GetL1(),
			L2:         cfg.Tx.GetL2(),
			L3:         cfg.Tx.GetL3(),
			L4Sq:       cfg.Tx.GetL4Sq(),
			XMax:       cfg.Tx.GetXMax(),
			YMax:       cfg.Tx.GetYMax(),
			Resolution: units.NanosecondsToSeconds(cfg.Tx.GetDelayResNs()),
			OffsetHint: units.NanosecondsToSeconds(cfg.Tx.GetOffsetHintNs()),
		},
		Rx: RxParams{
			L0:         cfg.Rx.GetL0(),
			L1:         cfg.Rx.GetL1(),
			L2:         cfg.Rx.GetL2(),
			C78:        cfg.Rx.GetC78Factor(),
			Resolution: units.NanosecondsToSeconds(cfg.Rx.GetDelayResNs()),
			StartDepth: cfg.Rx.GetStartDepthM(),
			StopDepth:  cfg.Rx.GetStopDepthM(),
		},
	}
}

// ticks converts a path length difference in meters into delay ticks.
func (t Transducer) ticks(meters, resolution float64) float64 {
	return meters / (t.SoundSpeed * resolution)
}
