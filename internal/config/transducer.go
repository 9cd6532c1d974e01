package config

import "fmt"

// The ASIC drives a fixed channel count; layouts must keep it.
const (
	ChannelGroups = 64
	GroupChannels = 16
)

// TransducerConfig describes the physical array.
type TransducerConfig struct {
	PitchNm      *float64 `json:"pitch_nm,omitempty" yaml:"pitch_nm,omitempty"`
	GroupPitchNm *float64 `json:"group_pitch_nm,omitempty" yaml:"group_pitch_nm,omitempty"`
	SoundSpeed   *float64 `json:"sound_speed,omitempty" yaml:"sound_speed,omitempty"` // m/s
	XGroups      *int     `json:"x_groups,omitempty" yaml:"x_groups,omitempty"`
	YGroups      *int     `json:"y_groups,omitempty" yaml:"y_groups,omitempty"`
	XElems       *int     `json:"x_elems,omitempty" yaml:"x_elems,omitempty"`
	YElems       *int     `json:"y_elems,omitempty" yaml:"y_elems,omitempty"`
}

// GetPitchNm returns the element pitch in nanometers.
func (c *TransducerConfig) GetPitchNm() float64 { return valueOr(c.PitchNm, 180000) }

// GetGroupPitchNm returns the group pitch in nanometers.
func (c *TransducerConfig) GetGroupPitchNm() float64 { return valueOr(c.GroupPitchNm, 720000) }

// GetSoundSpeed returns the speed of sound in tissue, m/s.
func (c *TransducerConfig) GetSoundSpeed() float64 { return valueOr(c.SoundSpeed, 1490) }

// GetXGroups returns the number of groups along X.
func (c *TransducerConfig) GetXGroups() int { return valueOr(c.XGroups, 4) }

// GetYGroups returns the number of groups along Y.
func (c *TransducerConfig) GetYGroups() int { return valueOr(c.YGroups, 16) }

// GetXElems returns the number of elements per group along X.
func (c *TransducerConfig) GetXElems() int { return valueOr(c.XElems, 4) }

// GetYElems returns the number of elements per group along Y.
func (c *TransducerConfig) GetYElems() int { return valueOr(c.YElems, 4) }

// Validate checks the transducer section.
func (c *TransducerConfig) Validate() error {
	if c.GetPitchNm() <= 0 {
		return fmt.Errorf("pitch_nm must be positive, got %f", c.GetPitchNm())
	}
	if c.GetGroupPitchNm() < c.GetPitchNm() {
		return fmt.Errorf("group_pitch_nm (%f) must not be smaller than pitch_nm (%f)", c.GetGroupPitchNm(), c.GetPitchNm())
	}
	if c.GetSoundSpeed() <= 0 {
		return fmt.Errorf("sound_speed must be positive, got %f", c.GetSoundSpeed())
	}
	if c.GetXGroups() <= 0 || c.GetYGroups() <= 0 || c.GetXElems() <= 0 || c.GetYElems() <= 0 {
		return fmt.Errorf("group and element counts must be positive")
	}
	if n := c.GetXGroups() * c.GetYGroups(); n != ChannelGroups {
		return fmt.Errorf("x_groups*y_groups must be %d, got %d", ChannelGroups, n)
	}
	if n := c.GetXElems() * c.GetYElems(); n != GroupChannels {
		return fmt.Errorf("x_elems*y_elems must be %d, got %d", GroupChannels, n)
	}
	return nil
}
