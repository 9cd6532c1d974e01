// Package units provides shared constants and conversions for delay and
// length units used by the beamformer.
package units

import "math"

// Channel constants
const (
	TX = "tx"
	RX = "rx"
)

// ValidChannels contains all valid channel values
var ValidChannels = []string{TX, RX}

// Delay line resolution of each channel in nanoseconds.
const (
	TxResolutionNs = 12.5
	RxResolutionNs = 20.0
)

// IsValid checks if the given channel is in the list of valid channels
func IsValid(channel string) bool {
	for _, valid := range ValidChannels {
		if channel == valid {
			return true
		}
	}
	return false
}

// GetValidChannelsString returns a comma-separated string of valid channels for error messages
func GetValidChannelsString() string {
	return "tx, rx"
}

// Resolution returns the delay resolution of a channel in seconds. Unknown
// channels use the receive resolution.
func Resolution(channel string) float64 {
	switch channel {
	case TX:
		return NanosecondsToSeconds(TxResolutionNs)
	default:
		return NanosecondsToSeconds(RxResolutionNs)
	}
}

// NanosecondsToSeconds converts a duration in ns to seconds.
func NanosecondsToSeconds(ns float64) float64 { return ns * 1e-9 }

// SecondsToNanoseconds converts a duration in seconds to ns.
func SecondsToNanoseconds(s float64) float64 { return s * 1e9 }

// NanometersToMeters converts a length in nm to meters.
func NanometersToMeters(nm float64) float64 { return nm * 1e-9 }

// MillimetersToMeters converts a length in mm to meters.
func MillimetersToMeters(mm float64) float64 { return mm * 1e-3 }

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// SecondsToTicks converts a time in seconds to delay-line ticks of the
// given resolution (seconds per tick). The result is not rounded.
func SecondsToTicks(s, resolution float64) float64 {
	if resolution == 0 {
		return 0
	}
	return s / resolution
}

// TicksToSeconds converts delay-line ticks back to seconds.
func TicksToSeconds(ticks, resolution float64) float64 {
	return ticks * resolution
}
