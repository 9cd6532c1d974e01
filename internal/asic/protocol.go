package asic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/soundcath/beamformer/internal/beamform"
)

// Command names understood by the bridge.
const (
	CmdInitialize       = "Initialize"
	CmdGetAsicError     = "GetAsicError"
	CmdFPGADescription  = "FPGADescription"
	CmdFPGAVersion      = "FPGAVersion"
	CmdSetParam         = "SetParam"
	CmdSetMode          = "SetMode"
	CmdFire             = "Fire"
	CmdFireSingle       = "FireSingle"
	CmdFireGroup        = "FireGroup"
	CmdSetTxDelays      = "SetTxDelays"
	CmdSetRxDelays      = "SetRxDelays"
	CmdSetTxCoeffs      = "SetTxCoeffs"
	CmdSetRxCoeffs      = "SetRxCoeffs"
	CmdSetRxGroupDelays = "SetRxGroupDelays"
	CmdSetDynRx         = "SetDynRx"
)

// SetParam groups.
const (
	GroupConfig        = "Config"
	GroupConfigCore    = "ConfigCore"
	GroupXmitWF        = "XmitWF"
	GroupBeamTiming    = "BeamTiming"
	GroupBModeSendBeam = "BModeSendBeam"
	GroupConfigDRV     = "ConfigDRV"
)

// Mode selects the ASIC operating mode.
type Mode string

const (
	ModeCW     Mode = "CW"
	ModeNormal Mode = "NORMAL"
	ModeBMode  Mode = "BMODE"
)

const resultMarker = "RESULT:"

// ErrMalformedStatus is returned when a GetAsicError response cannot be
// parsed.
var ErrMalformedStatus = errors.New("malformed status response")

// Result extracts the value of a response line: the text after "RESULT:",
// else the text after the last ':', else the whole line.
func Result(line string) string {
	if i := strings.Index(line, resultMarker); i >= 0 {
		return strings.TrimSpace(line[i+len(resultMarker):])
	}
	if i := strings.LastIndexByte(line, ':'); i >= 0 {
		return strings.TrimSpace(line[i+1:])
	}
	return strings.TrimSpace(line)
}

// Status is the decoded error state of both chips.
type Status struct {
	ASIC ASICStatus
	FPGA FPGAStatus
}

// Err returns nil when both chips report no error. Otherwise the result
// wraps ErrASIC and/or ErrFPGA together with the individual bit errors.
func (s Status) Err() error {
	var errs []error
	if s.ASIC != 0 {
		errs = append(errs, fmt.Errorf("%w: %w", ErrASIC, s.ASIC.Err()))
	}
	if s.FPGA != 0 {
		errs = append(errs, fmt.Errorf("%w: %w", ErrFPGA, s.FPGA.Err()))
	}
	return errors.Join(errs...)
}

// ParseStatus decodes a GetAsicError response of the form
// "GetASICError:RESULT:ASIC Error Status: hh, FPGA Error Status: hhhhhhhh".
// The ASIC register is the two hex digits after the first "Status:" and the
// FPGA word is the last eight hex digits of the line.
func ParseStatus(line string) (Status, error) {
	body := Result(line)
	asicPart, fpgaPart, ok := strings.Cut(body, ",")
	if !ok {
		return Status{}, fmt.Errorf("%w: %q", ErrMalformedStatus, line)
	}

	asicHex := strings.TrimSpace(asicPart[strings.LastIndexByte(asicPart, ':')+1:])
	asic, err := strconv.ParseUint(asicHex, 16, 8)
	if err != nil {
		return Status{}, fmt.Errorf("%w: asic field %q: %v", ErrMalformedStatus, asicHex, err)
	}

	fpgaHex := strings.TrimSpace(fpgaPart)
	if len(fpgaHex) < 8 {
		return Status{}, fmt.Errorf("%w: fpga field %q", ErrMalformedStatus, fpgaHex)
	}
	fpgaHex = fpgaHex[len(fpgaHex)-8:]
	fpga, err := strconv.ParseUint(fpgaHex, 16, 32)
	if err != nil {
		return Status{}, fmt.Errorf("%w: fpga field %q: %v", ErrMalformedStatus, fpgaHex, err)
	}

	return Status{ASIC: ASICStatus(asic), FPGA: FPGAStatus(fpga)}, nil
}

// SetParam formats a parameter write. Booleans are sent as true/false.
func SetParam(group, param string, value any) string {
	return fmt.Sprintf("%s:%s,%s:%v", CmdSetParam, group, param, value)
}

// SetMode formats an operating mode change.
func SetMode(m Mode) string { return CmdSetMode + ":" + string(m) }

func join[T ~int8 | ~int16](values []T) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	return b.String()
}

// Fire formats a full-aperture firing with explicit per-element delays.
func Fire(d beamform.DelayField) string { return CmdFire + ":" + join(d[:]) }

// FireSingle formats a single-element firing.
func FireSingle(element int) string { return CmdFireSingle + ":" + strconv.Itoa(element) }

// FireGroup formats a firing of one group with group-local delays.
func FireGroup(group int, d beamform.GroupDelayField) string {
	return fmt.Sprintf("%s:%d:%s", CmdFireGroup, group, join(d[:]))
}

// SetTxDelays formats a per-element transmit delay upload.
func SetTxDelays(d beamform.DelayField) string { return CmdSetTxDelays + ":" + join(d[:]) }

// SetRxDelays formats a per-element receive delay upload.
func SetRxDelays(d beamform.DelayField) string { return CmdSetRxDelays + ":" + join(d[:]) }

// SetTxCoeffs formats the transmit coefficient upload.
func SetTxCoeffs(c beamform.TxCoeffs) string { return CmdSetTxCoeffs + ":" + join(c[:]) }

// SetRxCoeffs formats the receive coefficient upload.
func SetRxCoeffs(c beamform.RxCoeffs) string { return CmdSetRxCoeffs + ":" + join(c[:]) }

// SetRxGroupDelays formats the receive delays of one group.
func SetRxGroupDelays(group int, d beamform.GroupDelayField) string {
	return fmt.Sprintf("%s:%d:%s", CmdSetRxGroupDelays, group, join(d[:]))
}

// SetDynRx formats a dynamic receive curve as slopes, durations and master
// curve separated by ':'.
func SetDynRx(c beamform.DynamicReceiveCurve) string {
	return fmt.Sprintf("%s:%s:%s:%s", CmdSetDynRx, join(c.Slope[:]), join(c.Duration[:]), join(c.Master[:]))
}
