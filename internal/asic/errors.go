package asic

import (
	"errors"
	"fmt"
)

// ASIC status register bits.
var (
	ErrUnknownCommand = errors.New("asic: unknown command sent")
	ErrInvalidData    = errors.New("asic: invalid data sent")
	ErrChecksum       = errors.New("asic: checksum error")
	ErrBusy           = errors.New("asic: busy, try again later")
	ErrLocked         = errors.New("asic: locked state")
	ErrExternal       = errors.New("asic: external error detected")
)

// FPGA status word bits.
var (
	ErrQSPI       = errors.New("fpga: QSPI error")
	ErrClock      = errors.New("fpga: clock error")
	ErrFPGAPower  = errors.New("fpga: FPGA power error")
	ErrHVPower    = errors.New("fpga: high voltage power error")
	ErrLVPower    = errors.New("fpga: low voltage power error")
	ErrPowerFail  = errors.New("fpga: power failure")
	ErrCommand    = errors.New("fpga: command error")
	ErrTrigger    = errors.New("fpga: trigger error")
	ErrClockBusy  = errors.New("fpga: clock busy")
	ErrOverfull   = errors.New("fpga: buffer overfull")
	ErrFrameError = errors.New("fpga: frame error")
)

// Driver error bits, as reported by the host side of the link.
var (
	ErrFailed         = errors.New("driver: operation failed")
	ErrParam          = errors.New("driver: invalid parameter")
	ErrParamSet       = errors.New("driver: parameter set failed")
	ErrStatus         = errors.New("driver: status error")
	ErrUSBInit        = errors.New("driver: USB initialisation failed")
	ErrUSBReceive     = errors.New("driver: USB receive failed")
	ErrUSBSend        = errors.New("driver: USB send failed")
	ErrNotImplemented = errors.New("driver: not implemented")
	ErrCRC            = errors.New("driver: CRC mismatch")
	ErrFPGA           = errors.New("driver: FPGA error")
	ErrSWInternal     = errors.New("driver: internal software error")
	ErrASIC           = errors.New("driver: ASIC error")
)

type bit[T ~uint8 | ~uint32] struct {
	mask T
	err  error
}

// ASICStatus is the 8 bit ASIC error register.
type ASICStatus uint8

const (
	ASICUnknownCommand ASICStatus = 1 << 0
	ASICInvalidData    ASICStatus = 1 << 1
	ASICChecksum       ASICStatus = 1 << 2
	ASICBusy           ASICStatus = 1 << 3
	ASICLocked         ASICStatus = 1 << 6
	ASICExternal       ASICStatus = 1 << 7
)

var asicBits = []bit[ASICStatus]{
	{ASICUnknownCommand, ErrUnknownCommand},
	{ASICInvalidData, ErrInvalidData},
	{ASICChecksum, ErrChecksum},
	{ASICBusy, ErrBusy},
	{ASICLocked, ErrLocked},
	{ASICExternal, ErrExternal},
}

// FPGAStatus is the 32 bit FPGA error word.
type FPGAStatus uint32

const (
	FPGAQSPI FPGAStatus = 1 << iota
	FPGAClock
	FPGAPower
	FPGAHVPower
	FPGALVPower
	FPGAPowerFail
	FPGACommand
	FPGATrigger
	FPGAClockBusy
	FPGAOverfull
	FPGAFrameError
)

var fpgaBits = []bit[FPGAStatus]{
	{FPGAQSPI, ErrQSPI},
	{FPGAClock, ErrClock},
	{FPGAPower, ErrFPGAPower},
	{FPGAHVPower, ErrHVPower},
	{FPGALVPower, ErrLVPower},
	{FPGAPowerFail, ErrPowerFail},
	{FPGACommand, ErrCommand},
	{FPGATrigger, ErrTrigger},
	{FPGAClockBusy, ErrClockBusy},
	{FPGAOverfull, ErrOverfull},
	{FPGAFrameError, ErrFrameError},
}

// DriverStatus is the host driver's error word. The low bits describe the
// transport; DriverASIC marks an error reported by the ASIC itself.
type DriverStatus uint32

const (
	DriverFailed         DriverStatus = 1 << 0
	DriverParam          DriverStatus = 1 << 1
	DriverParamSet       DriverStatus = 1 << 2
	DriverStatusErr      DriverStatus = 1 << 3
	DriverUSBInit        DriverStatus = 1 << 4
	DriverUSBReceive     DriverStatus = 1 << 5
	DriverUSBSend        DriverStatus = 1 << 6
	DriverNotImplemented DriverStatus = 1 << 7
	DriverCRC            DriverStatus = 1 << 8
	DriverFPGA           DriverStatus = 1 << 9
	DriverSWInternal     DriverStatus = 1 << 10
	DriverASIC           DriverStatus = 1 << 16
)

var driverBits = []bit[DriverStatus]{
	{DriverFailed, ErrFailed},
	{DriverParam, ErrParam},
	{DriverParamSet, ErrParamSet},
	{DriverStatusErr, ErrStatus},
	{DriverUSBInit, ErrUSBInit},
	{DriverUSBReceive, ErrUSBReceive},
	{DriverUSBSend, ErrUSBSend},
	{DriverNotImplemented, ErrNotImplemented},
	{DriverCRC, ErrCRC},
	{DriverFPGA, ErrFPGA},
	{DriverSWInternal, ErrSWInternal},
	{DriverASIC, ErrASIC},
}

func decode[T ~uint8 | ~uint32](v T, bits []bit[T]) []error {
	var errs []error
	var known T
	for _, b := range bits {
		known |= b.mask
		if v&b.mask != 0 {
			errs = append(errs, b.err)
		}
	}
	if rest := v &^ known; rest != 0 {
		errs = append(errs, fmt.Errorf("unknown status bits %#x", uint32(rest)))
	}
	return errs
}

// Err returns nil for a clear register, otherwise the joined sentinel errors
// of every set bit.
func (s ASICStatus) Err() error { return errors.Join(decode(s, asicBits)...) }

// Err returns nil for a clear word, otherwise the joined sentinel errors of
// every set bit.
func (s FPGAStatus) Err() error { return errors.Join(decode(s, fpgaBits)...) }

// Err returns nil for a clear word, otherwise the joined sentinel errors of
// every set bit.
func (s DriverStatus) Err() error { return errors.Join(decode(s, driverBits)...) }
