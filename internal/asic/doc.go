// Package asic drives the probe's beamforming ASIC through the FPGA bridge.
//
// The bridge speaks a line protocol: every command is a single text line and
// every response echoes the command name followed by "RESULT:" and a value.
// Parameters are set with "SetParam:<group>,<param>:<value>"; the error state
// of both chips is read with "GetAsicError". Status words are decoded into
// sentinel errors joined with errors.Join so callers can test individual
// conditions with errors.Is.
package asic
