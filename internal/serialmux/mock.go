package serialmux

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// EmulatedPort implements SerialPorter by answering every command line the
// way the FPGA bridge does. It backs the -dev mode of the CLI and the tests
// of packages that drive the probe.
type EmulatedPort struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pending  bytes.Buffer
	out      bytes.Buffer
	closed   bool
	commands []string

	// ASICStatus and FPGAStatus are reported by GetAsicError.
	ASICStatus uint8
	FPGAStatus uint32
	// Description and Version answer FPGADescription and FPGAVersion.
	Description string
	Version     string
	// Silent suppresses every response, for timeout tests.
	Silent bool
}

// NewEmulatedPort returns an emulator reporting a healthy device.
func NewEmulatedPort() *EmulatedPort {
	p := &EmulatedPort{
		Description: "SoundCath bridge emulator",
		Version:     "0.0.0-emulated",
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// NewMockSerialMux creates a SerialMux instance backed by an emulated port.
func NewMockSerialMux() (*SerialMux[*EmulatedPort], *EmulatedPort) {
	port := NewEmulatedPort()
	return NewSerialMux(port), port
}

// Read blocks until a response line is available or the port is closed.
func (p *EmulatedPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.closed && p.out.Len() == 0 {
		p.cond.Wait()
	}
	if p.out.Len() == 0 {
		return 0, errors.New("serial port closed")
	}
	return p.out.Read(b)
}

// Write accepts newline terminated commands and queues one response line per
// complete command.
func (p *EmulatedPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errors.New("serial port closed")
	}
	p.pending.Write(b)
	for {
		line, err := p.pending.ReadString('\n')
		if err != nil {
			// incomplete command; keep it for the next write
			p.pending.WriteString(line)
			break
		}
		command := strings.TrimSpace(line)
		if command == "" {
			continue
		}
		p.commands = append(p.commands, command)
		if !p.Silent {
			p.out.WriteString(p.respond(command) + "\n")
			p.cond.Broadcast()
		}
	}
	return len(b), nil
}

func (p *EmulatedPort) respond(command string) string {
	name := CommandName(command)
	switch {
	case strings.EqualFold(name, "GetAsicError"):
		return fmt.Sprintf("GetASICError:RESULT:ASIC Error Status: %02X, FPGA Error Status: %08X", p.ASICStatus, p.FPGAStatus)
	case name == "FPGADescription":
		return name + ":RESULT:" + p.Description
	case name == "FPGAVersion":
		return name + ":RESULT:" + p.Version
	default:
		return name + ":RESULT:OK"
	}
}

// Close marks the port closed and wakes blocked readers.
func (p *EmulatedPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cond.Broadcast()
	return nil
}

// SetStatus changes the error status reported by GetAsicError.
func (p *EmulatedPort) SetStatus(asic uint8, fpga uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ASICStatus = asic
	p.FPGAStatus = fpga
}

// Commands returns every command received so far.
func (p *EmulatedPort) Commands() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.commands...)
}
