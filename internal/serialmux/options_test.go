package serialmux

import (
	"testing"

	"go.bug.st/serial"
)

func TestPortOptions_Normalize(t *testing.T) {
	got, err := PortOptions{}.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	want := PortOptions{BaudRate: DefaultBaudRate, DataBits: 8, StopBits: 1, Parity: "N"}
	if got != want {
		t.Errorf("Normalize() = %+v, want %+v", got, want)
	}

	got, err = PortOptions{BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "even"}.Normalize()
	if err != nil {
		t.Fatal(err)
	}
	if got.Parity != "E" || got.BaudRate != 9600 || got.DataBits != 7 || got.StopBits != 2 {
		t.Errorf("Normalize() = %+v", got)
	}
}

func TestPortOptions_NormalizeErrors(t *testing.T) {
	for _, opts := range []PortOptions{
		{DataBits: 9},
		{DataBits: 4},
		{StopBits: 3},
		{Parity: "mark"},
	} {
		if _, err := opts.Normalize(); err == nil {
			t.Errorf("Normalize(%+v): expected error", opts)
		}
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{Parity: "O", StopBits: 2}.SerialMode()
	if err != nil {
		t.Fatal(err)
	}
	if mode.BaudRate != DefaultBaudRate || mode.DataBits != 8 {
		t.Errorf("mode = %+v", mode)
	}
	if mode.Parity != serial.OddParity {
		t.Errorf("parity = %v, want odd", mode.Parity)
	}
	if mode.StopBits != serial.TwoStopBits {
		t.Errorf("stop bits = %v, want two", mode.StopBits)
	}

	if _, err := (PortOptions{Parity: "x"}).SerialMode(); err == nil {
		t.Error("expected error for invalid parity")
	}
}

func TestNewRealSerialMux_InvalidPath(t *testing.T) {
	if _, err := NewRealSerialMux("/dev/does-not-exist-soundcath", PortOptions{}); err == nil {
		t.Error("expected error opening a missing device")
	}
}

func TestPortOptions_String(t *testing.T) {
	for opts, want := range map[PortOptions]string{
		{}:                               "115200 8N1",
		{BaudRate: 9600, Parity: "even"}: "9600 8E1",
		{DataBits: 7, StopBits: 2}:       "115200 7N2",
	} {
		if got := opts.String(); got != want {
			t.Errorf("%+v.String() = %q, want %q", opts, got, want)
		}
	}
}
