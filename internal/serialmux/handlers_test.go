package serialmux

import (
	"testing"
	"time"
)

func TestLineRecorder_HandleEvent(t *testing.T) {
	var r LineRecorder
	status := "GetASICError:RESULT:ASIC Error Status: 00, FPGA Error Status: 00000000"

	r.HandleEvent("SetParam:RESULT:OK")
	r.HandleEvent(status)
	r.HandleEvent("bridge ready")
	r.HandleEvent("")

	if got := r.Lines(); got != 4 {
		t.Errorf("Lines() = %d, want 4", got)
	}
	if got := r.LastStatus(); got != status {
		t.Errorf("LastStatus() = %q, want %q", got, status)
	}
}

func TestLineRecorder_RecordStopsOnClose(t *testing.T) {
	mux := NewDisabledSerialMux()
	var r LineRecorder
	done := r.Record(mux)

	if err := mux.Close(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record did not stop after Close")
	}
	if r.Lines() != 0 {
		t.Errorf("Lines() = %d, want 0", r.Lines())
	}
}
