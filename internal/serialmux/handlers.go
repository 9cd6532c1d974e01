package serialmux

import (
	"sync"

	"github.com/soundcath/beamformer/internal/monitoring"
)

// LineRecorder keeps the most recent status line read from the bridge so the
// admin routes and the CLI can report it without issuing a query.
type LineRecorder struct {
	mu         sync.Mutex
	lastStatus string
	lines      int
}

// HandleEvent records and logs one line read from the bridge.
func (r *LineRecorder) HandleEvent(payload string) {
	r.mu.Lock()
	r.lines++
	kind := ClassifyPayload(payload)
	if kind == EventTypeStatus {
		r.lastStatus = payload
	}
	r.mu.Unlock()

	switch kind {
	case EventTypeStatus, EventTypeResult:
		monitoring.Debugf("serial %s: %s", kind, payload)
	case EventTypeMessage:
		monitoring.Logf("serial message: %s", payload)
	}
}

// LastStatus returns the most recent GetAsicError response line.
func (r *LineRecorder) LastStatus() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastStatus
}

// Lines returns the number of lines handled.
func (r *LineRecorder) Lines() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lines
}

// Record subscribes to mux and handles lines in the background until the
// subscription is closed. The returned channel is closed once it stops.
func (r *LineRecorder) Record(mux SerialMuxInterface) <-chan struct{} {
	id, ch := mux.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer mux.Unsubscribe(id)
		for line := range ch {
			r.HandleEvent(line)
		}
	}()
	return done
}
