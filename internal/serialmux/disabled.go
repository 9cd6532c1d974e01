package serialmux

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// ErrDisabled is returned by Query when no probe is attached.
var ErrDisabled = errors.New("serial link disabled")

// DisabledSerialMux stands in for the bridge when no probe is attached, so
// the rest of the process runs unchanged. Commands are dropped and queries
// fail with ErrDisabled.
type DisabledSerialMux struct {
	hub hub
}

func NewDisabledSerialMux() *DisabledSerialMux {
	return &DisabledSerialMux{}
}

func (d *DisabledSerialMux) Subscribe() (string, chan string) { return d.hub.add(0) }

func (d *DisabledSerialMux) Unsubscribe(id string) { d.hub.remove(id) }

func (d *DisabledSerialMux) SendCommand(string) error { return nil }

func (d *DisabledSerialMux) Query(context.Context, string) (string, error) { return "", ErrDisabled }

// Monitor idles until ctx is done; there is nothing to read.
func (d *DisabledSerialMux) Monitor(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (d *DisabledSerialMux) Initialize() error { return nil }

// Close closes every subscriber. Calling it again is a no-op.
func (d *DisabledSerialMux) Close() error {
	d.hub.close()
	return nil
}

func (d *DisabledSerialMux) AttachAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/serial-disabled", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "serial disabled")
	})
}
