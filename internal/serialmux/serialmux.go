// Package serialmux multiplexes the line-oriented serial link to the probe's
// FPGA bridge. Any number of readers can subscribe to the lines the bridge
// emits while commands are written through a single serialised writer, and
// Query pairs a command with the response line that echoes it.
package serialmux

import (
	"bufio"
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/soundcath/beamformer/internal/monitoring"
)

var (
	ErrWriteFailed = errors.New("failed to write to serial port")
	ErrClosed      = errors.New("serial mux closed")
	// ErrSendFailed marks a Query whose command never reached the port, as
	// opposed to one that went out and was not answered.
	ErrSendFailed = errors.New("serial send failed")
)

// DefaultQueryTimeout bounds Query when the caller's context has no deadline.
const DefaultQueryTimeout = 2 * time.Second

// queryBuffer is the backlog a pending query tolerates before Monitor starts
// dropping lines for it.
const queryBuffer = 16

// SerialMux fans the lines of one serial port out to its subscribers.
type SerialMux[T SerialPorter] struct {
	port T
	hub  hub

	writeMu sync.Mutex
	queryMu sync.Mutex
}

// SerialMuxInterface is implemented by the real, emulated and disabled muxes.
type SerialMuxInterface interface {
	// Subscribe returns a channel receiving every line read from the port,
	// and the ID to pass to Unsubscribe.
	Subscribe() (string, chan string)
	// Unsubscribe closes and forgets the subscriber's channel.
	Unsubscribe(string)
	// SendCommand writes one command line to the port.
	SendCommand(string) error
	// Query writes the command and waits for its response line. Monitor must
	// be running for responses to arrive.
	Query(context.Context, string) (string, error)
	// Monitor reads lines until the port fails or ctx is done.
	Monitor(context.Context) error
	// Close closes every subscriber and then the port.
	Close() error

	// Initialize resets the bridge into a known state.
	Initialize() error

	// AttachAdminRoutes registers the probe console under /debug/. tsweb
	// restricts those routes to localhost and the tailnet.
	AttachAdminRoutes(*http.ServeMux)
}

// NewSerialMux wraps an open port.
func NewSerialMux[T SerialPorter](port T) *SerialMux[T] {
	return &SerialMux[T]{port: port}
}

// randomID returns 8 random bytes, hex encoded.
func randomID() string {
	b := make([]byte, 8)
	crand.Read(b)
	return hex.EncodeToString(b)
}

func (s *SerialMux[T]) Subscribe() (string, chan string) {
	return s.subscribe(0)
}

func (s *SerialMux[T]) subscribe(buffer int) (string, chan string) {
	return s.hub.add(buffer)
}

func (s *SerialMux[T]) Unsubscribe(id string) { s.hub.remove(id) }

// Initialize resets the bridge and clears any latched error state.
func (s *SerialMux[T]) Initialize() error {
	for _, command := range []string{
		"Initialize",   // reset the FPGA bridge and the ASIC interface
		"GetAsicError", // reading the status register clears latched errors
	} {
		if err := s.SendCommand(command); err != nil {
			return fmt.Errorf("failed to send start command %q: %w", command, err)
		}
	}
	return nil
}

func (s *SerialMux[T]) SendCommand(command string) error {
	if !strings.HasSuffix(command, "\n") {
		command += "\n"
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	n, err := io.WriteString(s.port, command)
	switch {
	case err != nil:
		return err
	case n != len(command):
		return ErrWriteFailed
	}
	return nil
}

// Query sends a command and returns the first line that answers it. A line
// answers a command when it echoes the same command name (compared without
// case) or echoes no command name at all. Queries are serialised so concurrent
// callers never read each other's responses.
func (s *SerialMux[T]) Query(ctx context.Context, command string) (string, error) {
	s.queryMu.Lock()
	defer s.queryMu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultQueryTimeout)
		defer cancel()
	}

	// Subscribe first so a fast bridge cannot answer before we listen.
	id, lines := s.subscribe(queryBuffer)
	defer s.Unsubscribe(id)

	name := CommandName(command)
	if err := s.SendCommand(command); err != nil {
		return "", fmt.Errorf("query %q: %w: %w", name, ErrSendFailed, err)
	}

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("query %q: %w", name, ctx.Err())
		case line, ok := <-lines:
			if !ok {
				return "", ErrClosed
			}
			if got := ResponseName(line); got == "" || strings.EqualFold(got, name) {
				return line, nil
			}
			monitoring.Debugf("serialmux: skipping %q while waiting for %q", line, name)
		}
	}
}

// readLines scans r on its own goroutine so callers can keep watching ctx
// while a read blocks. The scan error (nil at EOF) is delivered on errc
// before lines is closed; nothing is delivered if ctx ends the scan.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- strings.TrimRight(sc.Text(), "\r"):
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}

// Monitor reads the port and hands every line to the subscribers until the
// port fails or ctx is done. It returns nil once the mux is closed.
func (s *SerialMux[T]) Monitor(ctx context.Context) error {
	lines, errc := readLines(ctx, s.port)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			if s.hub.isClosed() {
				return nil
			}
			s.hub.send(line)
		}
	}
}

func (s *SerialMux[T]) Close() error {
	s.hub.close()
	return s.port.Close()
}

func (s *SerialMux[T]) AttachAdminRoutes(mux *http.ServeMux) {
	attachAdminRoutes(mux, s)
}
