package serialmux

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestSerialPort implements SerialPorter for testing SerialMux operations
type TestSerialPort struct {
	readData    []byte
	readIndex   int
	writtenData bytes.Buffer
	writeErr    error
	shortWrite  bool
	closed      bool
	mu          sync.Mutex
}

func NewTestSerialPort(data string) *TestSerialPort {
	return &TestSerialPort{readData: []byte(data)}
}

// Read blocks once the data is exhausted, like an idle serial line.
func (p *TestSerialPort) Read(buf []byte) (int, error) {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return 0, io.EOF
		}
		if p.readIndex < len(p.readData) {
			n := copy(buf, p.readData[p.readIndex:])
			p.readIndex += n
			p.mu.Unlock()
			return n, nil
		}
		p.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
}

func (p *TestSerialPort) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	if p.shortWrite {
		return len(data) - 1, nil
	}
	return p.writtenData.Write(data)
}

func (p *TestSerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *TestSerialPort) WrittenData() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writtenData.String()
}

func startMonitor(t *testing.T, m SerialMuxInterface) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Monitor(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestSerialMux_SubscribeUnsubscribe(t *testing.T) {
	mux := NewSerialMux(NewTestSerialPort(""))

	id1, ch1 := mux.Subscribe()
	id2, _ := mux.Subscribe()
	if id1 == "" || id1 == id2 {
		t.Fatalf("expected unique non-empty ids, got %q and %q", id1, id2)
	}

	mux.Unsubscribe(id1)
	if _, ok := <-ch1; ok {
		t.Error("expected channel to be closed after Unsubscribe")
	}
	mux.Unsubscribe("non-existent-id")

	if n := mux.hub.len(); n != 1 {
		t.Errorf("expected 1 subscriber, got %d", n)
	}
}

func TestSerialMux_SendCommand(t *testing.T) {
	port := NewTestSerialPort("")
	mux := NewSerialMux(port)

	for _, command := range []string{"GetAsicError", "FPGAVersion\n", "SetParam:Config,ClkSpeed:100"} {
		if err := mux.SendCommand(command); err != nil {
			t.Fatalf("SendCommand(%q): %v", command, err)
		}
	}
	want := "GetAsicError\nFPGAVersion\nSetParam:Config,ClkSpeed:100\n"
	if got := port.WrittenData(); got != want {
		t.Errorf("written = %q, want %q", got, want)
	}
}

func TestSerialMux_SendCommandErrors(t *testing.T) {
	port := NewTestSerialPort("")
	port.shortWrite = true
	if err := NewSerialMux(port).SendCommand("Initialize"); !errors.Is(err, ErrWriteFailed) {
		t.Errorf("short write: got %v, want ErrWriteFailed", err)
	}

	failing := NewTestSerialPort("")
	failing.writeErr = errors.New("unplugged")
	if err := NewSerialMux(failing).SendCommand("Initialize"); err == nil || err.Error() != "unplugged" {
		t.Errorf("write error: got %v", err)
	}
}

func TestSerialMux_Initialize(t *testing.T) {
	port := NewTestSerialPort("")
	if err := NewSerialMux(port).Initialize(); err != nil {
		t.Fatal(err)
	}
	if got := port.WrittenData(); got != "Initialize\nGetAsicError\n" {
		t.Errorf("written = %q", got)
	}
}

func TestSerialMux_MonitorFansOut(t *testing.T) {
	mux := NewSerialMux(NewTestSerialPort("FPGAVersion:RESULT:1.2\r\nhello\n"))

	id, ch := mux.subscribe(4)
	defer mux.Unsubscribe(id)
	startMonitor(t, mux)

	for _, want := range []string{"FPGAVersion:RESULT:1.2", "hello"} {
		select {
		case got := <-ch:
			if got != want {
				t.Errorf("line = %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestSerialMux_MonitorContextCancel(t *testing.T) {
	mux := NewSerialMux(NewTestSerialPort(""))
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- mux.Monitor(ctx) }()
	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Monitor returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Monitor did not return after cancel")
	}
}

func TestSerialMux_QueryEmulated(t *testing.T) {
	mux, port := NewMockSerialMux()
	defer mux.Close()
	startMonitor(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	line, err := mux.Query(ctx, "FPGAVersion")
	if err != nil {
		t.Fatal(err)
	}
	if line != "FPGAVersion:RESULT:0.0.0-emulated" {
		t.Errorf("line = %q", line)
	}

	port.SetStatus(0x08, 0x4)
	line, err = mux.Query(ctx, "GetAsicError")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(line, "ASIC Error Status: 08, FPGA Error Status: 00000004") {
		t.Errorf("status line = %q", line)
	}
	if got := port.Commands(); len(got) != 2 || got[1] != "GetAsicError" {
		t.Errorf("commands = %v", got)
	}
}

func TestSerialMux_QueryConcurrent(t *testing.T) {
	mux, _ := NewMockSerialMux()
	defer mux.Close()
	startMonitor(t, mux)

	var wg sync.WaitGroup
	for _, command := range []string{"FPGAVersion", "FPGADescription", "SetParam:Config,ClkSpeed:25"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			line, err := mux.Query(ctx, command)
			if err != nil {
				t.Errorf("Query(%q): %v", command, err)
				return
			}
			if !strings.HasPrefix(line, CommandName(command)+":") {
				t.Errorf("Query(%q) = %q", command, line)
			}
		}()
	}
	wg.Wait()
}

func TestSerialMux_QueryTimeout(t *testing.T) {
	mux, port := NewMockSerialMux()
	defer mux.Close()
	port.Silent = true
	startMonitor(t, mux)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := mux.Query(ctx, "FPGAVersion"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want deadline exceeded", err)
	}
}

func TestSerialMux_QuerySkipsOtherResponses(t *testing.T) {
	port := NewTestSerialPort("FPGAVersion:RESULT:stale\nGetASICError:RESULT:ASIC Error Status: 00, FPGA Error Status: 00000000\n")
	mux := NewSerialMux(port)
	done := make(chan struct{})
	var line string
	var err error
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		line, err = mux.Query(ctx, "GetAsicError")
	}()
	// Query subscribes before writing, so wait for the command to go out
	// before any line is read.
	deadline := time.Now().Add(time.Second)
	for port.WrittenData() == "" && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	startMonitor(t, mux)
	<-done
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(line, "GetASICError:") {
		t.Errorf("line = %q", line)
	}
}

func TestSerialMux_CloseClosesSubscribers(t *testing.T) {
	port := NewTestSerialPort("")
	mux := NewSerialMux(port)
	_, ch := mux.Subscribe()
	if err := mux.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
	if !port.closed {
		t.Error("expected port to be closed")
	}
}

func TestSerialMux_SubscribeAfterClose(t *testing.T) {
	mux := NewSerialMux(NewTestSerialPort(""))
	if err := mux.Close(); err != nil {
		t.Fatal(err)
	}
	_, ch := mux.Subscribe()
	if _, ok := <-ch; ok {
		t.Error("expected closed channel when subscribing after Close")
	}
	if _, err := mux.Query(context.Background(), "FPGAVersion"); err == nil {
		t.Error("expected Query to fail after Close")
	}
}

func TestSerialMux_QuerySendFailure(t *testing.T) {
	port := NewTestSerialPort("")
	port.writeErr = io.ErrClosedPipe
	mux := NewSerialMux(port)

	_, err := mux.Query(context.Background(), "SetTxCoeffs:1,2")
	if !errors.Is(err, ErrSendFailed) {
		t.Errorf("Query: got %v, want ErrSendFailed", err)
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("Query: got %v, want the write error wrapped", err)
	}
}
