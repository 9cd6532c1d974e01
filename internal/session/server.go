package session

import (
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer serves a session's health over gRPC.
type HealthServer struct {
	addr     string
	session  *Session
	server   *grpc.Server
	listener net.Listener

	running atomic.Bool
	wg      sync.WaitGroup
}

// NewHealthServer returns a server for s listening on addr.
func NewHealthServer(addr string, s *Session) *HealthServer {
	return &HealthServer{addr: addr, session: s}
}

// Start binds the listener and serves in the background.
func (h *HealthServer) Start() error {
	if h.running.Load() {
		return fmt.Errorf("health server already running")
	}
	lis, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	h.listener = lis
	h.server = grpc.NewServer()
	healthpb.RegisterHealthServer(h.server, h.session.Health())

	h.running.Store(true)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		log.Printf("[Session] gRPC health server listening on %s", lis.Addr())
		if err := h.server.Serve(lis); err != nil && h.running.Load() {
			log.Printf("[Session] gRPC server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (h *HealthServer) Addr() net.Addr {
	if h.listener == nil {
		return nil
	}
	return h.listener.Addr()
}

// Stop gracefully stops the server.
func (h *HealthServer) Stop() {
	if !h.running.Load() {
		return
	}
	h.running.Store(false)
	h.server.GracefulStop()
	h.wg.Wait()
	log.Printf("[Session] gRPC health server stopped")
}
