// Package session owns the scan cache in use and publishes readiness
// over the gRPC health protocol.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/monitoring"
	"github.com/soundcath/beamformer/internal/scan"
)

// ServiceName is the health service reported by a Session.
const ServiceName = "soundcath.ScanCache"

// Session holds the current scan cache. Readers call Cache and never
// block; a parameter change builds a complete new cache and swaps it in.
type Session struct {
	cache  atomic.Pointer[scan.Cache]
	health *health.Server

	mu    sync.Mutex // serializes rebuilds and guards beam, scan
	beam  beamform.Params
	scan  scan.Params
	sweep beamform.SweepModel

	metrics *monitoring.Metrics
}

// Option configures a Session.
type Option func(*Session)

// WithMetrics records builds and swaps in m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithSweepModel sets the dynamic receive sweep model used for builds.
func WithSweepModel(m beamform.SweepModel) Option {
	return func(s *Session) { s.sweep = m }
}

// New returns a session with no cache. It reports NOT_SERVING until the
// first cache is installed.
func New(beam beamform.Params, p scan.Params, opts ...Option) *Session {
	s := &Session{
		health: health.NewServer(),
		beam:   beam,
		scan:   p,
	}
	for _, o := range opts {
		o(s)
	}
	s.setServing(false)
	return s
}

// Cache returns the cache in use, or nil before the first build.
func (s *Session) Cache() *scan.Cache { return s.cache.Load() }

// Params returns the parameters the next rebuild will use.
func (s *Session) Params() (beamform.Params, scan.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beam, s.scan
}

// Health returns the health server to register on a gRPC server.
func (s *Session) Health() *health.Server { return s.health }

// Rebuild builds a cache from the current parameters and installs it.
func (s *Session) Rebuild(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rebuildLocked(ctx, s.beam, s.scan)
}

// Update switches to new parameters. The old cache and parameters stay in
// place if the build fails.
func (s *Session) Update(ctx context.Context, beam beamform.Params, p scan.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rebuildLocked(ctx, beam, p); err != nil {
		return err
	}
	s.beam, s.scan = beam, p
	return nil
}

func (s *Session) rebuildLocked(ctx context.Context, beam beamform.Params, p scan.Params) error {
	s.setServing(false)
	b := scan.Builder{Beam: beam, Scan: p, Sweep: s.sweep, Metrics: s.metrics}
	c, err := b.Build(ctx)
	if err != nil {
		s.setServing(s.Cache() != nil)
		return fmt.Errorf("session rebuild: %w", err)
	}
	s.swap(c)
	return nil
}

// Install swaps in a cache built elsewhere, for example one restored
// from the database, and adopts its parameters.
func (s *Session) Install(c *scan.Cache) {
	if c == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beam, s.scan = c.BeamParams(), c.Params()
	s.swap(c)
}

func (s *Session) swap(c *scan.Cache) {
	old := s.cache.Swap(c)
	s.metrics.RecordCacheSwap()
	s.setServing(true)
	if old != nil {
		monitoring.Logf("session: replaced scan cache %s with %s", old.ID(), c.ID())
		return
	}
	monitoring.Logf("session: installed scan cache %s", c.ID())
}

func (s *Session) setServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, st)
	s.health.SetServingStatus("", st)
}

// Shutdown marks the session as no longer serving.
func (s *Session) Shutdown() {
	s.health.Shutdown()
}
