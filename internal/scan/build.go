package scan

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/geometry"
	"github.com/soundcath/beamformer/internal/monitoring"
)

// RepresentativeGroup returns the group nearest the array centre, whose
// receive delays are stored per cell in coefficient mode.
func RepresentativeGroup(p beamform.Params) int {
	l := p.Transducer.Layout
	return (l.YGroups-1)/2*l.XGroups + (l.XGroups-1)/2
}

// Builder computes a Cache. Rx and Sweep are optional: the zero Rx
// compressor is derived from Beam, and a nil Sweep leaves the dynamic
// sweep fields zero.
type Builder struct {
	Beam    beamform.Params
	Scan    Params
	Rx      *beamform.RxCompressor
	Sweep   beamform.SweepModel
	Metrics *monitoring.Metrics
}

// Build computes a Cache with the default receive compressor.
func Build(ctx context.Context, beam beamform.Params, p Params) (*Cache, error) {
	return Builder{Beam: beam, Scan: p}.Build(ctx)
}

type cellStats struct {
	tx, rx int
}

// Build evaluates every grid cell on a bounded worker pool. The result
// does not depend on the number of workers. Build only fails when ctx is
// cancelled or the grid is empty.
func (b Builder) Build(ctx context.Context) (*Cache, error) {
	p := b.Scan
	if p.XSteps < 1 || p.YSteps < 1 {
		return nil, fmt.Errorf("scan grid must have at least one cell, got %dx%d", p.XSteps, p.YSteps)
	}
	rc := beamform.NewRxCompressor(b.Beam)
	if b.Rx != nil {
		rc = *b.Rx
	}
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	c := newCache(uuid.New(), b.Beam, p)
	sats := make([]cellStats, p.Cells())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx := 0; idx < p.Cells(); idx++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			i, j := p.Cell(idx)
			cell, st := b.cell(rc, c.group, i, j)
			c.set(idx, cell)
			sats[idx] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build scan cache: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build scan cache: %w", err)
	}

	c.stats = Stats{
		Cells:   p.Cells(),
		Workers: workers,
		BuiltAt: start,
	}
	for _, st := range sats {
		c.stats.TxSaturations += st.tx
		c.stats.RxSaturations += st.rx
	}
	c.stats.Duration = time.Since(start)

	b.Metrics.RecordBuild(p.Mode().String(), p.Cells(), c.stats.Duration)
	b.Metrics.RecordSaturations("tx", c.stats.TxSaturations)
	b.Metrics.RecordSaturations("rx", c.stats.RxSaturations)
	monitoring.Logf("scan cache %s: %d cells (%s) in %v on %d workers, %d tx / %d rx saturations",
		c.id, p.Cells(), p.Mode(), c.stats.Duration, workers, c.stats.TxSaturations, c.stats.RxSaturations)
	return c, nil
}

// cell computes one grid slot. It is a pure function of its arguments.
func (b Builder) cell(rc beamform.RxCompressor, group, i, j int) (Cell, cellStats) {
	var cell Cell
	var st cellStats
	p := b.Scan
	t := b.Beam.Transducer
	xDeg, yDeg := p.XAngle(i), p.YAngle(j)

	txFocus := geometry.FromSteering(xDeg, yDeg, p.TxDistance())
	rxFocus := geometry.FromSteering(xDeg, yDeg, p.RxDistance())

	if p.Mode() == ModeDelays {
		cell.TxDelays = beamform.CalculateDelays(txFocus, t, b.Beam.Tx.Resolution)
		cell.RxDelays = beamform.CalculateDelays(rxFocus, t, b.Beam.Rx.Resolution)
		return cell, st
	}

	tx := beamform.CompressTx(txFocus, t, b.Beam.Tx)
	cell.TxCoeffs = tx.Coeffs
	cell.TxOffset = tx.Offset
	st.tx = tx.Saturated

	rx := rc.Compress(rxFocus)
	cell.RxCoeffs = rx.Coeffs
	st.rx = rx.Saturated

	cell.RxGroupDelays = beamform.CalculateGroupDelays(rxFocus, group, t, b.Beam.Rx.Resolution)
	if p.Dynamic() {
		window := b.Beam.Rx.Runtime(t.SoundSpeed)
		cell.Dynamic = rc.Dynamic(xDeg, yDeg, window, b.Sweep)
	}
	return cell, st
}
