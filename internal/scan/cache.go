package scan

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soundcath/beamformer/internal/beamform"
)

// Stats describes how a Cache was built.
type Stats struct {
	Cells         int
	TxSaturations int // clamped transmit fields across the grid
	RxSaturations int // clamped receive fields across the grid
	Workers       int
	Duration      time.Duration
	BuiltAt       time.Time
}

// Cell is the value form of one grid slot. Fields that do not belong to
// the cache mode are zero.
type Cell struct {
	TxDelays      beamform.DelayField
	RxDelays      beamform.DelayField
	TxCoeffs      beamform.TxCoeffs
	TxOffset      float64 // seconds
	RxCoeffs      beamform.RxCoeffs
	RxGroupDelays beamform.GroupDelayField
	Dynamic       beamform.DynamicReceiveCurve
}

// Counts reports how many entries of each kind a Cache holds.
type Counts struct {
	DelayPairs    int
	TxCoeffs      int
	RxCoeffs      int
	RxGroupDelays int
	Dynamic       int
}

// Cache holds the precomputed payloads of a steering grid. It is safe for
// concurrent use by any number of readers.
type Cache struct {
	id     uuid.UUID
	beam   beamform.Params
	params Params
	group  int
	stats  Stats

	// parallel arrays indexed by Params.Index; unused kinds are nil
	txDelays      []beamform.DelayField
	rxDelays      []beamform.DelayField
	txCoeffs      []beamform.TxCoeffs
	txOffsets     []float64
	rxCoeffs      []beamform.RxCoeffs
	rxGroupDelays []beamform.GroupDelayField
	dynamic       []beamform.DynamicReceiveCurve
}

func newCache(id uuid.UUID, beam beamform.Params, p Params) *Cache {
	c := &Cache{
		id:     id,
		beam:   beam,
		params: p,
		group:  RepresentativeGroup(beam),
	}
	n := p.Cells()
	if p.Mode() == ModeDelays {
		c.txDelays = make([]beamform.DelayField, n)
		c.rxDelays = make([]beamform.DelayField, n)
		return c
	}
	c.txCoeffs = make([]beamform.TxCoeffs, n)
	c.txOffsets = make([]float64, n)
	c.rxCoeffs = make([]beamform.RxCoeffs, n)
	c.rxGroupDelays = make([]beamform.GroupDelayField, n)
	if p.Dynamic() {
		c.dynamic = make([]beamform.DynamicReceiveCurve, n)
	}
	return c
}

func (c *Cache) set(idx int, cell Cell) {
	if c.params.Mode() == ModeDelays {
		c.txDelays[idx] = cell.TxDelays
		c.rxDelays[idx] = cell.RxDelays
		return
	}
	c.txCoeffs[idx] = cell.TxCoeffs
	c.txOffsets[idx] = cell.TxOffset
	c.rxCoeffs[idx] = cell.RxCoeffs
	c.rxGroupDelays[idx] = cell.RxGroupDelays
	if c.dynamic != nil {
		c.dynamic[idx] = cell.Dynamic
	}
}

// Restore rebuilds a Cache from stored cells, in Params.Index order.
func Restore(id uuid.UUID, beam beamform.Params, p Params, stats Stats, cells []Cell) (*Cache, error) {
	if len(cells) != p.Cells() {
		return nil, fmt.Errorf("restore cache %s: got %d cells, want %d", id, len(cells), p.Cells())
	}
	c := newCache(id, beam, p)
	for idx, cell := range cells {
		c.set(idx, cell)
	}
	c.stats = stats
	return c, nil
}

// ID returns the unique build identifier.
func (c *Cache) ID() uuid.UUID { return c.id }

// Params returns the scan parameters the cache was built with.
func (c *Cache) Params() Params { return c.params }

// BeamParams returns the beamforming parameters the cache was built with.
func (c *Cache) BeamParams() beamform.Params { return c.beam }

// Mode returns what the cache holds per cell.
func (c *Cache) Mode() Mode { return c.params.Mode() }

// Group returns the group whose RX delays are stored per cell.
func (c *Cache) Group() int { return c.group }

// Stats returns build statistics.
func (c *Cache) Stats() Stats { return c.stats }

// Len returns the number of grid cells.
func (c *Cache) Len() int { return c.params.Cells() }

// Angles returns the steering angles of cell (i, j).
func (c *Cache) Angles(i, j int) (xDeg, yDeg float64) {
	return c.params.XAngle(i), c.params.YAngle(j)
}

func (c *Cache) slot(i, j int) (int, bool) {
	if !c.params.InRange(i, j) {
		return 0, false
	}
	return c.params.Index(i, j), true
}

// TxDelays returns the transmit delay field of cell (i, j).
func (c *Cache) TxDelays(i, j int) (beamform.DelayField, bool) {
	idx, ok := c.slot(i, j)
	if !ok || c.txDelays == nil {
		return beamform.DelayField{}, false
	}
	return c.txDelays[idx], true
}

// RxDelays returns the receive delay field of cell (i, j).
func (c *Cache) RxDelays(i, j int) (beamform.DelayField, bool) {
	idx, ok := c.slot(i, j)
	if !ok || c.rxDelays == nil {
		return beamform.DelayField{}, false
	}
	return c.rxDelays[idx], true
}

// TxCoeffs returns the transmit coefficients and beam offset (seconds) of
// cell (i, j).
func (c *Cache) TxCoeffs(i, j int) (beamform.TxCoeffs, float64, bool) {
	idx, ok := c.slot(i, j)
	if !ok || c.txCoeffs == nil {
		return beamform.TxCoeffs{}, 0, false
	}
	return c.txCoeffs[idx], c.txOffsets[idx], true
}

// RxCoeffs returns the receive coefficients of cell (i, j).
func (c *Cache) RxCoeffs(i, j int) (beamform.RxCoeffs, bool) {
	idx, ok := c.slot(i, j)
	if !ok || c.rxCoeffs == nil {
		return beamform.RxCoeffs{}, false
	}
	return c.rxCoeffs[idx], true
}

// RxGroupDelays returns the receive delays of the representative group
// for cell (i, j).
func (c *Cache) RxGroupDelays(i, j int) (beamform.GroupDelayField, bool) {
	idx, ok := c.slot(i, j)
	if !ok || c.rxGroupDelays == nil {
		return beamform.GroupDelayField{}, false
	}
	return c.rxGroupDelays[idx], true
}

// Dynamic returns the dynamic receive curve of cell (i, j). Only caches
// built with dynamic receive hold curves.
func (c *Cache) Dynamic(i, j int) (beamform.DynamicReceiveCurve, bool) {
	idx, ok := c.slot(i, j)
	if !ok || c.dynamic == nil {
		return beamform.DynamicReceiveCurve{}, false
	}
	return c.dynamic[idx], true
}

// Cell returns every stored value of cell (i, j).
func (c *Cache) Cell(i, j int) (Cell, bool) {
	idx, ok := c.slot(i, j)
	if !ok {
		return Cell{}, false
	}
	return c.cellAt(idx), true
}

func (c *Cache) cellAt(idx int) Cell {
	var cell Cell
	if c.txDelays != nil {
		cell.TxDelays = c.txDelays[idx]
		cell.RxDelays = c.rxDelays[idx]
	}
	if c.txCoeffs != nil {
		cell.TxCoeffs = c.txCoeffs[idx]
		cell.TxOffset = c.txOffsets[idx]
		cell.RxCoeffs = c.rxCoeffs[idx]
		cell.RxGroupDelays = c.rxGroupDelays[idx]
	}
	if c.dynamic != nil {
		cell.Dynamic = c.dynamic[idx]
	}
	return cell
}

// Cells returns a copy of every cell in Params.Index order.
func (c *Cache) Cells() []Cell {
	out := make([]Cell, c.Len())
	for idx := range out {
		out[idx] = c.cellAt(idx)
	}
	return out
}

// Counts reports how many entries of each kind the cache holds.
func (c *Cache) Counts() Counts {
	return Counts{
		DelayPairs:    len(c.txDelays),
		TxCoeffs:      len(c.txCoeffs),
		RxCoeffs:      len(c.rxCoeffs),
		RxGroupDelays: len(c.rxGroupDelays),
		Dynamic:       len(c.dynamic),
	}
}
