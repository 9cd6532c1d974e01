package report

import (
	"fmt"
	"path/filepath"

	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/geometry"
	"github.com/soundcath/beamformer/internal/monitoring"
	"github.com/soundcath/beamformer/internal/scan"
)

// Fields returns the exact TX and RX delay fields of cell (i, j). Delay
// caches hold them directly; for coefficient caches they are recomputed
// from the cell's steering angles and focus distances.
func Fields(c *scan.Cache, i, j int) (tx, rx beamform.DelayField, ok bool) {
	if tx, ok = c.TxDelays(i, j); ok {
		rx, _ = c.RxDelays(i, j)
		return tx, rx, true
	}
	p := c.Params()
	if !p.InRange(i, j) {
		return tx, rx, false
	}
	beam := c.BeamParams()
	x, y := c.Angles(i, j)
	tx = beamform.CalculateDelays(geometry.FromSteering(x, y, p.TxDistance()), beam.Transducer, beam.Tx.Resolution)
	rx = beamform.CalculateDelays(geometry.FromSteering(x, y, p.RxDistance()), beam.Transducer, beam.Rx.Resolution)
	return tx, rx, true
}

// Write renders the standard report set for c into dir: heat maps of the
// delay fields at the grid cell nearest boresight and one grid chart per
// metric that applies to the cache mode. It returns the files written.
func Write(dir string, c *scan.Cache) ([]string, error) {
	p := c.Params()
	i, j := p.Nearest(0, 0)
	tx, rx, ok := Fields(c, i, j)
	if !ok {
		return nil, fmt.Errorf("report: cell (%d, %d) outside grid", i, j)
	}
	x, y := c.Angles(i, j)
	layout := c.BeamParams().Transducer.Layout

	var files []string
	for _, hm := range []struct {
		name  string
		field beamform.DelayField
	}{
		{"tx", tx},
		{"rx", rx},
	} {
		path := filepath.Join(dir, fmt.Sprintf("%s_delays_%02d_%02d.png", hm.name, i, j))
		title := fmt.Sprintf("%s delays at (%.1f°, %.1f°)", hm.name, x, y)
		if err := SaveDelayHeatMap(path, hm.field, layout, title); err != nil {
			return files, fmt.Errorf("report %s: %w", path, err)
		}
		files = append(files, path)
	}

	type chart struct {
		file   string
		metric Metric
	}
	set := []chart{{"rx_scale", RxScale}, {"tx_offset", TxOffset}}
	if c.Mode() == scan.ModeDelays {
		set = []chart{{"max_tx_delay", MaxTxDelay}, {"max_rx_delay", MaxRxDelay}}
	}
	for _, ch := range set {
		path := filepath.Join(dir, ch.file+".html")
		if err := SaveGridChart(path, c, ch.metric); err != nil {
			return files, fmt.Errorf("report %s: %w", path, err)
		}
		files = append(files, path)
	}

	monitoring.Logf("report: wrote %d files for scan cache %s to %s", len(files), c.ID(), dir)
	return files, nil
}
