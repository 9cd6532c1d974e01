package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/geometry"
	"github.com/soundcath/beamformer/internal/scan"
	"github.com/soundcath/beamformer/internal/testutil"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func smallCache(t *testing.T, delays bool) *scan.Cache {
	t.Helper()
	return testutil.BuildCache(t, testutil.SmallScan(3, 3, delays))
}

func TestFieldGridLayout(t *testing.T) {
	layout := geometry.DefaultLayout()
	var field beamform.DelayField
	for i := range field {
		field[i] = int8(i % 128)
	}
	g := newFieldGrid(field, layout)

	cols, rows := g.Dims()
	assert.Equal(t, 16, cols)
	assert.Equal(t, 64, rows)

	for i := range field {
		e := layout.Element(i)
		col, row := layout.Cell(e)
		assert.Equal(t, float64(field[i]), g.Z(col, row), "element %v", e)
	}

	for c := 1; c < cols; c++ {
		assert.Greater(t, g.X(c), g.X(c-1))
	}
	for r := 1; r < rows; r++ {
		assert.Greater(t, g.Y(r), g.Y(r-1))
	}
	assert.InDelta(t, -g.X(0), g.X(cols-1), 1e-9)
	assert.InDelta(t, -g.Y(0), g.Y(rows-1), 1e-9)
}

func TestFieldGridRange(t *testing.T) {
	g := newFieldGrid(beamform.DelayField{}, geometry.DefaultLayout())
	assert.Equal(t, 0.0, g.Min())
	assert.Equal(t, 1.0, g.Max())

	var field beamform.DelayField
	field[10] = 42
	g = newFieldGrid(field, geometry.DefaultLayout())
	assert.Equal(t, 42.0, g.Max())
}

func TestDelayHeatMap(t *testing.T) {
	p := beamform.DefaultParams()
	field := beamform.CalculateDelays(geometry.FromSteering(20, -10, 0.02), p.Transducer, p.Tx.Resolution)

	var buf bytes.Buffer
	require.NoError(t, DelayHeatMap(&buf, field, p.Transducer.Layout, "tx"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestGridChart(t *testing.T) {
	c := smallCache(t, false)

	var buf bytes.Buffer
	require.NoError(t, GridChart(&buf, c, TxOffset))
	html := buf.String()
	assert.Contains(t, html, "TX offset")
	assert.Contains(t, html, c.ID().String())
	assert.Contains(t, html, "scatter")
}

func TestFieldsCoefficientCache(t *testing.T) {
	c := smallCache(t, false)
	beam := c.BeamParams()
	p := c.Params()

	tx, rx, ok := Fields(c, 1, 1)
	require.True(t, ok)
	x, y := c.Angles(1, 1)
	assert.Equal(t, beamform.CalculateDelays(geometry.FromSteering(x, y, p.TxDistance()), beam.Transducer, beam.Tx.Resolution), tx)
	assert.Equal(t, beamform.CalculateDelays(geometry.FromSteering(x, y, p.RxDistance()), beam.Transducer, beam.Rx.Resolution), rx)

	_, _, ok = Fields(c, 3, 0)
	assert.False(t, ok)
}

func TestFieldsDelayCache(t *testing.T) {
	c := smallCache(t, true)
	tx, rx, ok := Fields(c, 2, 0)
	require.True(t, ok)
	wantTx, _ := c.TxDelays(2, 0)
	wantRx, _ := c.RxDelays(2, 0)
	assert.Equal(t, wantTx, tx)
	assert.Equal(t, wantRx, rx)
}

func TestWrite(t *testing.T) {
	testutil.CaptureLogs(t)

	tests := []struct {
		name   string
		delays bool
		charts []string
	}{
		{"coefficients", false, []string{"rx_scale.html", "tx_offset.html"}},
		{"delays", true, []string{"max_tx_delay.html", "max_rx_delay.html"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "plots")
			files, err := Write(dir, smallCache(t, tt.delays))
			require.NoError(t, err)

			want := append([]string{"tx_delays_01_01.png", "rx_delays_01_01.png"}, tt.charts...)
			require.Len(t, files, len(want))
			for k, f := range files {
				assert.Equal(t, want[k], filepath.Base(f))
				data, err := os.ReadFile(f)
				require.NoError(t, err)
				if strings.HasSuffix(f, ".png") {
					assert.True(t, bytes.HasPrefix(data, pngMagic), f)
				} else {
					assert.Contains(t, string(data), "echarts", f)
				}
			}
		})
	}
}
