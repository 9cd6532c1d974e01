package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/soundcath/beamformer/internal/scan"
)

// Metric extracts one scalar per grid cell.
type Metric struct {
	Name string
	Unit string
	Of   func(scan.Cell) float64
}

var (
	// RxScale is the receive coefficient scale chosen per cell.
	RxScale = Metric{Name: "RX scale", Of: func(c scan.Cell) float64 { return float64(c.RxCoeffs.Scale()) }}
	// TxOffset is the transmit beam offset in microseconds.
	TxOffset = Metric{Name: "TX offset", Unit: "µs", Of: func(c scan.Cell) float64 { return c.TxOffset * 1e6 }}
	// MaxTxDelay is the largest transmit delay, in ticks.
	MaxTxDelay = Metric{Name: "Max TX delay", Unit: "ticks", Of: func(c scan.Cell) float64 { return float64(c.TxDelays.Max()) }}
	// MaxRxDelay is the largest receive delay, in ticks.
	MaxRxDelay = Metric{Name: "Max RX delay", Unit: "ticks", Of: func(c scan.Cell) float64 { return float64(c.RxDelays.Max()) }}
)

func (m Metric) label() string {
	if m.Unit == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Unit)
}

// viridis stops for the visual map.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// GridChart writes an HTML scatter chart of m over the steering grid of c.
// Each point sits at its (x, y) steering angle and is coloured by value.
func GridChart(w io.Writer, c *scan.Cache, m Metric) error {
	p := c.Params()
	cells := c.Cells()

	data := make([]opts.ScatterData, 0, len(cells))
	lo, hi := math.Inf(1), math.Inf(-1)
	for idx, cell := range cells {
		i, j := p.Cell(idx)
		x, y := c.Angles(i, j)
		v := m.Of(cell)
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		data = append(data, opts.ScatterData{Value: []interface{}{x, y, v}})
	}
	if len(cells) == 0 {
		lo, hi = 0, 0
	}
	if hi == lo {
		hi = lo + 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "SoundCath " + m.Name, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    m.label(),
			Subtitle: fmt.Sprintf("build=%s mode=%s grid=%dx%d", c.ID(), c.Mode(), p.XSteps, p.YSteps),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X steering (deg)", NameLocation: "middle", NameGap: 25, Min: p.XMinDeg, Max: p.XMaxDeg}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y steering (deg)", NameLocation: "middle", NameGap: 30, Min: p.YMinDeg, Max: p.YMaxDeg}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries(m.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))

	return scatter.Render(w)
}

// SaveGridChart writes GridChart output to path, creating its directory.
func SaveGridChart(path string, c *scan.Cache, m Metric) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := GridChart(f, c, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
