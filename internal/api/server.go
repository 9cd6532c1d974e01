// Package api serves the scan session over HTTP: cache and cell lookups,
// stored builds, rebuilds, and ASIC uploads.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/soundcath/beamformer/internal/asic"
	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/db"
	"github.com/soundcath/beamformer/internal/httputil"
	"github.com/soundcath/beamformer/internal/monitoring"
	"github.com/soundcath/beamformer/internal/scan"
	"github.com/soundcath/beamformer/internal/session"
)

// ANSI escape codes for the request log
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

type Server struct {
	session  *session.Session
	db       *db.DB
	asic     *asic.Controller
	plotsDir string
}

// NewServer returns an API server. ctrl may be nil when no bridge is
// attached, and plotsDir empty when reports are disabled.
func NewServer(s *session.Session, database *db.DB, ctrl *asic.Controller, plotsDir string) *Server {
	return &Server{
		session:  s,
		db:       database,
		asic:     ctrl,
		plotsDir: plotsDir,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, status and duration of every request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cache", s.showCache)
	mux.HandleFunc("/api/cell", s.showCell)
	mux.HandleFunc("/api/builds", s.listBuilds)
	mux.HandleFunc("/api/builds/restore", s.restoreBuild)
	mux.HandleFunc("/api/rebuild", s.rebuild)
	mux.HandleFunc("/api/asic/load", s.loadCell)
	if s.plotsDir != "" {
		mux.Handle("/plots/", http.StripPrefix("/plots/", http.FileServer(http.Dir(s.plotsDir))))
	}
	return mux
}

// CacheSummary is the JSON form of a scan cache without its cells.
type CacheSummary struct {
	ID            string      `json:"id"`
	Mode          string      `json:"mode"`
	Group         int         `json:"group"`
	XSteps        int         `json:"x_steps"`
	YSteps        int         `json:"y_steps"`
	Cells         int         `json:"cells"`
	TxSaturations int         `json:"tx_saturations"`
	RxSaturations int         `json:"rx_saturations"`
	Workers       int         `json:"workers"`
	DurationMs    float64     `json:"duration_ms"`
	BuiltAt       time.Time   `json:"built_at"`
	Counts        scan.Counts `json:"counts"`
}

func summarize(c *scan.Cache) CacheSummary {
	st := c.Stats()
	p := c.Params()
	return CacheSummary{
		ID:            c.ID().String(),
		Mode:          c.Mode().String(),
		Group:         c.Group(),
		XSteps:        p.XSteps,
		YSteps:        p.YSteps,
		Cells:         st.Cells,
		TxSaturations: st.TxSaturations,
		RxSaturations: st.RxSaturations,
		Workers:       st.Workers,
		DurationMs:    float64(st.Duration.Microseconds()) / 1e3,
		BuiltAt:       st.BuiltAt,
		Counts:        c.Counts(),
	}
}

// CellResponse is the JSON form of one grid cell. Only the payloads of
// the cache mode are present.
type CellResponse struct {
	XIndex        int                           `json:"x_index"`
	YIndex        int                           `json:"y_index"`
	XDeg          float64                       `json:"x_deg"`
	YDeg          float64                       `json:"y_deg"`
	TxDelays      *beamform.DelayField          `json:"tx_delays,omitempty"`
	RxDelays      *beamform.DelayField          `json:"rx_delays,omitempty"`
	TxCoeffs      *beamform.TxCoeffs            `json:"tx_coeffs,omitempty"`
	TxOffsetNs    *float64                      `json:"tx_offset_ns,omitempty"`
	RxCoeffs      *beamform.RxCoeffs            `json:"rx_coeffs,omitempty"`
	RxGroupDelays *beamform.GroupDelayField     `json:"rx_group_delays,omitempty"`
	Dynamic       *beamform.DynamicReceiveCurve `json:"dynamic,omitempty"`
}

func cellResponse(c *scan.Cache, i, j int, cell scan.Cell) CellResponse {
	x, y := c.Angles(i, j)
	resp := CellResponse{XIndex: i, YIndex: j, XDeg: x, YDeg: y}
	if c.Mode() == scan.ModeDelays {
		resp.TxDelays, resp.RxDelays = &cell.TxDelays, &cell.RxDelays
		return resp
	}
	offset := cell.TxOffset * 1e9
	resp.TxCoeffs, resp.TxOffsetNs = &cell.TxCoeffs, &offset
	resp.RxCoeffs, resp.RxGroupDelays = &cell.RxCoeffs, &cell.RxGroupDelays
	if c.Params().Dynamic() {
		resp.Dynamic = &cell.Dynamic
	}
	return resp
}

// parseAngles reads the x and y steering angles, in degrees.
func parseAngles(r *http.Request) (x, y float64, err error) {
	q := r.URL.Query()
	if x, err = strconv.ParseFloat(q.Get("x"), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid 'x' parameter")
	}
	if y, err = strconv.ParseFloat(q.Get("y"), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid 'y' parameter")
	}
	return x, y, nil
}

// currentCache returns the session cache or writes a 503.
func (s *Server) currentCache(w http.ResponseWriter) *scan.Cache {
	c := s.session.Cache()
	if c == nil {
		httputil.Unavailable(w, "no scan cache installed")
	}
	return c
}

func (s *Server) showCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	c := s.currentCache(w)
	if c == nil {
		return
	}
	httputil.WriteJSONOK(w, summarize(c))
}

func (s *Server) showCell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	x, y, err := parseAngles(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	c := s.currentCache(w)
	if c == nil {
		return
	}
	i, j := c.Params().Nearest(x, y)
	cell, _ := c.Cell(i, j)
	httputil.WriteJSONOK(w, cellResponse(c, i, j, cell))
}

// BuildResponse is the JSON form of a stored build.
type BuildResponse struct {
	ID            string    `json:"id"`
	Mode          string    `json:"mode"`
	XSteps        int       `json:"x_steps"`
	YSteps        int       `json:"y_steps"`
	Cells         int       `json:"cells"`
	TxSaturations int       `json:"tx_saturations"`
	RxSaturations int       `json:"rx_saturations"`
	DurationMs    float64   `json:"duration_ms"`
	BuiltAt       time.Time `json:"built_at"`
	Active        bool      `json:"active"`
}

func (s *Server) listBuilds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	builds, err := s.db.ListBuilds(r.Context())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list builds: %v", err))
		return
	}
	var active uuid.UUID
	if c := s.session.Cache(); c != nil {
		active = c.ID()
	}
	out := make([]BuildResponse, len(builds))
	for k, b := range builds {
		out[k] = BuildResponse{
			ID:            b.ID.String(),
			Mode:          b.Mode.String(),
			XSteps:        b.XSteps,
			YSteps:        b.YSteps,
			Cells:         b.Cells,
			TxSaturations: b.TxSaturations,
			RxSaturations: b.RxSaturations,
			DurationMs:    float64(b.Duration.Microseconds()) / 1e3,
			BuiltAt:       b.BuiltAt,
			Active:        b.ID == active,
		}
	}
	httputil.WriteJSONOK(w, out)
}

func (s *Server) restoreBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		httputil.BadRequest(w, "invalid 'id' parameter")
		return
	}
	c, err := s.db.LoadCache(r.Context(), id)
	if errors.Is(err, db.ErrBuildNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load build: %v", err))
		return
	}
	s.session.Install(c)
	httputil.WriteJSONOK(w, summarize(c))
}

func (s *Server) rebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	if err := s.session.Rebuild(r.Context()); err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	c := s.session.Cache()
	if err := s.db.SaveCache(r.Context(), c); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to store build: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, summarize(c))
}

func (s *Server) loadCell(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.asic == nil {
		httputil.Unavailable(w, "no probe bridge attached")
		return
	}
	x, y, err := parseAngles(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	c := s.currentCache(w)
	if c == nil {
		return
	}
	i, j := c.Params().Nearest(x, y)
	if err := s.asic.LoadCell(r.Context(), c, i, j); err != nil {
		httputil.WriteJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	cell, _ := c.Cell(i, j)
	httputil.WriteJSONOK(w, cellResponse(c, i, j, cell))
}
