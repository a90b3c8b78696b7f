package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/egandro/thermomap/pkg/barchart"
	"github.com/egandro/thermomap/pkg/buildings"
	"github.com/egandro/thermomap/pkg/colorscale"
	"github.com/egandro/thermomap/pkg/dashboard"
)

var errBadRequest = errors.New("bad request")

// Buildings is the read-only building layer served by the service.
type Buildings interface {
	All() []*buildings.Building
	Get(id string) (*buildings.Building, error)
	At(lon, lat float64) (*buildings.Building, error)
	Times() []string
}

// Options tune chart rendering and the dashboard page.
type Options struct {
	RasterURLPattern string
	ChartCacheSize   int
	ChartWidth       float64
	ChartHeight      float64
}

// service represents the HTTP service.
type service struct {
	Host   string
	Port   int
	server *http.Server

	store  Buildings
	times  []string
	opts   Options
	charts *lru.Cache
	group  singleflight.Group

	renders atomic.Int64
}

// New creates a new service instance.
func New(host string, port int, store Buildings, opts Options) (*service, error) {
	if opts.ChartCacheSize <= 0 {
		opts.ChartCacheSize = 256
	}
	if opts.ChartWidth <= 0 {
		opts.ChartWidth = dashboard.DefaultPopupWidth
	}
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = dashboard.DefaultPopupHeight
	}
	if opts.RasterURLPattern == "" {
		opts.RasterURLPattern = dashboard.DefaultRasterURLPattern
	}
	charts, err := lru.New(opts.ChartCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart cache: %w", err)
	}
	return &service{
		Host:   host,
		Port:   port,
		store:  store,
		times:  store.Times(),
		opts:   opts,
		charts: charts,
	}, nil
}

// Handler returns the routes of the service.
func (s *service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/color", s.handleColor)
	mux.HandleFunc("GET /api/buildings", s.handleBuildings)
	mux.HandleFunc("GET /api/buildings/at", s.handleBuildingAt)
	mux.HandleFunc("GET /api/buildings/{id}/chart.svg", s.handleChart)
	mux.HandleFunc("GET /api/buildings/{id}/scene", s.handleScene)
	mux.HandleFunc("GET /api/buildings/{id}/popup", s.handlePopup)
	mux.HandleFunc("GET /api/styles", s.handleStyles)
	mux.HandleFunc("GET /{$}", s.handlePage)
	return mux
}

// Start runs the HTTP server.
func (s *service) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	slog.Info("Starting HTTP service", "address", addr, "buildings", len(s.store.All()), "times", len(s.times))

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 3 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *service) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ColorResponse is the body of /api/color.
type ColorResponse struct {
	R   uint8  `json:"r"`
	G   uint8  `json:"g"`
	B   uint8  `json:"b"`
	CSS string `json:"css"`
	Hex string `json:"hex"`
}

func (s *service) handleColor(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value, err := parseFloat(q.Get("value"), 0, true)
	if err != nil {
		s.fail(w, err)
		return
	}
	min, err := parseFloat(q.Get("min"), 0, false)
	if err != nil {
		s.fail(w, err)
		return
	}
	max, err := parseFloat(q.Get("max"), 1, false)
	if err != nil {
		s.fail(w, err)
		return
	}
	smooth := true
	if v := q.Get("smooth"); v != "" {
		if smooth, err = strconv.ParseBool(v); err != nil {
			s.fail(w, fmt.Errorf("%w: smooth must be a boolean", errBadRequest))
			return
		}
	}

	var c colorscale.RGB
	switch q.Get("scale") {
	case "", "bluered":
		c = colorscale.ColorOfSmooth(value, min, max, smooth)
	case "violetgreen":
		c = colorscale.VioletGreenOfSmooth(value, min, max, smooth)
	default:
		s.fail(w, fmt.Errorf("%w: unknown scale %q", errBadRequest, q.Get("scale")))
		return
	}
	s.respond(w, http.StatusOK, ColorResponse{R: c.R, G: c.G, B: c.B, CSS: c.String(), Hex: c.Hex()})
}

func (s *service) handleBuildings(w http.ResponseWriter, r *http.Request) {
	all := s.store.All()
	ids := make([]string, 0, len(all))
	for _, b := range all {
		ids = append(ids, b.ID)
	}
	sort.Strings(ids)
	s.respond(w, http.StatusOK, map[string]interface{}{"ids": ids, "times": s.times})
}

func (s *service) handleBuildingAt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lon, err := parseFloat(q.Get("lon"), 0, true)
	if err != nil {
		s.fail(w, err)
		return
	}
	lat, err := parseFloat(q.Get("lat"), 0, true)
	if err != nil {
		s.fail(w, err)
		return
	}
	b, err := s.store.At(lon, lat)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"id": b.ID})
}

func (s *service) handleStyles(w http.ResponseWriter, r *http.Request) {
	state, err := s.state(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := map[string]string{}
	for id, c := range dashboard.Styles(s.store, state) {
		out[id] = c.String()
	}
	s.respond(w, http.StatusOK, out)
}

func (s *service) handlePopup(w http.ResponseWriter, r *http.Request) {
	state, err := s.state(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	p, err := s.popup(r.PathValue("id"), state)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, p)
}

// Scene is the body of /api/buildings/{id}/scene.
type Scene struct {
	Layout    *barchart.Layout   `json:"layout"`
	Highlight barchart.Highlight `json:"highlight"`
}

func (s *service) handleScene(w http.ResponseWriter, r *http.Request) {
	state, err := s.state(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	hover, err := parseHover(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	p, err := s.popup(r.PathValue("id"), state)
	if err != nil {
		s.fail(w, err)
		return
	}
	l := barchart.NewLayout(p.Chart)
	s.respond(w, http.StatusOK, Scene{Layout: l, Highlight: l.Apply(hover)})
}

func (s *service) handleChart(w http.ResponseWriter, r *http.Request) {
	state, err := s.state(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	hover, err := parseHover(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	svg, err := s.chartSVG(r.PathValue("id"), state, hover)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(svg); err != nil {
		slog.Error("Failed to write chart", "error", err)
	}
}

func (s *service) handlePage(w http.ResponseWriter, r *http.Request) {
	state, err := s.state(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	err = dashboard.WritePage(&buf, s.store, state, dashboard.PageOptions{
		RasterURLPattern: s.opts.RasterURLPattern,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write page", "error", err)
	}
}

func (s *service) state(r *http.Request) (dashboard.State, error) {
	return dashboard.StateFromQuery(r.URL.Query(), s.times)
}

func (s *service) popup(id string, state dashboard.State) (*dashboard.PopupView, error) {
	b, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return dashboard.Popup(b, state, s.opts.ChartWidth, s.opts.ChartHeight)
}

// chartSVG renders the chart of one building. Results are cached, and
// concurrent requests for the same chart share one render.
func (s *service) chartSVG(id string, state dashboard.State, hover barchart.HoverState) ([]byte, error) {
	key := chartKey(id, state.Statistic, hover)
	if v, ok := s.charts.Get(key); ok {
		return v.([]byte), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if v, ok := s.charts.Get(key); ok {
			return v, nil
		}
		p, err := s.popup(id, state)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := barchart.NewLayout(p.Chart).WriteSVG(&buf, hover); err != nil {
			return nil, err
		}
		s.renders.Add(1)
		svg := buf.Bytes()
		s.charts.Add(key, svg)
		slog.Debug("Rendered chart", "building", id, "statistic", state.Statistic, "bytes", len(svg))
		return svg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func chartKey(id string, stat buildings.Statistic, hover barchart.HoverState) string {
	if !hover.Active {
		return fmt.Sprintf("%s\x00%s", id, stat)
	}
	return fmt.Sprintf("%s\x00%s\x00%s\x00%g\x00%g", id, stat, hover.Label, hover.PointerX, hover.PointerY)
}

func parseFloat(v string, fallback float64, required bool) (float64, error) {
	if v == "" {
		if required {
			return 0, fmt.Errorf("%w: missing number", errBadRequest)
		}
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errBadRequest, v)
	}
	return f, nil
}

func parseHover(r *http.Request) (barchart.HoverState, error) {
	q := r.URL.Query()
	label := q.Get("hover")
	if label == "" {
		return barchart.Idle(), nil
	}
	x, err := parseFloat(q.Get("x"), 0, false)
	if err != nil {
		return barchart.Idle(), err
	}
	y, err := parseFloat(q.Get("y"), 0, false)
	if err != nil {
		return barchart.Idle(), err
	}
	return barchart.Hovering(label, x, y), nil
}

func (s *service) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, buildings.ErrNotFound), errors.Is(err, buildings.ErrNoTemperature):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, buildings.ErrUnknownStatistic),
		errors.Is(err, dashboard.ErrUnknownMode):
		status = http.StatusBadRequest
	default:
		slog.Error("Request failed", "error", err)
	}
	s.respond(w, status, map[string]string{"error": err.Error()})
}

func (s *service) respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
