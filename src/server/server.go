// Package server publishes a view.Container over HTTP: the interactive chart,
// raster and spreadsheet renderings, and the underlying CSV.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/iafilius/PopulationPyramid/src/export"
	"github.com/iafilius/PopulationPyramid/src/logging"
	"github.com/iafilius/PopulationPyramid/src/pyramid"
	"github.com/iafilius/PopulationPyramid/src/render"
	"github.com/iafilius/PopulationPyramid/src/view"
)

// maxDimension caps requested raster sizes.
const maxDimension = 4096

// Server routes requests to renderings of one container's model.
type Server struct {
	router *chi.Mux
	view   *view.Container
	pngs   singleflight.Group
}

// New builds the router. The container should already be shown.
func New(c *view.Container) *Server {
	s := &Server{router: chi.NewRouter(), view: c}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleHTML)
	s.router.Get("/chart.png", s.handlePNG)
	s.router.Get("/chart.xlsx", s.handleXLSX)
	s.router.Get("/data.csv", s.handleData)
	s.router.Get("/model.json", s.handleModel)
	s.router.Get("/summary.json", s.handleSummary)
	s.router.Get("/healthz", s.handleHealth)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := render.HTML(&buf, s.view.CurrentModel(), s.view.Options()); err != nil {
		logging.Errorf("[server] html: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	width, err := dimension(r, "width", render.DefaultWidth)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := dimension(r, "height", s.view.Options().Height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// identical concurrent requests for the same state share one render
	key := fmt.Sprintf("%s/%dx%d", s.view.State(), width, height)
	v, err, _ := s.pngs.Do(key, func() (interface{}, error) {
		var buf bytes.Buffer
		if err := render.WritePNG(&buf, s.view.CurrentModel(), s.view.Options(), width, height); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		logging.Errorf("[server] png: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(v.([]byte))
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, s.view.CurrentModel(), s.view.Options()); err != nil {
		logging.Errorf("[server] xlsx: %v", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="population_pyramid.xlsx"`)
	w.Write(buf.Bytes())
}

// handleData passes the configured source through unchanged.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	src := s.view.Source()
	rc, err := src.Open(r.Context())
	if err != nil {
		logging.Warnf("[server] open %s: %v", src.Name(), err)
		http.Error(w, "data unavailable", http.StatusBadGateway)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if _, err := io.Copy(w, rc); err != nil {
		logging.Warnf("[server] copy %s: %v", src.Name(), err)
	}
}

// modelJSON is the wire form of a ChartModel; NaN becomes null.
type modelJSON struct {
	State  string       `json:"state"`
	Labels []string     `json:"labels"`
	Series []seriesJSON `json:"series"`
}

type seriesJSON struct {
	Name   string     `json:"name"`
	Color  string     `json:"color"`
	Values []*float64 `json:"values"`
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	m := s.view.CurrentModel()
	out := modelJSON{State: s.view.State().String(), Labels: m.Labels}
	for _, sr := range m.Series() {
		vals := make([]*float64, len(sr.Values))
		for i, v := range sr.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			v := v
			vals[i] = &v
		}
		out.Series = append(out.Series, seriesJSON{
			Name:   sr.Name,
			Color:  fmt.Sprintf("#%02x%02x%02x%02x", sr.Color.R, sr.Color.G, sr.Color.B, sr.Color.A),
			Values: vals,
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, pyramid.Summarize(s.view.CurrentModel()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"state": s.view.State().String()})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Errorf("[server] encode json: %v", err)
	}
}

func dimension(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > maxDimension {
		return 0, fmt.Errorf("%s must be an integer in 1..%d", name, maxDimension)
	}
	return n, nil
}
