// Package web serves a read-only inspection API over a model and its trace:
// the dependency graph, current variable values, and sampled series.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/probkit/probkit/pkg/graph"
	"github.com/probkit/probkit/pkg/graphio"
	"github.com/probkit/probkit/pkg/model"
	"github.com/probkit/probkit/pkg/render/dot"
	"github.com/probkit/probkit/pkg/trace"
)

// Server exposes a model and trace store over HTTP. All endpoints are
// read-only; sampling happens out of band.
type Server struct {
	model  *model.Model
	store  trace.Store
	logger *log.Logger
}

// NewServer creates a server over the given model and store. A nil store
// serves empty trace endpoints; a nil logger falls back to log.Default().
func NewServer(m *model.Model, store trace.Store, logger *log.Logger) *Server {
	if store == nil {
		store = trace.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{model: m, store: store, logger: logger}
}

// Routes builds the HTTP routing table.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/graph/dot", s.handleGraphDOT)
		r.Get("/variables", s.handleVariables)
		r.Get("/variables/{name}", s.handleVariable)
		r.Get("/trace", s.handleTraceNames)
		r.Get("/trace/{name}", s.handleTraceSeries)
		r.Get("/trace/{name}/summary", s.handleTraceSummary)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, graphio.FromGraph(s.model.Graph()))
}

func (s *Server) handleGraphDOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot.ToDOT(s.model.Graph(), dot.Options{})))
}

// variableView is the JSON shape of a single variable.
type variableView struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Observed bool   `json:"observed"`
	Value    any    `json:"value,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) variableViewOf(v graph.Variable) variableView {
	out := variableView{
		Name:     v.Name(),
		Kind:     graphio.KindDeterministic,
		Observed: v.IsObserved(),
	}
	if v.IsStochastic() {
		out.Kind = graphio.KindStochastic
	}
	val, err := v.Value()
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Value = val
	return out
}

func (s *Server) handleVariables(w http.ResponseWriter, r *http.Request) {
	vars := s.model.Graph().Variables()
	out := make([]variableView, 0, len(vars))
	for _, v := range vars {
		out = append(out, s.variableViewOf(v))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleVariable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, ok := s.model.Graph().Variable(name)
	if !ok {
		s.respondError(w, http.StatusNotFound, "unknown variable: "+name)
		return
	}
	s.respondJSON(w, http.StatusOK, s.variableViewOf(v))
}

func (s *Server) handleTraceNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.Names(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	s.respondJSON(w, http.StatusOK, names)
}

func (s *Server) handleTraceSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	vals, err := s.store.Series(r.Context(), name)
	if err != nil {
		s.respondStoreError(w, name, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"name":   name,
		"values": vals,
	})
}

func (s *Server) handleTraceSummary(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	sum, err := trace.Summarize(r.Context(), s.store, name)
	if err != nil {
		s.respondStoreError(w, name, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sum)
}

func (s *Server) respondStoreError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, trace.ErrUnknownSeries) {
		s.respondError(w, http.StatusNotFound, "unknown series: "+name)
		return
	}
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}
