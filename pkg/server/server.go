// Package server exposes workflow state and dashboard views as JSON.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/xrsl/careerflow/pkg/app"
	"github.com/xrsl/careerflow/pkg/catalog"
	clog "github.com/xrsl/careerflow/pkg/log"
	"github.com/xrsl/careerflow/pkg/workflow"
)

const defaultLimit = 3

// Server serves the dashboard views, workflow store and outcome tracker as
// JSON, plus health and Prometheus endpoints.
type Server struct {
	app    *app.App
	router *mux.Router
}

// New registers every route against a.
func New(a *app.App) *Server {
	s := &Server{app: a, router: mux.NewRouter()}
	s.routes()
	return s
}

// Handler returns the router for use with an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.observe)

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", s.app.Metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog", s.catalog).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)
	api.HandleFunc("/analytics", s.analytics).Methods(http.MethodGet)
	api.HandleFunc("/performance", s.performance).Methods(http.MethodGet)
	api.HandleFunc("/recommendations", s.recommendations).Methods(http.MethodGet)
	api.HandleFunc("/outcomes", s.outcomes).Methods(http.MethodGet)
	api.HandleFunc("/outcomes/reconcile", s.reconcile).Methods(http.MethodPost)
	api.HandleFunc("/impact", s.impact).Methods(http.MethodGet)

	api.HandleFunc("/context", s.getContext).Methods(http.MethodGet)
	api.HandleFunc("/context", s.setContext).Methods(http.MethodPut)
	api.HandleFunc("/context", s.clearContext).Methods(http.MethodDelete)

	api.HandleFunc("/workflows", s.listWorkflows).Methods(http.MethodGet)
	api.HandleFunc("/workflows/{id}", s.getWorkflow).Methods(http.MethodGet)
	api.HandleFunc("/workflows/{id}", s.initWorkflow).Methods(http.MethodPost)
	api.HandleFunc("/workflows/{id}/next", s.nextStep).Methods(http.MethodGet)
	api.HandleFunc("/workflows/{id}/complete", s.completeWorkflow).Methods(http.MethodPost)
	api.HandleFunc("/workflows/{id}/steps/{step}", s.updateStep).Methods(http.MethodPut)
	api.HandleFunc("/workflows/{id}/impact", s.workflowImpact).Methods(http.MethodGet)
	api.HandleFunc("/workflows/{id}/roi", s.workflowROI).Methods(http.MethodGet)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// observe logs each request and records it under its route template.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)
		s.app.Metrics.RecordHTTPRequest(r.Method, route, rec.status, elapsed)
		clog.Debug("http request", "method", r.Method, "route", route, "status", rec.status, "elapsed", elapsed)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		clog.Warn("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	return strconv.Atoi(raw)
}

// workflowID resolves {id}; it writes a 404 and returns false for ids outside
// the catalog.
func workflowID(w http.ResponseWriter, r *http.Request) (catalog.WorkflowID, bool) {
	id, err := catalog.ParseID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", false
	}
	return id, true
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) catalog(w http.ResponseWriter, _ *http.Request) {
	type item struct {
		catalog.Definition
		Steps []catalog.StepTemplate `json:"steps"`
	}
	defs := catalog.Definitions()
	out := make([]item, 0, len(defs))
	for _, d := range defs {
		steps, _ := catalog.Steps(d.ID)
		out = append(out, item{Definition: d, Steps: steps})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	view := s.app.Board.Load(r.Context(), limit)
	s.app.Metrics.RecommendationsServed(len(view.Recommendations))
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) analytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Board.Analytics(r.Context()))
}

func (s *Server) performance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Board.Performance(r.Context()))
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	recs := s.app.Engine.Recommendations(r.Context(), limit)
	s.app.Metrics.RecommendationsServed(len(recs))
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) outcomes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Outcomes.Outcomes(r.Context()))
}

func (s *Server) reconcile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Outcomes.CheckAndTrack(r.Context()))
}

func (s *Server) impact(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Outcomes.AllImpactMetrics(r.Context()))
}

func (s *Server) getContext(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Workflows.Context(r.Context()))
}

func (s *Server) setContext(w http.ResponseWriter, r *http.Request) {
	var bag workflow.Context
	if err := json.NewDecoder(r.Body).Decode(&bag); err != nil {
		writeError(w, http.StatusBadRequest, "invalid context body")
		return
	}
	s.app.Workflows.SetContext(r.Context(), bag)
	writeJSON(w, http.StatusOK, s.app.Workflows.Context(r.Context()))
}

func (s *Server) clearContext(w http.ResponseWriter, r *http.Request) {
	s.app.Workflows.ClearContext(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Workflows.All(r.Context()))
}

func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	id, ok := workflowID(w, r)
	if !ok {
		return
	}
	wf, found := s.app.Workflows.Get(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "workflow not started")
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (s *Server) initWorkflow(w http.ResponseWriter, r *http.Request) {
	id, ok := workflowID(w, r)
	if !ok {
		return
	}
	wf, err := s.app.Workflows.Initialize(r.Context(), id)
	if errors.Is(err, workflow.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, wf)
}

func (s *Server) nextStep(w http.ResponseWriter, r *http.Request) {
	id, ok := workflowID(w, r)
	if !ok {
		return
	}
	step, found := s.app.Workflows.NextStep(r.Context(), id)
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

func (s *Server) completeWorkflow(w http.ResponseWriter, r *http.Request) {
	id, ok := workflowID(w, r)
	if !ok {
		return
	}
	wf, found := s.app.Workflows.Complete(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "workflow not started")
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

type stepUpdate struct {
	Status   workflow.StepStatus    `json:"status"`
	Metadata *workflow.StepMetadata `json:"metadata,omitempty"`
}

func (s *Server) updateStep(w http.ResponseWriter, r *http.Request) {
	id, ok := workflowID(w, r)
	if !ok {
		return
	}
	var body stepUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid step update body")
		return
	}
	if !body.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status: "+string(body.Status))
		return
	}
	wf := s.app.Workflows.UpdateStepStatus(r.Context(), id, mux.Vars(r)["step"], body.Status, body.Metadata)
	if wf == nil {
		writeError(w, http.StatusNotFound, "workflow or step not found")
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

func (s *Server) workflowImpact(w http.ResponseWriter, r *http.Request) {
	id, ok := workflowID(w, r)
	if !ok {
		return
	}
	imp, found := s.app.Outcomes.ImpactMetrics(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "no outcome recorded")
		return
	}
	writeJSON(w, http.StatusOK, imp)
}

func (s *Server) workflowROI(w http.ResponseWriter, r *http.Request) {
	id, ok := workflowID(w, r)
	if !ok {
		return
	}
	roi, found := s.app.Outcomes.CalculateROI(r.Context(), id)
	if !found {
		writeError(w, http.StatusNotFound, "no outcome recorded")
		return
	}
	writeJSON(w, http.StatusOK, roi)
}
