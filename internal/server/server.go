// Package server exposes a local HTTP trigger surface: pipelines are
// submitted as YAML, run directly or via events, and completed runs are
// queried from the journal. Runs execute synchronously in the handler;
// there is no worker scheduling.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"linerun/internal/core"
	"linerun/internal/logging"
	"linerun/internal/storage"
)

type Server struct {
	mu        sync.Mutex
	runner    *core.Runner
	journal   *storage.Journal
	log       *logging.Logger
	pipelines map[string]*core.Pipeline
	order     []string // pipeline IDs in registration order
}

func New(runner *core.Runner, journal *storage.Journal, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{
		runner:    runner,
		journal:   journal,
		log:       log,
		pipelines: make(map[string]*core.Pipeline),
	}
}

// Routes builds the chi router for the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/pipelines", s.handleSubmitPipeline)
	r.Get("/pipelines/{id}", s.handleGetPipeline)
	r.Post("/pipelines/{id}/run", s.handleRunPipeline)
	r.Post("/events", s.handleEvent)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/journal/verify", s.handleVerifyJournal)
	return r
}

// ListenAndServe starts the HTTP server on addr. Blocks until it fails.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Routes())
}

// POST /pipelines -> register a pipeline from YAML
func (s *Server) handleSubmitPipeline(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}
	pipeline, err := core.ParsePipeline(data)
	if err != nil {
		http.Error(w, "invalid pipeline: "+err.Error(), http.StatusBadRequest)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.pipelines[id] = pipeline
	s.order = append(s.order, id)
	s.mu.Unlock()

	s.log.Info("pipeline registered", "pipeline_id", id, "name", pipeline.Name)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    id,
		"name":  pipeline.Name,
		"steps": len(pipeline.Steps),
	})
}

// GET /pipelines/{id}
func (s *Server) handleGetPipeline(w http.ResponseWriter, r *http.Request) {
	pipeline, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "pipeline not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, pipeline)
}

// POST /pipelines/{id}/run -> run now, synchronously
func (s *Server) handleRunPipeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pipeline, ok := s.lookup(id)
	if !ok {
		http.Error(w, "pipeline not found", http.StatusNotFound)
		return
	}

	// A failed run is still a completed request: the outcome travels in
	// the body, not the HTTP status.
	run, err := s.runner.RunPipeline(r.Context(), pipeline)
	if err != nil {
		s.log.Warn("pipeline run failed", "pipeline_id", id, "run_id", run.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, run)
}

type eventRequest struct {
	Kind string `json:"kind"`
}

type eventRunSummary struct {
	PipelineID string `json:"pipelineId"`
	RunID      string `json:"runId"`
	Success    bool   `json:"success"`
	FailedStep int    `json:"failedStep"`
}

// POST /events -> run every registered pipeline whose triggers match
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev eventRequest
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil || ev.Kind == "" {
		http.Error(w, "bad event", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	type candidate struct {
		id       string
		pipeline *core.Pipeline
	}
	var matched []candidate
	for _, id := range s.order {
		if p := s.pipelines[id]; p.Fires(ev.Kind) {
			matched = append(matched, candidate{id, p})
		}
	}
	s.mu.Unlock()

	summaries := make([]eventRunSummary, 0, len(matched))
	for _, c := range matched {
		run, err := s.runner.RunForEvent(r.Context(), c.pipeline, ev.Kind)
		if err != nil {
			s.log.Warn("triggered run failed", "pipeline_id", c.id, "run_id", run.ID, "error", err)
		}
		summaries = append(summaries, eventRunSummary{
			PipelineID: c.id,
			RunID:      run.ID,
			Success:    run.Success,
			FailedStep: run.FailedStep,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"kind": ev.Kind,
		"runs": summaries,
	})
}

// GET /runs -> journal records, append order
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.journal.Records())
}

// GET /runs/{id}
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	run, ok := s.journal.FindRun(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(run)
}

// GET /journal/verify
func (s *Server) handleVerifyJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}
	if err := s.journal.Verify(); err != nil {
		http.Error(w, "journal verification failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) lookup(id string) (*core.Pipeline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pipelines[id]
	return p, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
