// Package api exposes the daemon's HTTP surface: trigger scans, read cached
// assessment runs, stream progress over websockets.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"sqlfleet/pkg/model"
	"sqlfleet/pkg/store"
)

// ScanFunc runs one full fleet scan and returns the finished run.
type ScanFunc func(ctx context.Context) (model.AssessmentRun, error)

// Server wires the daemon routes. DB is optional; without it only the
// static bootstrap token authenticates requests.
type Server struct {
	Store store.RunStore
	DB    *gorm.DB
	Token string
	Hub   *WSHub
	Scan  ScanFunc

	scanning atomic.Bool
}

// RegisterRoutes attaches all handlers to the router.
func (s *Server) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	api.HandleFunc("/runs", s.requireAuth(s.handleTriggerScan)).Methods(http.MethodPost)
	api.HandleFunc("/runs", s.requireAuth(s.handleListRuns)).Methods(http.MethodGet)
	api.HandleFunc("/runs/latest", s.requireAuth(s.handleLatestRun)).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}", s.requireAuth(s.handleGetRun)).Methods(http.MethodGet)
	api.HandleFunc("/ws/progress", s.Hub.HandleProgress)
}

// handleTriggerScan starts a scan in the background; one at a time.
func (s *Server) handleTriggerScan(w http.ResponseWriter, _ *http.Request) {
	if s.Scan == nil {
		http.Error(w, "scanning not configured", http.StatusServiceUnavailable)
		return
	}
	if !s.scanning.CompareAndSwap(false, true) {
		http.Error(w, "a scan is already running", http.StatusConflict)
		return
	}
	go func() {
		defer s.scanning.Store(false)
		runResult, err := s.Scan(context.Background())
		if err != nil {
			log.Printf("scan failed: %v", err)
			return
		}
		if err := s.Store.SaveRun(runResult); err != nil {
			log.Printf("save run %s failed: %v", runResult.ID, err)
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleLatestRun(w http.ResponseWriter, _ *http.Request) {
	runResult, ok, err := s.Store.LatestRun()
	if err != nil {
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "no runs recorded", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, runResult)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	runResult, ok, err := s.Store.GetRun(id)
	if err != nil {
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, runResult)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	runs, err := s.Store.ListRuns(limit)
	if err != nil {
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	// strip report bodies from the listing; fetch a run by id for detail
	type runMeta struct {
		ID        string `json:"id"`
		StartedAt string `json:"startedAt"`
		Targets   int    `json:"targets"`
		Failed    int    `json:"failedTargets"`
		Instances int    `json:"instances"`
	}
	metas := make([]runMeta, 0, len(runs))
	for _, rn := range runs {
		metas = append(metas, runMeta{
			ID:        rn.ID,
			StartedAt: rn.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Targets:   rn.Targets,
			Failed:    rn.Failed,
			Instances: len(rn.Reports),
		})
	}
	writeJSON(w, http.StatusOK, metas)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
