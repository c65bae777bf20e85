package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"birthday-countdown/internal/domain"
	"birthday-countdown/internal/logging"
	"birthday-countdown/internal/usecase"
)

// Server is a primary adapter that exposes HTTP API + UI.
// It depends on the use case (primary port).
type Server struct {
	usecase usecase.CountdownUseCase
	server  *http.Server
	router  *mux.Router

	mu       sync.RWMutex
	videoURL string
}

// NewServer creates the HTTP server bound to addr. metrics may be nil.
func NewServer(uc usecase.CountdownUseCase, addr, videoURL string, metrics http.Handler) *Server {
	srv := &Server{
		usecase:  uc,
		router:   mux.NewRouter(),
		videoURL: videoURL,
	}

	srv.router.HandleFunc("/api/countdown", srv.handleCountdown).Methods(http.MethodGet)
	srv.router.HandleFunc("/api/target", srv.handleTarget).Methods(http.MethodPut)
	srv.router.HandleFunc("/api/start", srv.handleStart).Methods(http.MethodPost)
	srv.router.HandleFunc("/api/stop", srv.handleStop).Methods(http.MethodPost)
	srv.router.HandleFunc("/healthz", srv.handleHealth).Methods(http.MethodGet)
	if metrics != nil {
		srv.router.Handle("/metrics", metrics).Methods(http.MethodGet)
	}
	srv.router.HandleFunc("/", srv.handleRoot).Methods(http.MethodGet)
	srv.router.Use(loggingMiddleware)

	srv.server = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetVideoURL swaps the celebration video shown after expiry.
func (s *Server) SetVideoURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videoURL = url
}

func (s *Server) currentVideoURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.videoURL
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleCountdown(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.snapshotToView(s.usecase.Snapshot()))
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	var req targetPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	snap := s.usecase.SetTargetInput(req.Target)
	respondJSON(w, http.StatusOK, s.snapshotToView(snap))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	snap, err := s.usecase.Start()
	switch {
	case errors.Is(err, domain.ErrMissingTarget):
		view := s.snapshotToView(snap)
		view["error"] = domain.MissingTargetMessage
		respondJSON(w, http.StatusBadRequest, view)
	case err != nil:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		respondJSON(w, http.StatusOK, s.snapshotToView(snap))
	}
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.usecase.Stop()
	respondJSON(w, http.StatusOK, s.snapshotToView(s.usecase.Snapshot()))
}

func (s *Server) snapshotToView(snap domain.Snapshot) map[string]any {
	view := map[string]any{
		"days":            snap.Remaining.Days,
		"hours":           snap.Remaining.Hours,
		"minutes":         snap.Remaining.Minutes,
		"seconds":         snap.Remaining.Seconds,
		"expired":         snap.Expired,
		"validationError": snap.ValidationError,
		"running":         snap.Running,
		"videoUrl":        s.currentVideoURL(),
	}
	if snap.HasTarget {
		view["target"] = domain.FormatInput(snap.Target)
		view["runId"] = snap.RunID
	}
	if snap.ValidationError {
		view["message"] = domain.MissingTargetMessage
	}
	return view
}

type targetPayload struct {
	Target string `json:"target"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debugf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
