package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/calebmun/extcheck/internal/httpapi/middleware"
	"github.com/calebmun/extcheck/internal/runner"
)

// SuiteFunc builds a fresh, fully registered runner. Each diagnostics
// request gets its own runner so concurrent requests never share
// record state.
type SuiteFunc func() (*runner.Runner, error)

type Server struct {
	Logger *zap.Logger
	Suite  SuiteFunc
	Keys   middleware.Keys

	mu   sync.RWMutex
	last *runner.Report
}

func NewServer(l *zap.Logger, suite SuiteFunc, keys middleware.Keys) *Server {
	return &Server{Logger: l, Suite: suite, Keys: keys}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(g chi.Router) {
		g.Use(middleware.RequireAny(s.Keys))
		g.Get("/api/report", s.handleLastReport)
	})

	r.Group(func(g chi.Router) {
		g.Use(middleware.RequireAdmin(s.Keys))
		g.Use(middleware.RateLimit(30, 5))
		g.Post("/api/diagnostics", s.handleRunDiagnostics)
	})

	return r
}

func (s *Server) handleRunDiagnostics(w http.ResponseWriter, r *http.Request) {
	run, err := s.Suite()
	if err != nil {
		s.Logger.Error("suite_build_failed", zap.Error(err))
		http.Error(w, "suite not available", http.StatusInternalServerError)
		return
	}

	run.RunAll(r.Context())
	rep, err := run.Report()
	if err != nil {
		s.Logger.Error("report_failed", zap.Error(err))
		http.Error(w, "report error", http.StatusInternalServerError)
		return
	}
	s.SetLastReport(rep)

	s.Logger.Info("diagnostics_run",
		zap.String("run_id", rep.RunID),
		zap.Int("total", rep.Total),
		zap.Int("passed", rep.Passed),
		zap.Int("failed", rep.Failed),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

func (s *Server) handleLastReport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	rep := s.last
	s.mu.RUnlock()

	if rep == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no completed run"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

// SetLastReport publishes a completed report; the scheduler uses this
// for its periodic passes.
func (s *Server) SetLastReport(rep runner.Report) {
	s.mu.Lock()
	s.last = &rep
	s.mu.Unlock()
}
