package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/calebmun/extcheck/internal/httpapi/middleware"
	"github.com/calebmun/extcheck/internal/probe"
	"github.com/calebmun/extcheck/internal/runner"
)

func testSuite() (*runner.Runner, error) {
	r := runner.New(zap.NewNop())
	if err := r.Register(probe.Func{ProbeName: "ok", Fn: func(ctx context.Context) (probe.Payload, error) {
		return probe.Payload{}, nil
	}}); err != nil {
		return nil, err
	}
	if err := r.Register(probe.Func{ProbeName: "bad", Fn: func(ctx context.Context) (probe.Payload, error) {
		return nil, errors.New("down")
	}}); err != nil {
		return nil, err
	}
	return r, nil
}

func TestHealthz(t *testing.T) {
	s := NewServer(zap.NewNop(), testSuite, middleware.Keys{})
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rr.Code)
	}
}

func TestRunDiagnostics_ReturnsReport(t *testing.T) {
	s := NewServer(zap.NewNop(), testSuite, middleware.Keys{})
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/diagnostics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var rep runner.Report
	if err := json.NewDecoder(rr.Body).Decode(&rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Total != 2 || rep.Passed != 1 || rep.Failed != 1 {
		t.Fatalf("counts wrong: %+v", rep)
	}
	if rep.SuccessRate != 50 {
		t.Fatalf("want 50%%, got %d", rep.SuccessRate)
	}
}

func TestLastReport_404BeforeFirstRun(t *testing.T) {
	s := NewServer(zap.NewNop(), testSuite, middleware.Keys{})
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/report", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rr.Code)
	}
}

func TestLastReport_ServesAfterRun(t *testing.T) {
	s := NewServer(zap.NewNop(), testSuite, middleware.Keys{})

	run := httptest.NewRecorder()
	s.Router().ServeHTTP(run, httptest.NewRequest(http.MethodPost, "/api/diagnostics", nil))
	if run.Code != http.StatusOK {
		t.Fatalf("diagnostics run failed: %d", run.Code)
	}

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/report", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rr.Code)
	}
	var rep runner.Report
	if err := json.NewDecoder(rr.Body).Decode(&rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Total != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestRunDiagnostics_RequiresAdminKey(t *testing.T) {
	keys := middleware.Keys{Public: []string{"pub"}, Admin: []string{"adm"}}
	s := NewServer(zap.NewNop(), testSuite, keys)
	router := s.Router()

	// no key -> 403
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/diagnostics", nil))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("want 403 without key, got %d", rr.Code)
	}

	// public key -> still 403
	req := httptest.NewRequest(http.MethodPost, "/api/diagnostics", nil)
	req.Header.Set("X-API-Key", "pub")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("want 403 with public key, got %d", rr.Code)
	}

	// admin key -> 200
	req = httptest.NewRequest(http.MethodPost, "/api/diagnostics", nil)
	req.Header.Set("X-API-Key", "adm")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("want 200 with admin key, got %d", rr.Code)
	}
}

func TestRunDiagnostics_SuiteBuildError(t *testing.T) {
	broken := func() (*runner.Runner, error) { return nil, errors.New("bad wiring") }
	s := NewServer(zap.NewNop(), broken, middleware.Keys{})
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/diagnostics", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rr.Code)
	}
}
