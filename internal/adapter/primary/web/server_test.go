package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"birthday-countdown/internal/adapter/secondary/clock"
	"birthday-countdown/internal/domain"
	"birthday-countdown/internal/metrics"
	"birthday-countdown/internal/usecase"
)

type countdownView struct {
	Target          string `json:"target"`
	RunID           string `json:"runId"`
	Days            int    `json:"days"`
	Hours           int    `json:"hours"`
	Minutes         int    `json:"minutes"`
	Seconds         int    `json:"seconds"`
	Expired         bool   `json:"expired"`
	ValidationError bool   `json:"validationError"`
	Running         bool   `json:"running"`
	Message         string `json:"message"`
	Error           string `json:"error"`
	VideoURL        string `json:"videoUrl"`
}

func newTestServer(t *testing.T) (*Server, *clock.ManualClock, *metrics.Recorder) {
	t.Helper()
	clk := clock.NewManualClock(time.Date(2026, 4, 10, 8, 0, 0, 0, time.Local))
	uc, err := usecase.NewCountdownUseCase(clk, time.Second)
	if err != nil {
		t.Fatalf("NewCountdownUseCase() error = %v", err)
	}
	t.Cleanup(uc.Close)
	rec := metrics.NewRecorder()
	uc.Subscribe(rec)
	return NewServer(uc, "127.0.0.1:0", "https://example.com/video", rec.Handler()), clk, rec
}

func do(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, countdownView) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var view countdownView
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return rec, view
}

func TestStart_WithoutTarget(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec, view := do(t, srv, http.MethodPost, "/api/start", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !view.ValidationError || view.Error != domain.MissingTargetMessage {
		t.Errorf("view = %+v, want validation error message", view)
	}
	if view.Running {
		t.Error("running without target")
	}

	_, view = do(t, srv, http.MethodGet, "/api/countdown", "")
	if !view.ValidationError || view.Message != domain.MissingTargetMessage {
		t.Errorf("countdown view = %+v, want persistent validation message", view)
	}
}

func TestSetTarget_AndCountdown(t *testing.T) {
	srv, clk, _ := newTestServer(t)

	target := domain.FormatInput(clk.Now().Add(90061 * time.Second))
	rec, view := do(t, srv, http.MethodPut, "/api/target", `{"target":"`+target+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if view.Days != 1 || view.Hours != 1 || view.Minutes != 1 || view.Seconds != 1 {
		t.Errorf("view = %+v, want 1/1/1/1", view)
	}
	if !view.Running || view.Target != target || view.RunID == "" {
		t.Errorf("view = %+v", view)
	}
	if view.VideoURL != "https://example.com/video" {
		t.Errorf("videoUrl = %q", view.VideoURL)
	}

	_, stopped := do(t, srv, http.MethodPost, "/api/stop", "")
	if stopped.Running {
		t.Error("still running after stop")
	}
	_, started := do(t, srv, http.MethodPost, "/api/start", "")
	if !started.Running || started.RunID != view.RunID {
		t.Errorf("restart view = %+v", started)
	}
}

func TestSetTarget_Past(t *testing.T) {
	srv, clk, _ := newTestServer(t)

	target := domain.FormatInput(clk.Now().Add(-time.Hour))
	_, view := do(t, srv, http.MethodPut, "/api/target", `{"target":"`+target+`"}`)
	if !view.Expired || view.Running {
		t.Errorf("view = %+v, want expired and stopped", view)
	}
	if view.Days+view.Hours+view.Minutes+view.Seconds != 0 {
		t.Errorf("view = %+v, want all zero", view)
	}
}

func TestSetTarget_EmptyClears(t *testing.T) {
	srv, clk, _ := newTestServer(t)

	target := domain.FormatInput(clk.Now().Add(time.Hour))
	do(t, srv, http.MethodPut, "/api/target", `{"target":"`+target+`"}`)
	_, view := do(t, srv, http.MethodPut, "/api/target", `{"target":""}`)
	if view.Target != "" || view.Running {
		t.Errorf("view = %+v, want cleared", view)
	}
}

func TestSetTarget_BadJSON(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec, _ := do(t, srv, http.MethodPut, "/api/target", `{`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		method, path string
	}{
		{http.MethodDelete, "/api/countdown"},
		{http.MethodPost, "/api/countdown"},
		{http.MethodGet, "/api/target"},
		{http.MethodGet, "/api/start"},
		{http.MethodPut, "/api/stop"},
	}
	for _, tt := range tests {
		rec, _ := do(t, srv, tt.method, tt.path, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status = %d, want 405", tt.method, tt.path, rec.Code)
		}
	}

	rec, _ := do(t, srv, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route: status = %d, want 404", rec.Code)
	}
}

func TestSetVideoURL(t *testing.T) {
	srv, _, _ := newTestServer(t)
	srv.SetVideoURL("https://example.com/other")
	_, view := do(t, srv, http.MethodGet, "/api/countdown", "")
	if view.VideoURL != "https://example.com/other" {
		t.Errorf("videoUrl = %q", view.VideoURL)
	}
}

func TestRootAndMetrics(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec, _ := do(t, srv, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `type="datetime-local"`) {
		t.Errorf("index: status %d", rec.Code)
	}

	do(t, srv, http.MethodPost, "/api/start", "")
	rec, _ = do(t, srv, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), "birthday_countdown_validation_errors_total 1") {
		t.Errorf("metrics missing validation error count:\n%s", rec.Body.String())
	}

	rec, _ = do(t, srv, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
}
