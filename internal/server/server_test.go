package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ayusman/kathakali/internal/tracker"
)

// fakeController records tracker commands for handler tests.
type fakeController struct {
	mu           sync.Mutex
	running      bool
	mouseEnabled bool
	fastMode     bool
	calibrated   int
	startErr     error
}

func newFakeController() *fakeController {
	return &fakeController{mouseEnabled: true}
}

func (f *fakeController) Start(block bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeController) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
}

func (f *fakeController) ToggleMouseControl() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mouseEnabled = !f.mouseEnabled
	return f.mouseEnabled
}

func (f *fakeController) CalibrateCenter() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calibrated++
}

func (f *fakeController) SetPerformanceMode(fast bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fastMode = fast
}

func (f *fakeController) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeController) Status() tracker.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return tracker.Status{
		Running:      f.running,
		MouseEnabled: f.mouseEnabled,
		FastMode:     f.fastMode,
		RawYaw:       180,
		RawPitch:     180,
		Yaw:          180,
		Pitch:        180,
	}
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestServer_TrackerStatus(t *testing.T) {
	ctrl := newFakeController()
	s := New(Config{Tracker: ctrl})

	req := httptest.NewRequest(http.MethodGet, "/api/tracker", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var status tracker.Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Running {
		t.Error("expected running=false before start")
	}
	if !status.MouseEnabled {
		t.Error("expected mouse_enabled=true by default")
	}
	if status.Yaw != 180 || status.Pitch != 180 {
		t.Errorf("expected centered pose 180/180, got %v/%v", status.Yaw, status.Pitch)
	}
}

func TestServer_TrackerCommands(t *testing.T) {
	post := func(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		return rec
	}

	t.Run("start and stop", func(t *testing.T) {
		ctrl := newFakeController()
		s := New(Config{Tracker: ctrl})

		rec := post(t, s, "/api/tracker/start", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("start: expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if !ctrl.IsRunning() {
			t.Error("tracker not running after start command")
		}

		rec = post(t, s, "/api/tracker/stop", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("stop: expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if ctrl.IsRunning() {
			t.Error("tracker still running after stop command")
		}
	})

	t.Run("start failure returns 500", func(t *testing.T) {
		ctrl := newFakeController()
		ctrl.startErr = errors.New("no camera")
		s := New(Config{Tracker: ctrl})

		rec := post(t, s, "/api/tracker/start", "")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
		}
	})

	t.Run("calibrate", func(t *testing.T) {
		ctrl := newFakeController()
		s := New(Config{Tracker: ctrl})

		rec := post(t, s, "/api/tracker/calibrate", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if ctrl.calibrated != 1 {
			t.Errorf("calibrated %d times, want 1", ctrl.calibrated)
		}
	})

	t.Run("mouse toggle", func(t *testing.T) {
		ctrl := newFakeController()
		s := New(Config{Tracker: ctrl})

		rec := post(t, s, "/api/tracker/mouse", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var status tracker.Status
		if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if status.MouseEnabled {
			t.Error("expected mouse_enabled=false after toggle")
		}
	})

	t.Run("performance mode", func(t *testing.T) {
		ctrl := newFakeController()
		s := New(Config{Tracker: ctrl})

		rec := post(t, s, "/api/tracker/performance", `{"fast":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if !ctrl.fastMode {
			t.Error("expected fast mode after performance command")
		}

		rec = post(t, s, "/api/tracker/performance", "not json")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("invalid JSON: expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		ctrl := newFakeController()
		s := New(Config{Tracker: ctrl})

		rec := post(t, s, "/api/tracker/reboot", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("commands require POST", func(t *testing.T) {
		ctrl := newFakeController()
		s := New(Config{Tracker: ctrl})

		req := httptest.NewRequest(http.MethodGet, "/api/tracker/start", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}
