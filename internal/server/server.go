// Package server provides the HTTP control surface for the Kathakali head tracking system.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/kathakali/internal/capture"
	"github.com/ayusman/kathakali/internal/server/api"
	"github.com/ayusman/kathakali/internal/store"
	"github.com/ayusman/kathakali/internal/tracker"
)

// Controller is the narrow tracker surface the server drives. It is
// satisfied by *tracker.Tracker and by test fakes.
type Controller interface {
	Start(block bool) error
	Stop()
	ToggleMouseControl() bool
	CalibrateCenter()
	SetPerformanceMode(fast bool)
	IsRunning() bool
	Status() tracker.Status
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Tracker   Controller
	Camera    capture.Camera
}

// Server represents the HTTP server for the Kathakali application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register profile API handler if Store is configured
	if s.config.Store != nil {
		profileHandler := api.NewProfileHandler(s.config.Store)
		s.mux.Handle("/api/profiles", profileHandler)
		s.mux.Handle("/api/profiles/", profileHandler)
	}

	// Register tracker control and pose streaming if Tracker is configured
	if s.config.Tracker != nil {
		s.mux.HandleFunc("/api/tracker", s.handleTrackerStatus)
		s.mux.HandleFunc("/api/tracker/", s.handleTrackerCommand)

		poseHandler := NewPoseHandler(s.config.Tracker)
		s.mux.Handle("/api/pose", poseHandler)
	}

	// Register camera preview endpoint if Camera is configured
	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleTrackerStatus handles GET /api/tracker and returns the tracker state.
func (s *Server) handleTrackerStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.config.Tracker.Status())
}

type performanceRequest struct {
	Fast bool `json:"fast"`
}

// handleTrackerCommand handles POST /api/tracker/{command}.
// Commands: start, stop, calibrate, mouse (toggle), performance.
func (s *Server) handleTrackerCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	command := strings.TrimPrefix(r.URL.Path, "/api/tracker/")

	switch command {
	case "start":
		if err := s.config.Tracker.Start(false); err != nil {
			http.Error(w, "Failed to start tracker: "+err.Error(), http.StatusInternalServerError)
			return
		}
	case "stop":
		s.config.Tracker.Stop()
	case "calibrate":
		s.config.Tracker.CalibrateCenter()
	case "mouse":
		s.config.Tracker.ToggleMouseControl()
	case "performance":
		var req performanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		s.config.Tracker.SetPerformanceMode(req.Fast)
	default:
		http.Error(w, "Unknown command", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.config.Tracker.Status())
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
