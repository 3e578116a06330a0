// Package api provides HTTP API handlers for the Kathakali head tracking system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/kathakali/internal/store"
)

// ProfileHandler handles HTTP requests for tracking profile resources.
type ProfileHandler struct {
	store *store.Store
}

// NewProfileHandler creates a new ProfileHandler with the given store.
func NewProfileHandler(s *store.Store) *ProfileHandler {
	return &ProfileHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/profiles, /api/profiles/{id}, /api/profiles/{id}/activate
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/profiles
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Activation endpoint: /api/profiles/{id}/activate
	if id, ok := strings.CutSuffix(path, "/activate"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.activate(w, r, id)
		return
	}

	// Item endpoint: /api/profiles/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type profileRequest struct {
	Name          string   `json:"name"`
	CameraID      *int     `json:"camera_id"`
	YawRange      float64  `json:"yaw_range"`
	PitchRange    float64  `json:"pitch_range"`
	RayBufferLen  int      `json:"ray_buffer_len"`
	FastMode      *bool    `json:"fast_mode"`
	EuroMinCutoff *float64 `json:"euro_min_cutoff"`
	EuroBeta      *float64 `json:"euro_beta"`
	EuroFreq      *float64 `json:"euro_freq"`
}

type profileResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	CameraID      int      `json:"camera_id"`
	YawRange      float64  `json:"yaw_range"`
	PitchRange    float64  `json:"pitch_range"`
	RayBufferLen  int      `json:"ray_buffer_len"`
	FastMode      bool     `json:"fast_mode"`
	EuroMinCutoff *float64 `json:"euro_min_cutoff,omitempty"`
	EuroBeta      *float64 `json:"euro_beta,omitempty"`
	EuroFreq      *float64 `json:"euro_freq,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Profile to a profileResponse.
func toResponse(p *store.Profile) profileResponse {
	return profileResponse{
		ID:            p.ID,
		Name:          p.Name,
		CameraID:      p.CameraID,
		YawRange:      p.YawRange,
		PitchRange:    p.PitchRange,
		RayBufferLen:  p.RayBufferLen,
		FastMode:      p.FastMode,
		EuroMinCutoff: p.EuroMinCutoff,
		EuroBeta:      p.EuroBeta,
		EuroFreq:      p.EuroFreq,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/profiles and returns all profiles.
func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}

	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/profiles/{id} and returns a single profile.
func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}

// create handles POST /api/profiles and creates a new profile.
func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate required fields
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	// Apply tracker defaults for omitted tuning values
	if req.YawRange == 0 {
		req.YawRange = 20
	}
	if req.PitchRange == 0 {
		req.PitchRange = 10
	}
	if req.RayBufferLen == 0 {
		req.RayBufferLen = 40
	}

	profile := &store.Profile{
		ID:            uuid.New().String(),
		Name:          req.Name,
		YawRange:      req.YawRange,
		PitchRange:    req.PitchRange,
		RayBufferLen:  req.RayBufferLen,
		EuroMinCutoff: req.EuroMinCutoff,
		EuroBeta:      req.EuroBeta,
		EuroFreq:      req.EuroFreq,
	}
	if req.CameraID != nil {
		profile.CameraID = *req.CameraID
	}
	if req.FastMode != nil {
		profile.FastMode = *req.FastMode
	}

	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(profile))
}

// update handles PUT /api/profiles/{id} and updates an existing profile.
func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	// First, get the existing profile
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Update fields if provided
	if req.Name != "" {
		profile.Name = req.Name
	}
	if req.CameraID != nil {
		profile.CameraID = *req.CameraID
	}
	if req.YawRange != 0 {
		profile.YawRange = req.YawRange
	}
	if req.PitchRange != 0 {
		profile.PitchRange = req.PitchRange
	}
	if req.RayBufferLen != 0 {
		profile.RayBufferLen = req.RayBufferLen
	}
	if req.FastMode != nil {
		profile.FastMode = *req.FastMode
	}
	if req.EuroMinCutoff != nil {
		profile.EuroMinCutoff = req.EuroMinCutoff
	}
	if req.EuroBeta != nil {
		profile.EuroBeta = req.EuroBeta
	}
	if req.EuroFreq != nil {
		profile.EuroFreq = req.EuroFreq
	}

	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}

// delete handles DELETE /api/profiles/{id} and removes a profile.
func (h *ProfileHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Profiles().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// activate handles POST /api/profiles/{id}/activate and marks the profile as
// the one the tracker loads on startup.
func (h *ProfileHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	if err := h.store.Settings().Set(store.ActiveProfileKey, profile.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to activate profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}
