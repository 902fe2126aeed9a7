package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/handwave/internal/store"
)

// MappingHandler manages site-specific gesture-to-action mappings.
type MappingHandler struct {
	store *store.Store
}

// NewMappingHandler creates a MappingHandler backed by the given store.
func NewMappingHandler(s *store.Store) *MappingHandler {
	return &MappingHandler{store: s}
}

type mappingRequest struct {
	SiteID  string `json:"site_id"`
	Gesture string `json:"gesture"`
	Action  string `json:"action"`
}

type mappingResponse struct {
	SiteID  string `json:"site_id"`
	Gesture string `json:"gesture"`
	Action  string `json:"action"`
	Created bool   `json:"created"`
}

// ServeHTTP handles /api/v1/config/mapping: POST upserts a mapping, GET
// lists a site's mappings via the site_id query parameter.
func (h *MappingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.upsert(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *MappingHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SiteID == "" || req.Gesture == "" || req.Action == "" {
		writeError(w, http.StatusBadRequest, "site_id, gesture and action are required")
		return
	}

	created, err := h.store.Mappings().Upsert(&store.Mapping{
		SiteID:  req.SiteID,
		Gesture: req.Gesture,
		Action:  req.Action,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save mapping")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, mappingResponse{
		SiteID:  req.SiteID,
		Gesture: req.Gesture,
		Action:  req.Action,
		Created: created,
	})
}

func (h *MappingHandler) list(w http.ResponseWriter, r *http.Request) {
	siteID := r.URL.Query().Get("site_id")
	if siteID == "" {
		writeError(w, http.StatusBadRequest, "site_id query parameter is required")
		return
	}

	mappings, err := h.store.Mappings().ListBySite(siteID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list mappings")
		return
	}

	out := make([]mappingResponse, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, mappingResponse{SiteID: m.SiteID, Gesture: m.Gesture, Action: m.Action})
	}
	writeJSON(w, http.StatusOK, map[string]any{"mappings": out})
}
