package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/handwave/internal/store"
)

// SiteConfigHandler serves per-site engine configuration. Sites are created
// with defaults on first read, so a fresh client always gets a usable
// (cursor-mode-disabled) config.
type SiteConfigHandler struct {
	store *store.Store
}

// NewSiteConfigHandler creates a SiteConfigHandler backed by the given store.
func NewSiteConfigHandler(s *store.Store) *SiteConfigHandler {
	return &SiteConfigHandler{store: s}
}

// siteConfigUpdate mirrors store.SiteConfigUpdate on the wire. Absent fields
// leave the stored value unchanged. SiteID identifies the site when the
// request path does not.
type siteConfigUpdate struct {
	SiteID              string   `json:"site_id"`
	Profile             *string  `json:"profile"`
	CursorModeEnabled   *bool    `json:"cursor_mode_enabled"`
	ConfidenceThreshold *float64 `json:"confidence_threshold"`
	CooldownMs          *int     `json:"cooldown_ms"`
	CursorSpeed         *float64 `json:"cursor_speed"`
	ScrollSpeed         *float64 `json:"scroll_speed"`
	EnterHoldMs         *int     `json:"enter_hold_ms"`
	ExitHoldMs          *int     `json:"exit_hold_ms"`
	EnabledGestures     []string `json:"enabled_gestures"`
}

type siteConfigResponse struct {
	SiteID              string   `json:"site_id"`
	Profile             string   `json:"profile"`
	CursorModeEnabled   bool     `json:"cursor_mode_enabled"`
	ConfidenceThreshold float64  `json:"confidence_threshold"`
	CooldownMs          int      `json:"cooldown_ms"`
	CursorSpeed         float64  `json:"cursor_speed"`
	ScrollSpeed         float64  `json:"scroll_speed"`
	EnterHoldMs         int      `json:"enter_hold_ms"`
	ExitHoldMs          int      `json:"exit_hold_ms"`
	EnabledGestures     []string `json:"enabled_gestures"`
}

func toSiteConfigResponse(cfg *store.SiteConfig) siteConfigResponse {
	return siteConfigResponse{
		SiteID:              cfg.SiteID,
		Profile:             cfg.Profile,
		CursorModeEnabled:   cfg.CursorModeEnabled,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		CooldownMs:          cfg.CooldownMs,
		CursorSpeed:         cfg.CursorSpeed,
		ScrollSpeed:         cfg.ScrollSpeed,
		EnterHoldMs:         cfg.EnterHoldMs,
		ExitHoldMs:          cfg.ExitHoldMs,
		EnabledGestures:     cfg.EnabledGestures,
	}
}

// ServeHTTP routes site-config requests. GET /api/v1/config/site/{id}
// returns the config, creating defaults for an unknown site. POST applies a
// partial update; the site comes from the path, or from the body's site_id
// when the bare /api/v1/config/site form is used.
func (h *SiteConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	siteID := strings.TrimPrefix(r.URL.Path, "/api/v1/config/site")
	siteID = strings.Trim(siteID, "/")

	switch r.Method {
	case http.MethodGet:
		if siteID == "" {
			writeError(w, http.StatusBadRequest, "Site ID is required")
			return
		}
		h.get(w, siteID)
	case http.MethodPost:
		h.update(w, r, siteID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SiteConfigHandler) get(w http.ResponseWriter, siteID string) {
	cfg, err := h.store.SiteConfigs().GetOrCreate(siteID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load site config")
		return
	}
	writeJSON(w, http.StatusOK, toSiteConfigResponse(cfg))
}

func (h *SiteConfigHandler) update(w http.ResponseWriter, r *http.Request, siteID string) {
	var req siteConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if siteID == "" {
		siteID = req.SiteID
	}
	if siteID == "" {
		writeError(w, http.StatusBadRequest, "Site ID is required")
		return
	}

	cfg, err := h.store.SiteConfigs().Update(siteID, &store.SiteConfigUpdate{
		Profile:             req.Profile,
		CursorModeEnabled:   req.CursorModeEnabled,
		ConfidenceThreshold: req.ConfidenceThreshold,
		CooldownMs:          req.CooldownMs,
		CursorSpeed:         req.CursorSpeed,
		ScrollSpeed:         req.ScrollSpeed,
		EnterHoldMs:         req.EnterHoldMs,
		ExitHoldMs:          req.ExitHoldMs,
		EnabledGestures:     req.EnabledGestures,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update site config")
		return
	}
	writeJSON(w, http.StatusOK, toSiteConfigResponse(cfg))
}
