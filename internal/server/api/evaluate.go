package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ayusman/handwave/internal/store"
)

// defaultActionMap is the built-in gesture-to-action table. Site-specific
// mappings take precedence over it.
var defaultActionMap = map[string]string{
	"open_palm":   "scroll_down",
	"fist":        "scroll_up",
	"swipe_left":  "focus_previous",
	"swipe_right": "focus_next",
	"pinch":       "click",
}

// EvaluateHandler decides whether a reported gesture should execute an
// action for a site. Accepted evaluations are persisted as gesture events.
type EvaluateHandler struct {
	store     *store.Store
	cooldowns *CooldownManager
}

// NewEvaluateHandler creates an EvaluateHandler backed by the given store.
func NewEvaluateHandler(s *store.Store) *EvaluateHandler {
	return &EvaluateHandler{
		store:     s,
		cooldowns: NewCooldownManager(),
	}
}

type evaluateRequest struct {
	SiteID     string  `json:"site_id"`
	Gesture    string  `json:"gesture"`
	Confidence float64 `json:"confidence"`
}

type evaluateResponse struct {
	Execute bool   `json:"execute"`
	Action  string `json:"action"`
	Reason  string `json:"reason"`
}

// ServeHTTP handles POST /api/v1/gesture/evaluate.
func (h *EvaluateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.SiteID == "" || req.Gesture == "" {
		writeError(w, http.StatusBadRequest, "site_id and gesture are required")
		return
	}

	cfg, err := h.store.SiteConfigs().GetOrCreate(req.SiteID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load site config")
		return
	}

	writeJSON(w, http.StatusOK, h.evaluate(&req, cfg))
}

// evaluate runs the decision chain: gesture enabled, confidence threshold,
// action lookup, cooldown, then persistence.
func (h *EvaluateHandler) evaluate(req *evaluateRequest, cfg *store.SiteConfig) evaluateResponse {
	if !gestureEnabled(cfg, req.Gesture) {
		return evaluateResponse{Reason: "gesture_disabled"}
	}

	if req.Confidence < cfg.ConfidenceThreshold {
		return evaluateResponse{Reason: "confidence_too_low"}
	}

	action, ok := h.lookupAction(req.SiteID, req.Gesture)
	if !ok {
		return evaluateResponse{Reason: fmt.Sprintf("unknown gesture: %s", req.Gesture)}
	}

	cooldown := time.Duration(cfg.CooldownMs) * time.Millisecond
	if !h.cooldowns.Allow(req.SiteID, req.Gesture, cooldown) {
		return evaluateResponse{Action: action, Reason: "cooldown_active"}
	}

	event := &store.GestureEvent{
		SiteID:     req.SiteID,
		Gesture:    req.Gesture,
		Confidence: req.Confidence,
	}
	if err := h.store.Events().Create(event); err != nil {
		// The decision stands even if the audit write fails.
		log.Printf("failed to record gesture event: %v", err)
	}

	return evaluateResponse{Execute: true, Action: action, Reason: "gesture_accepted"}
}

// lookupAction resolves the action for a gesture, preferring the site's own
// mapping over the built-in default map.
func (h *EvaluateHandler) lookupAction(siteID, gesture string) (string, bool) {
	if m, err := h.store.Mappings().Get(siteID, gesture); err == nil {
		return m.Action, true
	}
	action, ok := defaultActionMap[gesture]
	return action, ok
}

func gestureEnabled(cfg *store.SiteConfig, gesture string) bool {
	for _, g := range cfg.EnabledGestures {
		if g == gesture {
			return true
		}
	}
	return false
}
