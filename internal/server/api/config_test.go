package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/handwave/internal/store"
)

func TestMappingHandler_Upsert(t *testing.T) {
	s := newTestStore(t)
	h := NewMappingHandler(s)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/config/mapping",
			bytes.NewReader([]byte(body)))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"site_id":"example.org","gesture":"rock","action":"scroll_down"}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("first upsert status = %d, want 201", rec.Code)
	}

	rec = post(`{"site_id":"example.org","gesture":"rock","action":"focus_next"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("second upsert status = %d, want 200", rec.Code)
	}
	var resp mappingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Action != "focus_next" || resp.Created {
		t.Errorf("response = %+v, want updated focus_next", resp)
	}

	m, err := s.Mappings().Get("example.org", "rock")
	if err != nil {
		t.Fatalf("get mapping: %v", err)
	}
	if m.Action != "focus_next" {
		t.Errorf("stored action = %q, want focus_next", m.Action)
	}
}

func TestMappingHandler_RejectsIncompleteRequest(t *testing.T) {
	s := newTestStore(t)
	h := NewMappingHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/config/mapping",
		bytes.NewReader([]byte(`{"site_id":"example.org"}`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMappingHandler_List(t *testing.T) {
	s := newTestStore(t)
	s.Mappings().Upsert(&store.Mapping{SiteID: "a.org", Gesture: "pinch", Action: "click"})
	s.Mappings().Upsert(&store.Mapping{SiteID: "a.org", Gesture: "rock", Action: "scroll_down"})
	h := NewMappingHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config/mapping?site_id=a.org", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Mappings []mappingResponse `json:"mappings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Mappings) != 2 {
		t.Errorf("mappings = %d, want 2", len(resp.Mappings))
	}
}

func TestSiteConfigHandler_GetCreatesDefaults(t *testing.T) {
	s := newTestStore(t)
	h := NewSiteConfigHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config/site/example.org", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp siteConfigResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SiteID != "example.org" {
		t.Errorf("site_id = %q, want example.org", resp.SiteID)
	}
	if resp.CursorModeEnabled {
		t.Error("cursor mode should default to disabled")
	}
	if resp.CooldownMs != 600 {
		t.Errorf("cooldown_ms = %d, want 600", resp.CooldownMs)
	}
	if len(resp.EnabledGestures) != 5 {
		t.Errorf("enabled_gestures = %v, want all five", resp.EnabledGestures)
	}
}

func TestSiteConfigHandler_PartialUpdate(t *testing.T) {
	s := newTestStore(t)
	h := NewSiteConfigHandler(s)

	body := `{"cursor_mode_enabled":true,"profile":"elderly"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/config/site/example.org",
		bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp siteConfigResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.CursorModeEnabled {
		t.Error("cursor mode should be enabled after update")
	}
	if resp.Profile != "elderly" {
		t.Errorf("profile = %q, want elderly", resp.Profile)
	}
	// Untouched fields keep their defaults.
	if resp.CursorSpeed != 12 {
		t.Errorf("cursor_speed = %f, want unchanged 12", resp.CursorSpeed)
	}
}

func TestSiteConfigHandler_UpdateWithSiteIDInBody(t *testing.T) {
	s := newTestStore(t)
	h := NewSiteConfigHandler(s)

	body := `{"site_id":"example.org","cursor_mode_enabled":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/config/site",
		bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp siteConfigResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SiteID != "example.org" {
		t.Errorf("site_id = %q, want example.org", resp.SiteID)
	}
	if !resp.CursorModeEnabled {
		t.Error("cursor mode should be enabled after update")
	}

	cfg, err := s.SiteConfigs().GetOrCreate("example.org")
	if err != nil {
		t.Fatalf("get site config: %v", err)
	}
	if !cfg.CursorModeEnabled {
		t.Error("stored cursor mode should be enabled")
	}
}

func TestSiteConfigHandler_UpdateWithoutSiteID(t *testing.T) {
	s := newTestStore(t)
	h := NewSiteConfigHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/config/site",
		bytes.NewReader([]byte(`{"cursor_mode_enabled":true}`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSiteConfigHandler_MissingSiteID(t *testing.T) {
	s := newTestStore(t)
	h := NewSiteConfigHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config/site/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
