package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SiteConfig holds the per-site engine settings served to clients. Numeric
// values are stored as sent; the client's resolver clamps them to safe
// ranges on its side.
type SiteConfig struct {
	SiteID              string
	Profile             string
	CursorModeEnabled   bool
	ConfidenceThreshold float64
	CooldownMs          int
	CursorSpeed         float64
	ScrollSpeed         float64
	EnterHoldMs         int
	ExitHoldMs          int
	EnabledGestures     []string
	UpdatedAt           time.Time
}

// SiteConfigUpdate is a partial update; nil fields are left unchanged.
type SiteConfigUpdate struct {
	Profile             *string
	CursorModeEnabled   *bool
	ConfidenceThreshold *float64
	CooldownMs          *int
	CursorSpeed         *float64
	ScrollSpeed         *float64
	EnterHoldMs         *int
	ExitHoldMs          *int
	EnabledGestures     []string
}

// SiteConfigRepository provides access to per-site configurations.
type SiteConfigRepository struct {
	store *Store
}

// SiteConfigs returns the site config repository for this store.
func (s *Store) SiteConfigs() *SiteConfigRepository {
	return &SiteConfigRepository{store: s}
}

// defaultSiteConfig returns the row inserted when a site is first seen.
// Cursor mode starts disabled; an operator has to opt a site in.
func defaultSiteConfig(siteID string) *SiteConfig {
	return &SiteConfig{
		SiteID:              siteID,
		Profile:             "default",
		CursorModeEnabled:   false,
		ConfidenceThreshold: 0.7,
		CooldownMs:          600,
		CursorSpeed:         12,
		ScrollSpeed:         15,
		EnterHoldMs:         3000,
		ExitHoldMs:          3000,
		EnabledGestures:     []string{"open_palm", "fist", "pinch", "two_finger", "rock"},
	}
}

// GetOrCreate retrieves the config for a site, inserting defaults if the
// site has none yet.
func (r *SiteConfigRepository) GetOrCreate(siteID string) (*SiteConfig, error) {
	cfg, err := r.get(siteID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := r.store.ensureSite(siteID); err != nil {
		return nil, err
	}

	cfg = defaultSiteConfig(siteID)
	cfg.UpdatedAt = time.Now()
	gestures, err := json.Marshal(cfg.EnabledGestures)
	if err != nil {
		return nil, err
	}

	_, err = r.store.db.Exec(
		`INSERT INTO site_configs
		 (site_id, profile, cursor_mode_enabled, confidence_threshold, cooldown_ms,
		  cursor_speed, scroll_speed, enter_hold_ms, exit_hold_ms, enabled_gestures, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.SiteID, cfg.Profile, cfg.CursorModeEnabled, cfg.ConfidenceThreshold,
		cfg.CooldownMs, cfg.CursorSpeed, cfg.ScrollSpeed, cfg.EnterHoldMs,
		cfg.ExitHoldMs, string(gestures), cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update applies a partial update, creating the config first if needed, and
// returns the updated row.
func (r *SiteConfigRepository) Update(siteID string, u *SiteConfigUpdate) (*SiteConfig, error) {
	cfg, err := r.GetOrCreate(siteID)
	if err != nil {
		return nil, err
	}

	if u.Profile != nil {
		cfg.Profile = *u.Profile
	}
	if u.CursorModeEnabled != nil {
		cfg.CursorModeEnabled = *u.CursorModeEnabled
	}
	if u.ConfidenceThreshold != nil {
		cfg.ConfidenceThreshold = *u.ConfidenceThreshold
	}
	if u.CooldownMs != nil {
		cfg.CooldownMs = *u.CooldownMs
	}
	if u.CursorSpeed != nil {
		cfg.CursorSpeed = *u.CursorSpeed
	}
	if u.ScrollSpeed != nil {
		cfg.ScrollSpeed = *u.ScrollSpeed
	}
	if u.EnterHoldMs != nil {
		cfg.EnterHoldMs = *u.EnterHoldMs
	}
	if u.ExitHoldMs != nil {
		cfg.ExitHoldMs = *u.ExitHoldMs
	}
	if u.EnabledGestures != nil {
		cfg.EnabledGestures = u.EnabledGestures
	}
	cfg.UpdatedAt = time.Now()

	gestures, err := json.Marshal(cfg.EnabledGestures)
	if err != nil {
		return nil, err
	}

	_, err = r.store.db.Exec(
		`UPDATE site_configs SET profile = ?, cursor_mode_enabled = ?,
		  confidence_threshold = ?, cooldown_ms = ?, cursor_speed = ?,
		  scroll_speed = ?, enter_hold_ms = ?, exit_hold_ms = ?,
		  enabled_gestures = ?, updated_at = ?
		 WHERE site_id = ?`,
		cfg.Profile, cfg.CursorModeEnabled, cfg.ConfidenceThreshold, cfg.CooldownMs,
		cfg.CursorSpeed, cfg.ScrollSpeed, cfg.EnterHoldMs, cfg.ExitHoldMs,
		string(gestures), cfg.UpdatedAt, siteID,
	)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *SiteConfigRepository) get(siteID string) (*SiteConfig, error) {
	cfg := &SiteConfig{}
	var gestures string

	err := r.store.db.QueryRow(
		`SELECT site_id, profile, cursor_mode_enabled, confidence_threshold,
		  cooldown_ms, cursor_speed, scroll_speed, enter_hold_ms, exit_hold_ms,
		  enabled_gestures, updated_at
		 FROM site_configs WHERE site_id = ?`,
		siteID,
	).Scan(&cfg.SiteID, &cfg.Profile, &cfg.CursorModeEnabled, &cfg.ConfidenceThreshold,
		&cfg.CooldownMs, &cfg.CursorSpeed, &cfg.ScrollSpeed, &cfg.EnterHoldMs,
		&cfg.ExitHoldMs, &gestures, &cfg.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(gestures), &cfg.EnabledGestures); err != nil {
		// A corrupt gesture list falls back to empty rather than failing
		// the whole config read.
		cfg.EnabledGestures = nil
	}
	return cfg, nil
}
