// Package config resolves the engine's runtime configuration from remote
// site settings, profile presets, and hardcoded safe baselines.
package config

import "time"

// Profile names a preset tuning for a class of users. Profiles adjust
// speeds and hold durations before any explicit overrides are applied.
type Profile string

const (
	ProfileDefault       Profile = "default"
	ProfileElderly       Profile = "elderly"
	ProfileMotorImpaired Profile = "motor_impaired"
)

// Safe ranges for resolved numeric fields. Out-of-range values are clamped,
// never rejected.
const (
	MinCursorSpeedPx = 1.0
	MaxCursorSpeedPx = 50.0
	MinScrollSpeedPx = 1.0
	MaxScrollSpeedPx = 100.0
	MinHold          = 500 * time.Millisecond
	MinClickCooldown = 200 * time.Millisecond
	MinNavCooldown   = 100 * time.Millisecond
	MinDeadzone      = 0.01
	MaxDeadzone      = 0.45
)

// RuntimeConfig is the immutable resolved configuration shared by all engine
// components. A session reads exactly one snapshot per frame; asynchronous
// re-resolution replaces the whole value, never individual fields.
type RuntimeConfig struct {
	CursorModeEnabled   bool
	Profile             Profile
	CursorSpeedPx       float64
	ScrollSpeedPx       float64
	EnterHold           time.Duration
	ExitHold            time.Duration
	ClickCooldown       time.Duration
	NavCooldown         time.Duration
	ConfidenceThreshold float64
	DeadzoneRadius      float64
	EnabledGestures     map[string]bool
}

// Payload is the raw site-config document fetched from the remote service.
// Pointer fields distinguish "absent" from zero. CursorModeEnabled is
// deliberately untyped: a non-boolean source value coerces to false.
type Payload struct {
	Profile             string   `json:"profile"`
	CursorModeEnabled   any      `json:"cursor_mode_enabled"`
	ConfidenceThreshold *float64 `json:"confidence_threshold"`
	CooldownMs          *int     `json:"cooldown_ms"`
	CursorSpeed         *float64 `json:"cursor_speed"`
	ScrollSpeed         *float64 `json:"scroll_speed"`
	EnterHoldMs         *int     `json:"enter_hold_ms"`
	ExitHoldMs          *int     `json:"exit_hold_ms"`
	NavCooldownMs       *int     `json:"nav_cooldown_ms"`
	DeadzoneRadius      *float64 `json:"deadzone_radius"`
	EnabledGestures     []string `json:"enabled_gestures"`
}

// Baseline returns the hardcoded defaults used when no payload is available.
// Cursor mode stays disabled until a payload explicitly enables it.
func Baseline() RuntimeConfig {
	return RuntimeConfig{
		CursorModeEnabled:   false,
		Profile:             ProfileDefault,
		CursorSpeedPx:       12,
		ScrollSpeedPx:       15,
		EnterHold:           3000 * time.Millisecond,
		ExitHold:            3000 * time.Millisecond,
		ClickCooldown:       800 * time.Millisecond,
		NavCooldown:         600 * time.Millisecond,
		ConfidenceThreshold: 0.7,
		DeadzoneRadius:      0.10,
		EnabledGestures: map[string]bool{
			"open_palm": true, "fist": true, "pinch": true,
			"two_finger": true, "rock": true,
		},
	}
}

// profilePreset overlays the numeric preset for a known profile. Unknown
// profile names leave the baseline untouched.
func profilePreset(cfg *RuntimeConfig, name string) {
	switch Profile(name) {
	case ProfileElderly:
		cfg.Profile = ProfileElderly
		cfg.CursorSpeedPx = 8
		cfg.ScrollSpeedPx = 10
		cfg.EnterHold = 4000 * time.Millisecond
		cfg.ExitHold = 4000 * time.Millisecond
		cfg.ClickCooldown = 1200 * time.Millisecond
	case ProfileMotorImpaired:
		cfg.Profile = ProfileMotorImpaired
		cfg.CursorSpeedPx = 5
		cfg.ScrollSpeedPx = 8
		cfg.EnterHold = 5000 * time.Millisecond
		cfg.ExitHold = 5000 * time.Millisecond
		cfg.ClickCooldown = 1500 * time.Millisecond
	case ProfileDefault:
		cfg.Profile = ProfileDefault
	}
}

// Resolve merges the baseline, the payload's profile preset, and the
// payload's explicit overrides, in that order, then clamps every numeric
// field to its safe range. A nil payload yields the baseline. Resolving the
// same payload twice yields identical results.
func Resolve(p *Payload) RuntimeConfig {
	cfg := Baseline()
	if p == nil {
		return cfg
	}

	// Profile before explicit overrides, so explicit values always win.
	profilePreset(&cfg, p.Profile)

	if b, ok := p.CursorModeEnabled.(bool); ok {
		cfg.CursorModeEnabled = b
	} else {
		cfg.CursorModeEnabled = false
	}
	if p.ConfidenceThreshold != nil {
		cfg.ConfidenceThreshold = *p.ConfidenceThreshold
	}
	if p.CooldownMs != nil {
		cfg.ClickCooldown = time.Duration(*p.CooldownMs) * time.Millisecond
	}
	if p.CursorSpeed != nil {
		cfg.CursorSpeedPx = *p.CursorSpeed
	}
	if p.ScrollSpeed != nil {
		cfg.ScrollSpeedPx = *p.ScrollSpeed
	}
	if p.EnterHoldMs != nil {
		cfg.EnterHold = time.Duration(*p.EnterHoldMs) * time.Millisecond
	}
	if p.ExitHoldMs != nil {
		cfg.ExitHold = time.Duration(*p.ExitHoldMs) * time.Millisecond
	}
	if p.NavCooldownMs != nil {
		cfg.NavCooldown = time.Duration(*p.NavCooldownMs) * time.Millisecond
	}
	if p.DeadzoneRadius != nil {
		cfg.DeadzoneRadius = *p.DeadzoneRadius
	}
	if p.EnabledGestures != nil {
		cfg.EnabledGestures = make(map[string]bool, len(p.EnabledGestures))
		for _, g := range p.EnabledGestures {
			cfg.EnabledGestures[g] = true
		}
	}

	clamp(&cfg)
	return cfg
}

func clamp(cfg *RuntimeConfig) {
	cfg.CursorSpeedPx = clampFloat(cfg.CursorSpeedPx, MinCursorSpeedPx, MaxCursorSpeedPx)
	cfg.ScrollSpeedPx = clampFloat(cfg.ScrollSpeedPx, MinScrollSpeedPx, MaxScrollSpeedPx)
	cfg.ConfidenceThreshold = clampFloat(cfg.ConfidenceThreshold, 0, 1)
	cfg.DeadzoneRadius = clampFloat(cfg.DeadzoneRadius, MinDeadzone, MaxDeadzone)
	if cfg.EnterHold < MinHold {
		cfg.EnterHold = MinHold
	}
	if cfg.ExitHold < MinHold {
		cfg.ExitHold = MinHold
	}
	if cfg.ClickCooldown < MinClickCooldown {
		cfg.ClickCooldown = MinClickCooldown
	}
	if cfg.NavCooldown < MinNavCooldown {
		cfg.NavCooldown = MinNavCooldown
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
