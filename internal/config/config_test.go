package config

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestResolve_NilPayloadIsBaseline(t *testing.T) {
	cfg := Resolve(nil)

	if cfg.CursorModeEnabled {
		t.Error("cursor mode should default to disabled")
	}
	if cfg.Profile != ProfileDefault {
		t.Errorf("profile = %q, want %q", cfg.Profile, ProfileDefault)
	}
	if cfg.CursorSpeedPx != 12 {
		t.Errorf("cursor speed = %f, want 12", cfg.CursorSpeedPx)
	}
	if cfg.EnterHold != 3*time.Second {
		t.Errorf("enter hold = %v, want 3s", cfg.EnterHold)
	}
	if cfg.ClickCooldown != 800*time.Millisecond {
		t.Errorf("click cooldown = %v, want 800ms", cfg.ClickCooldown)
	}
	if cfg.ConfidenceThreshold != 0.7 {
		t.Errorf("confidence = %f, want 0.7", cfg.ConfidenceThreshold)
	}
}

func TestResolve_ProfilePresets(t *testing.T) {
	elderly := Resolve(&Payload{Profile: "elderly", CursorModeEnabled: true})
	if elderly.Profile != ProfileElderly {
		t.Errorf("profile = %q, want elderly", elderly.Profile)
	}
	if elderly.CursorSpeedPx >= 12 {
		t.Errorf("elderly cursor speed = %f, want slower than baseline", elderly.CursorSpeedPx)
	}
	if elderly.EnterHold <= 3*time.Second {
		t.Errorf("elderly enter hold = %v, want longer than baseline", elderly.EnterHold)
	}

	motor := Resolve(&Payload{Profile: "motor_impaired", CursorModeEnabled: true})
	if motor.CursorSpeedPx >= elderly.CursorSpeedPx {
		t.Errorf("motor_impaired cursor speed = %f, want slowest", motor.CursorSpeedPx)
	}
	if motor.EnterHold <= elderly.EnterHold {
		t.Errorf("motor_impaired enter hold = %v, want longest", motor.EnterHold)
	}
}

func TestResolve_UnknownProfileIgnored(t *testing.T) {
	cfg := Resolve(&Payload{Profile: "astronaut"})

	if cfg.Profile != ProfileDefault {
		t.Errorf("profile = %q, want default", cfg.Profile)
	}
	if cfg.CursorSpeedPx != 12 {
		t.Errorf("cursor speed = %f, want baseline 12", cfg.CursorSpeedPx)
	}
}

func TestResolve_ExplicitOverridesWinOverProfile(t *testing.T) {
	cfg := Resolve(&Payload{
		Profile:     "elderly",
		CursorSpeed: floatPtr(20),
		EnterHoldMs: intPtr(1000),
	})

	if cfg.CursorSpeedPx != 20 {
		t.Errorf("cursor speed = %f, want explicit 20", cfg.CursorSpeedPx)
	}
	if cfg.EnterHold != time.Second {
		t.Errorf("enter hold = %v, want explicit 1s", cfg.EnterHold)
	}
	// Profile values not overridden stay in effect.
	if cfg.ScrollSpeedPx != 10 {
		t.Errorf("scroll speed = %f, want elderly preset 10", cfg.ScrollSpeedPx)
	}
}

func TestResolve_Clamping(t *testing.T) {
	cfg := Resolve(&Payload{
		CursorSpeed:    floatPtr(500),
		ScrollSpeed:    floatPtr(-3),
		EnterHoldMs:    intPtr(50),
		ExitHoldMs:     intPtr(0),
		CooldownMs:     intPtr(10),
		DeadzoneRadius: floatPtr(0.9),
	})

	if cfg.CursorSpeedPx != MaxCursorSpeedPx {
		t.Errorf("cursor speed = %f, want clamped to %f", cfg.CursorSpeedPx, MaxCursorSpeedPx)
	}
	if cfg.ScrollSpeedPx != MinScrollSpeedPx {
		t.Errorf("scroll speed = %f, want clamped to %f", cfg.ScrollSpeedPx, MinScrollSpeedPx)
	}
	if cfg.EnterHold != MinHold {
		t.Errorf("enter hold = %v, want clamped to %v", cfg.EnterHold, MinHold)
	}
	if cfg.ExitHold != MinHold {
		t.Errorf("exit hold = %v, want clamped to %v", cfg.ExitHold, MinHold)
	}
	if cfg.ClickCooldown != MinClickCooldown {
		t.Errorf("click cooldown = %v, want clamped to %v", cfg.ClickCooldown, MinClickCooldown)
	}
	if cfg.DeadzoneRadius != MaxDeadzone {
		t.Errorf("deadzone = %f, want clamped to %f", cfg.DeadzoneRadius, MaxDeadzone)
	}
}

func TestResolve_CursorModeCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"true bool", true, true},
		{"false bool", false, false},
		{"string", "true", false},
		{"number", float64(1), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Resolve(&Payload{CursorModeEnabled: tt.value})
			if cfg.CursorModeEnabled != tt.want {
				t.Errorf("CursorModeEnabled = %v, want %v", cfg.CursorModeEnabled, tt.want)
			}
		})
	}
}

func TestResolve_CoercionFromJSON(t *testing.T) {
	// A payload arriving off the wire with a non-boolean flag must still
	// resolve with cursor mode disabled.
	var p Payload
	if err := json.Unmarshal([]byte(`{"cursor_mode_enabled":"yes","cursor_speed":9}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cfg := Resolve(&p)
	if cfg.CursorModeEnabled {
		t.Error("string-typed cursor_mode_enabled should coerce to false")
	}
	if cfg.CursorSpeedPx != 9 {
		t.Errorf("cursor speed = %f, want 9", cfg.CursorSpeedPx)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	p := &Payload{
		Profile:           "elderly",
		CursorModeEnabled: true,
		CursorSpeed:       floatPtr(200),
		EnabledGestures:   []string{"pinch", "open_palm"},
	}

	first := Resolve(p)
	second := Resolve(p)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolving the same payload twice differed:\n%+v\n%+v", first, second)
	}
}

func TestResolve_EnabledGestures(t *testing.T) {
	cfg := Resolve(&Payload{EnabledGestures: []string{"pinch"}})

	if !cfg.EnabledGestures["pinch"] {
		t.Error("pinch should be enabled")
	}
	if cfg.EnabledGestures["rock"] {
		t.Error("rock should not be enabled when the payload lists gestures")
	}

	base := Resolve(&Payload{})
	if !base.EnabledGestures["rock"] {
		t.Error("all gestures should be enabled by default")
	}
}
