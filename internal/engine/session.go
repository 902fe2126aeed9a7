// Package engine implements the gesture interpretation and modal
// cursor-control core: mode transitions gated by sustained holds, the
// joystick-style cursor integrator, click/scroll arbitration, and the
// inactivity safety timeout.
package engine

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/ayusman/handwave/internal/config"
	"github.com/ayusman/handwave/internal/detector"
	"github.com/ayusman/handwave/internal/gesture"
)

// Mode is the engine's control mode. Exactly one mode is active at any time.
type Mode string

const (
	// ModeNavigation forwards debounced gestures to the remote evaluate
	// endpoint. It is the initial mode.
	ModeNavigation Mode = "navigation"
	// ModeCursor drives the on-page cursor from hand movement.
	ModeCursor Mode = "cursor"
)

// InactivityTimeout is the fixed safety timeout: Cursor mode exits after
// this long without a click, scroll, or drift movement. Deliberately not
// configurable.
const InactivityTimeout = 30 * time.Second

// navScrollStepPx is the page scroll amount dispatched when the remote
// service resolves a Navigation-mode gesture to a scroll action.
const navScrollStepPx = 120

// Default viewport dimensions used until the page reports its real size.
const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
)

// Dispatcher is the action surface the engine drives. Implementations own
// the DOM mechanics; the engine only decides that an action happens and with
// what parameters. ScrollBy follows the DOM convention: positive deltaY
// scrolls down.
type Dispatcher interface {
	MoveCursor(x, y float64)
	ClickAt(x, y float64)
	ScrollBy(deltaY float64)
	FocusNext()
	FocusPrevious()
	SetCursorVisible(visible bool)
}

// EvalResult is the remote service's decision for a forwarded gesture.
// Action values are opaque strings; unknown ones are ignored.
type EvalResult struct {
	Execute bool   `json:"execute"`
	Action  string `json:"action"`
	Reason  string `json:"reason"`
}

// Evaluator submits a Navigation-mode gesture to the remote evaluate
// endpoint. Calls are issued from their own goroutine and must not block
// frame processing.
type Evaluator interface {
	Evaluate(siteID string, gesture string, confidence float64) (EvalResult, error)
}

// Options configures a new Session.
type Options struct {
	SiteID         string
	ViewportWidth  float64
	ViewportHeight float64
	Config         config.RuntimeConfig
	Dispatcher     Dispatcher
	Evaluator      Evaluator
	Clock          Clock
}

// Session owns all mutable per-session state: the mode, the hold tracker,
// the cursor position, cooldown timestamps, and the activity clock. Frames
// must be processed one at a time; the mutex serializes HandleFrame against
// asynchronous config refreshes and viewport updates.
type Session struct {
	mu         sync.Mutex
	siteID     string
	cfg        config.RuntimeConfig
	clock      Clock
	dispatcher Dispatcher
	evaluator  Evaluator

	mode         Mode
	hold         HoldTracker
	viewportW    float64
	viewportH    float64
	cursorX      float64
	cursorY      float64
	lastClick    time.Time
	lastForward  map[gesture.Label]time.Time
	lastActivity time.Time
}

// NewSession creates a session in Navigation mode. An unset Options.Config
// falls back to the safe baseline: a zero RuntimeConfig would leave every
// cooldown at zero. A resolved config always carries a gesture set, so a
// nil one marks the config as unset.
func NewSession(opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Config.EnabledGestures == nil {
		opts.Config = config.Baseline()
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = defaultViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = defaultViewportHeight
	}

	return &Session{
		siteID:      opts.SiteID,
		cfg:         opts.Config,
		clock:       opts.Clock,
		dispatcher:  opts.Dispatcher,
		evaluator:   opts.Evaluator,
		mode:        ModeNavigation,
		viewportW:   opts.ViewportWidth,
		viewportH:   opts.ViewportHeight,
		lastForward: make(map[gesture.Label]time.Time),
	}
}

// frame carries one frame's derived values through the guards. cfg is the
// single config snapshot read for the whole frame.
type frame struct {
	hand       *detector.HandLandmarks
	label      gesture.Label
	confidence float64
	held       time.Duration
	now        time.Time
	cfg        config.RuntimeConfig
}

// HandleFrame processes one landmark sample. A nil hand is the "no hand
// tracked" case; it still advances the hold tracker and the inactivity
// check. At most one external action is dispatched per frame.
func (s *Session) HandleFrame(hand *detector.HandLandmarks) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := &frame{
		hand:  hand,
		label: gesture.Classify(hand),
		now:   s.clock.Now(),
		cfg:   s.cfg,
	}
	if hand != nil {
		f.confidence = hand.Score
	}
	f.held = s.hold.Update(f.label, f.now)

	switch s.mode {
	case ModeNavigation:
		s.navigationFrame(f)
	case ModeCursor:
		s.cursorFrame(f)
	}
}

// navigationFrame checks the Cursor-mode entry gate, then falls back to the
// legacy forwarding path: pinch and open_palm gestures below the entry hold
// threshold go to the remote evaluate endpoint, debounced per label on a
// channel separate from the click cooldown.
func (s *Session) navigationFrame(f *frame) {
	if f.label == gesture.LabelOpenPalm && f.cfg.CursorModeEnabled && f.held >= f.cfg.EnterHold {
		s.enterCursor(f)
		return
	}

	if f.label != gesture.LabelPinch && f.label != gesture.LabelOpenPalm {
		return
	}
	if last, ok := s.lastForward[f.label]; ok && f.now.Sub(last) < f.cfg.NavCooldown {
		return
	}
	s.lastForward[f.label] = f.now
	go s.forward(string(f.label), f.confidence)
}

// cursorGuards is the Cursor-mode arbitration table. Guards run in order and
// the first to return true consumes the frame.
var cursorGuards = []struct {
	name string
	fn   func(*Session, *frame) bool
}{
	{"exit", (*Session).gateExit},
	{"neutral", (*Session).gateNeutral},
	{"click", (*Session).gateClick},
	{"scroll", (*Session).gateScroll},
	{"drift", (*Session).gateDrift},
}

func (s *Session) cursorFrame(f *frame) {
	for _, g := range cursorGuards {
		if g.fn(s, f) {
			return
		}
	}
}

// gateExit evaluates both exit triggers. Recognizing a fist consumes the
// frame immediately, freezing clicks, scrolls, and drift even before the
// hold threshold is reached; the exit itself waits for the full hold. The
// inactivity timeout fires regardless of the current label.
func (s *Session) gateExit(f *frame) bool {
	if f.now.Sub(s.lastActivity) >= InactivityTimeout {
		log.Printf("cursor mode: inactivity timeout, returning to navigation")
		s.exitCursor()
		return true
	}
	if f.label == gesture.LabelFist {
		if f.held >= f.cfg.ExitHold {
			s.exitCursor()
		}
		return true
	}
	return false
}

// gateNeutral swallows the entry gesture while already in Cursor mode so it
// cannot be misread as a drift or scroll command.
func (s *Session) gateNeutral(f *frame) bool {
	return f.label == gesture.LabelOpenPalm
}

// gateClick dispatches a click at the current cursor position, subject to
// the click cooldown. A pinch still inside the cooldown window does not
// match and falls through to the later guards.
func (s *Session) gateClick(f *frame) bool {
	if f.label != gesture.LabelPinch || f.now.Sub(s.lastClick) < f.cfg.ClickCooldown {
		return false
	}
	s.lastClick = f.now
	s.lastActivity = f.now
	s.dispatcher.ClickAt(s.cursorX, s.cursorY)
	return true
}

// gateScroll dispatches continuous scrolling: two_finger scrolls up, rock
// scrolls down. There is no cooldown; the scroll repeats every frame the
// gesture is sustained.
func (s *Session) gateScroll(f *frame) bool {
	switch f.label {
	case gesture.LabelTwoFinger:
		s.dispatcher.ScrollBy(-f.cfg.ScrollSpeedPx)
	case gesture.LabelRock:
		s.dispatcher.ScrollBy(f.cfg.ScrollSpeedPx)
	default:
		return false
	}
	s.lastActivity = f.now
	return true
}

// gateDrift integrates the joystick-style cursor position from the index
// tip offset. The capture layer flips frames to selfie view, so landmark x
// already runs in screen direction and the offset is taken directly from
// frame center. Velocity is constant magnitude once outside the deadzone,
// not proportional to distance; both the deadzone radius and the speed come
// from configuration.
func (s *Session) gateDrift(f *frame) bool {
	if f.hand == nil {
		return true
	}

	tip := f.hand.Points[detector.IndexTip]
	dx := tip.X - 0.5
	dy := tip.Y - 0.5

	moved := false
	if math.Abs(dx) > f.cfg.DeadzoneRadius {
		s.cursorX += math.Copysign(f.cfg.CursorSpeedPx, dx)
		moved = true
	}
	if math.Abs(dy) > f.cfg.DeadzoneRadius {
		s.cursorY += math.Copysign(f.cfg.CursorSpeedPx, dy)
		moved = true
	}
	if !moved {
		return true
	}

	s.cursorX = clampFloat(s.cursorX, 0, s.viewportW)
	s.cursorY = clampFloat(s.cursorY, 0, s.viewportH)
	s.lastActivity = f.now
	s.dispatcher.MoveCursor(s.cursorX, s.cursorY)
	return true
}

// enterCursor transitions to Cursor mode: cursor centered in the viewport,
// activity clock reset, cursor made visible. The transition is atomic with
// respect to the frame being processed.
func (s *Session) enterCursor(f *frame) {
	s.mode = ModeCursor
	s.cursorX = s.viewportW / 2
	s.cursorY = s.viewportH / 2
	s.lastActivity = f.now
	s.dispatcher.SetCursorVisible(true)
	s.dispatcher.MoveCursor(s.cursorX, s.cursorY)
	log.Printf("cursor mode entered, cursor at (%.0f, %.0f)", s.cursorX, s.cursorY)
}

// exitCursor returns to Navigation mode and discards all Cursor-mode
// transient state.
func (s *Session) exitCursor() {
	s.mode = ModeNavigation
	s.cursorX = 0
	s.cursorY = 0
	s.lastClick = time.Time{}
	s.dispatcher.SetCursorVisible(false)
	log.Printf("cursor mode exited")
}

// forward issues the evaluate call off the frame path. It never writes
// session state: a failed call is logged and dropped, and an accepted one
// only touches the dispatch surface.
func (s *Session) forward(label string, confidence float64) {
	if s.evaluator == nil {
		return
	}
	res, err := s.evaluator.Evaluate(s.siteID, label, confidence)
	if err != nil {
		log.Printf("evaluate %s: %v", label, err)
		return
	}
	if !res.Execute {
		return
	}
	s.dispatchRemote(res.Action)
}

// dispatchRemote maps a remote action string onto the dispatch surface.
// Unknown actions are a no-op.
func (s *Session) dispatchRemote(action string) {
	switch action {
	case "scroll_down":
		s.dispatcher.ScrollBy(navScrollStepPx)
	case "scroll_up":
		s.dispatcher.ScrollBy(-navScrollStepPx)
	case "focus_next":
		s.dispatcher.FocusNext()
	case "focus_previous":
		s.dispatcher.FocusPrevious()
	case "click":
		s.mu.Lock()
		x, y := s.viewportW/2, s.viewportH/2
		s.mu.Unlock()
		s.dispatcher.ClickAt(x, y)
	default:
		log.Printf("ignoring unknown remote action %q", action)
	}
}

// ApplyConfig atomically replaces the runtime configuration. Frames already
// in flight keep the snapshot they started with.
func (s *Session) ApplyConfig(cfg config.RuntimeConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// Config returns the current configuration snapshot.
func (s *Session) Config() config.RuntimeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetViewport updates the viewport bounds reported by the page and clamps
// the cursor into them.
func (s *Session) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewportW = width
	s.viewportH = height
	s.cursorX = clampFloat(s.cursorX, 0, width)
	s.cursorY = clampFloat(s.cursorY, 0, height)
}

// Mode returns the active control mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// CursorPosition returns the current cursor position. It is only meaningful
// while in Cursor mode.
func (s *Session) CursorPosition() (x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorX, s.cursorY
}

// LastLabel returns the most recently classified gesture label.
func (s *Session) LastLabel() gesture.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hold.Label()
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
