package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handwave/internal/capture"
	"github.com/ayusman/handwave/internal/config"
	"github.com/ayusman/handwave/internal/detector"
	"github.com/ayusman/handwave/internal/engine"
	"github.com/ayusman/handwave/testdata"
)

// nullDispatcher satisfies engine.Dispatcher for pipeline tests that only
// inspect session state.
type nullDispatcher struct{}

func (nullDispatcher) MoveCursor(x, y float64)       {}
func (nullDispatcher) ClickAt(x, y float64)          {}
func (nullDispatcher) ScrollBy(deltaY float64)       {}
func (nullDispatcher) FocusNext()                    {}
func (nullDispatcher) FocusPrevious()                {}
func (nullDispatcher) SetCursorVisible(visible bool) {}

type fakeFetcher struct {
	mu      sync.Mutex
	payload *config.Payload
	err     error
	calls   int
}

func (f *fakeFetcher) FetchSiteConfig(siteID string) (*config.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.payload, f.err
}

// motionFrames builds an alternating dark/bright frame sequence that keeps
// the motion detector firing on every tick.
func motionFrames(t *testing.T) []*gocv.Mat {
	t.Helper()

	dark := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 120, 160, gocv.MatTypeCV8UC3)
	bright := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(250, 250, 250, 0), 120, 160, gocv.MatTypeCV8UC3)
	t.Cleanup(func() {
		dark.Close()
		bright.Close()
	})
	return []*gocv.Mat{&dark, &bright}
}

func newTestSession() *engine.Session {
	cfg := config.Baseline()
	cfg.CursorModeEnabled = true
	return engine.NewSession(engine.Options{
		SiteID:     "example.org",
		Config:     cfg,
		Dispatcher: nullDispatcher{},
	})
}

func TestPipeline_FeedsDetectedHandsToSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	session := newTestSession()
	a := New(Config{SiteID: "example.org", Session: session})

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{testdata.OpenPalmHand()})
	a.SetDetector(mock)
	a.SetCamera(capture.NewMockCamera(motionFrames(t), true))

	if err := a.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	// Constant motion should drive the pipeline into active mode, where
	// detection feeds the session and the open palm shows up as the last
	// classified label.
	deadline := time.Now().Add(5 * time.Second)
	for session.LastLabel() != "open_palm" {
		if time.Now().After(deadline) {
			t.Fatalf("session never saw open_palm, last label %q", session.LastLabel())
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestPipeline_DisabledFeedsNothing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	session := newTestSession()
	a := New(Config{SiteID: "example.org", Session: session})

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{testdata.OpenPalmHand()})
	a.SetDetector(mock)
	a.SetCamera(capture.NewMockCamera(motionFrames(t), true))

	if err := a.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Stop()
	// Detection left disabled.

	time.Sleep(600 * time.Millisecond)
	if session.LastLabel() != "none" {
		t.Errorf("disabled pipeline fed the session, last label %q", session.LastLabel())
	}
}

func TestRefreshConfig_AppliesResolvedPayload(t *testing.T) {
	session := newTestSession()
	fetcher := &fakeFetcher{payload: &config.Payload{
		Profile:           "elderly",
		CursorModeEnabled: true,
	}}
	a := New(Config{SiteID: "example.org", Session: session, Fetcher: fetcher})

	a.RefreshConfig()

	got := session.Config()
	if got.Profile != config.ProfileElderly {
		t.Errorf("profile = %q, want elderly", got.Profile)
	}
	if got.CursorSpeedPx != 8 {
		t.Errorf("cursor speed = %f, want elderly preset 8", got.CursorSpeedPx)
	}
}

func TestRefreshConfig_FetchErrorKeepsCurrent(t *testing.T) {
	session := newTestSession()
	fetcher := &fakeFetcher{err: errors.New("service unreachable")}
	a := New(Config{SiteID: "example.org", Session: session, Fetcher: fetcher})

	before := session.Config()
	a.RefreshConfig()

	got := session.Config()
	if got.Profile != before.Profile || got.CursorSpeedPx != before.CursorSpeedPx {
		t.Errorf("config changed after failed fetch: %+v", got)
	}
	if !got.CursorModeEnabled {
		t.Error("cursor mode flag lost after failed fetch")
	}
}
