// Package app orchestrates the HandWave capture-to-engine pipeline: camera
// frames pass a motion gate, hand detection runs on active frames, and the
// resulting landmarks drive the engine session.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/handwave/internal/capture"
	"github.com/ayusman/handwave/internal/config"
	"github.com/ayusman/handwave/internal/detector"
	"github.com/ayusman/handwave/internal/engine"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active detection.
	ActiveFPS = 30
	// IdleTimeout is how long without motion before switching back to idle.
	IdleTimeout = 2 * time.Second
	// ConfigRefreshInterval is how often the site config is re-fetched.
	ConfigRefreshInterval = 60 * time.Second
)

// Telemetry receives the engine state after each processed frame. The
// websocket bridge implements it; a nil Telemetry disables publishing.
type Telemetry interface {
	PublishTelemetry(mode, label string, cursorX, cursorY float64)
}

// ConfigFetcher retrieves the raw site configuration for resolution. The
// remote client implements it.
type ConfigFetcher interface {
	FetchSiteConfig(siteID string) (*config.Payload, error)
}

// Config holds configuration options for the application.
type Config struct {
	SiteID       string
	CameraID     int
	MotionThresh float64
	Session      *engine.Session
	Telemetry    Telemetry
	Fetcher      ConfigFetcher
}

// App runs the detection pipeline and keeps the session's configuration
// fresh.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector
	session  *engine.Session
	enabled  bool
	mu       sync.RWMutex
	stopCh   chan struct{}
}

// New creates a new App instance with the given configuration.
func New(cfg Config) *App {
	motionThreshold := cfg.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:  cfg,
		camera:  capture.NewCamera(cfg.CameraID),
		motion:  capture.NewMotionDetector(motionThreshold),
		session: cfg.Session,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use. It must be called
// before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// RefreshConfig fetches the site configuration and applies the resolved
// result to the session. A fetch failure leaves the current config in
// place.
func (a *App) RefreshConfig() {
	if a.config.Fetcher == nil || a.session == nil {
		return
	}

	payload, err := a.config.Fetcher.FetchSiteConfig(a.config.SiteID)
	if err != nil {
		log.Printf("site config fetch failed, keeping current config: %v", err)
		return
	}
	a.session.ApplyConfig(config.Resolve(payload))
	log.Printf("site config refreshed for %s", a.config.SiteID)
}

// Start begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)
	go a.runConfigRefresh(a.stopCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the hand detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Detection pipeline stopped")
}

// runConfigRefresh periodically re-fetches and applies the site config.
func (a *App) runConfigRefresh(stopCh chan struct{}) {
	a.RefreshConfig()

	ticker := time.NewTicker(ConfigRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.RefreshConfig()
		}
	}
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Session returns the engine session driven by this app.
func (a *App) Session() *engine.Session {
	return a.session
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
