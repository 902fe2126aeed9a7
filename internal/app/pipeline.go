package app

import (
	"log"
	"time"
)

// runPipeline is the main detection loop that processes frames from the
// camera. It manages the transitions between idle and active modes based on
// motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion detected, switch to active mode (ActiveFPS)
// 3. Run hand detection on active frames
// 4. Feed the first detected hand (or nil) into the engine session
// 5. After IdleTimeout with no motion, switch back to idle mode
//
// The session sees every tick, even idle ones with no hand: hold timers
// must reset and the inactivity clock must keep advancing when the hand
// leaves the camera view.
func (a *App) runPipeline(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if detection is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Step 1: Motion detection
			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > IdleTimeout {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if a.session == nil {
				frame.Close()
				continue
			}

			// Idle frames skip detection but still advance the session.
			if !activeMode || a.Detector() == nil {
				frame.Close()
				a.session.HandleFrame(nil)
				continue
			}

			// Step 2: Hand detection
			hands, err := a.Detector().Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			// Step 3: Drive the engine with the tracked hand
			if len(hands) > 0 {
				a.session.HandleFrame(&hands[0])
			} else {
				a.session.HandleFrame(nil)
			}

			a.publishTelemetry()
		}
	}
}

// publishTelemetry pushes the session state to the bridge after a
// processed frame.
func (a *App) publishTelemetry() {
	if a.config.Telemetry == nil {
		return
	}
	x, y := a.session.CursorPosition()
	a.config.Telemetry.PublishTelemetry(
		string(a.session.Mode()),
		string(a.session.LastLabel()),
		x, y,
	)
}
