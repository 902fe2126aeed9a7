package engine

import (
	"time"

	"github.com/ayusman/handwave/internal/gesture"
)

// HoldTracker measures how long the current gesture label has been held
// across consecutive frames. Any label change resets the timer, including a
// change to "none" from a missed or ambiguous frame: a single dropout always
// restarts the hold, which keeps flicker from triggering mode transitions.
type HoldTracker struct {
	label gesture.Label
	since time.Time
}

// Update records the label observed this frame and returns the continuous
// hold duration for it.
func (h *HoldTracker) Update(label gesture.Label, now time.Time) time.Duration {
	if label != h.label || h.since.IsZero() {
		h.label = label
		h.since = now
	}
	return now.Sub(h.since)
}

// Label returns the label recorded by the last Update.
func (h *HoldTracker) Label() gesture.Label {
	if h.label == "" {
		return gesture.LabelNone
	}
	return h.label
}

// Reset clears the tracked label so the next Update starts a fresh hold.
func (h *HoldTracker) Reset() {
	h.label = ""
	h.since = time.Time{}
}
