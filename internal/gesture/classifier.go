// Package gesture classifies a single hand-landmark frame into one of the
// control gestures understood by the engine.
package gesture

import (
	"math"

	"github.com/ayusman/handwave/internal/detector"
)

// Label identifies a classified gesture. Labels are recomputed from scratch
// every frame; they carry no identity across frames.
type Label string

const (
	// LabelNone means no hand was present or no gesture rule matched.
	LabelNone Label = "none"
	// LabelOpenPalm is all four fingers extended.
	LabelOpenPalm Label = "open_palm"
	// LabelFist is all four fingers curled without a pinch.
	LabelFist Label = "fist"
	// LabelPinch is thumb tip and index tip touching.
	LabelPinch Label = "pinch"
	// LabelTwoFinger is index and middle extended, ring and pinky curled.
	LabelTwoFinger Label = "two_finger"
	// LabelRock is index and pinky extended, middle and ring curled.
	LabelRock Label = "rock"
)

// PinchDistance is the maximum per-axis separation between thumb tip and
// index tip, in normalized frame units, for the pose to count as a pinch.
const PinchDistance = 0.05

// Classify maps one landmark frame to a gesture label. A nil hand is the
// "no hand tracked" case and classifies as LabelNone; it is not an error.
//
// Ambiguous poses resolve in a fixed priority order:
// pinch > open_palm > fist > two_finger > rock.
func Classify(hand *detector.HandLandmarks) Label {
	if hand == nil {
		return LabelNone
	}

	index := extended(hand, detector.IndexTip, detector.IndexPIP)
	middle := extended(hand, detector.MiddleTip, detector.MiddlePIP)
	ring := extended(hand, detector.RingTip, detector.RingPIP)
	pinky := extended(hand, detector.PinkyTip, detector.PinkyPIP)

	switch {
	case isPinch(hand):
		return LabelPinch
	case index && middle && ring && pinky:
		return LabelOpenPalm
	case !index && !middle && !ring && !pinky:
		return LabelFist
	case index && middle && !ring && !pinky:
		return LabelTwoFinger
	case index && !middle && !ring && pinky:
		return LabelRock
	default:
		return LabelNone
	}
}

// extended reports whether a fingertip sits above its PIP knuckle in image
// space. Image y grows downward, so "above" means a smaller y.
func extended(hand *detector.HandLandmarks, tip, pip int) bool {
	return hand.Points[tip].Y < hand.Points[pip].Y
}

// isPinch checks thumb-tip/index-tip closeness on both axes independently
// (Chebyshev rather than Euclidean, matching the reference behavior).
func isPinch(hand *detector.HandLandmarks) bool {
	thumb := hand.Points[detector.ThumbTip]
	index := hand.Points[detector.IndexTip]
	return math.Abs(thumb.X-index.X) < PinchDistance &&
		math.Abs(thumb.Y-index.Y) < PinchDistance
}
