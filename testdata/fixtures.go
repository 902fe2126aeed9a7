// Package testdata provides synthetic hand pose fixtures shared by the
// classifier, engine, and pipeline tests. Poses are built geometrically so
// each one satisfies exactly the finger-extension and pinch rules of the
// label it is named after.
package testdata

import (
	"github.com/ayusman/handwave/internal/detector"
)

// Finger indexes into the extended array accepted by Hand.
const (
	Index = iota
	Middle
	Ring
	Pinky
)

// mcpX holds the knuckle x position for each of the four non-thumb fingers.
var mcpX = [4]float64{0.58, 0.53, 0.47, 0.42}

// tip/pip landmark indices per finger, ordered index..pinky.
var tipIdx = [4]int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}
var pipIdx = [4]int{detector.IndexPIP, detector.MiddlePIP, detector.RingPIP, detector.PinkyPIP}
var mcpIdx = [4]int{detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP}

// Hand builds a synthetic hand pose. The extended array selects which of
// index, middle, ring, and pinky point upward (tip above the PIP knuckle in
// image space). When pinch is true the thumb tip is placed on top of the
// index tip; otherwise it sits well clear of it.
func Hand(extended [4]bool, pinch bool) detector.HandLandmarks {
	h := detector.HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[detector.Wrist] = detector.Point3D{X: 0.5, Y: 0.8}

	for f := 0; f < 4; f++ {
		h.Points[mcpIdx[f]] = detector.Point3D{X: mcpX[f], Y: 0.68}
		h.Points[pipIdx[f]] = detector.Point3D{X: mcpX[f], Y: 0.60}
		if extended[f] {
			h.Points[tipIdx[f]] = detector.Point3D{X: mcpX[f], Y: 0.35}
		} else {
			// Curled: tip folds back below the PIP knuckle.
			h.Points[tipIdx[f]] = detector.Point3D{X: mcpX[f], Y: 0.72}
		}
	}

	// Thumb chain. Only the tip matters to classification.
	h.Points[detector.ThumbCMC] = detector.Point3D{X: 0.58, Y: 0.75}
	h.Points[detector.ThumbMCP] = detector.Point3D{X: 0.63, Y: 0.70}
	h.Points[detector.ThumbIP] = detector.Point3D{X: 0.67, Y: 0.65}
	if pinch {
		it := h.Points[tipIdx[Index]]
		h.Points[detector.ThumbTip] = detector.Point3D{X: it.X + 0.01, Y: it.Y + 0.01}
	} else {
		h.Points[detector.ThumbTip] = detector.Point3D{X: 0.72, Y: 0.60}
	}

	return h
}

// OpenPalmHand has all four fingers extended and no pinch.
func OpenPalmHand() detector.HandLandmarks {
	return Hand([4]bool{true, true, true, true}, false)
}

// FistHand has all four fingers curled and no pinch.
func FistHand() detector.HandLandmarks {
	return Hand([4]bool{false, false, false, false}, false)
}

// PinchHand has the thumb tip touching the extended index tip.
func PinchHand() detector.HandLandmarks {
	return Hand([4]bool{true, false, false, false}, true)
}

// TwoFingerHand has index and middle extended, ring and pinky curled.
func TwoFingerHand() detector.HandLandmarks {
	return Hand([4]bool{true, true, false, false}, false)
}

// RockHand has index and pinky extended, middle and ring curled.
func RockHand() detector.HandLandmarks {
	return Hand([4]bool{true, false, false, true}, false)
}

// PointerHand returns a pose that matches no gesture label (index, middle,
// and ring extended) with the index tip moved to the given normalized
// position. Used to steer cursor drift in engine tests.
func PointerHand(x, y float64) detector.HandLandmarks {
	h := Hand([4]bool{true, true, true, false}, false)
	h.Points[detector.IndexTip] = detector.Point3D{X: x, Y: y}
	return h
}
