// Package hands detects hand landmarks in still images and renders annotated
// copies. Detection is a pass-through to a trained landmark model; there is
// no gesture logic here.
package hands

import "image"

// LandmarkCount is the number of keypoints the landmark model emits per hand.
const LandmarkCount = 21

// Landmark is one keypoint. X and Y are normalized to [0,1] of the source
// frame; Z is depth relative to the wrist keypoint, negative toward the
// camera.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand is one detected hand: an ordered, fixed-length keypoint sequence plus
// the model's presence score.
type Hand struct {
	Landmarks []Landmark
	Score     float32
}

// Detector finds hands in a decoded image.
type Detector interface {
	// Detect returns the detected hands, empty when none are present.
	Detect(img image.Image) ([]Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds detection options.
type Config struct {
	// MaxHands is the maximum number of hands to detect.
	MaxHands int

	// MinConfidence is the minimum presence score (0.0-1.0) for a hand to
	// be reported.
	MinConfidence float32

	// InputSize is the square side length of the model's input frame.
	InputSize int
}

// DefaultConfig returns detection defaults matching the shipped model.
func DefaultConfig() Config {
	return Config{
		MaxHands:      2,
		MinConfidence: 0.5,
		InputSize:     224,
	}
}
