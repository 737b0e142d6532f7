package entity

// Landmark is one hand keypoint in the detector's normalized image
// coordinates.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks holds the points of a single detected hand, 21 per hand.
type HandLandmarks []Landmark

type HandDetectionResult struct {
	MultiHandLandmarks []HandLandmarks `json:"multi_hand_landmarks"`
	Error              string          `json:"error,omitempty"`
}

// FirstHand returns the first detected hand, or nil when none was found.
func (r *HandDetectionResult) FirstHand() HandLandmarks {
	if r == nil || len(r.MultiHandLandmarks) == 0 {
		return nil
	}
	return r.MultiHandLandmarks[0]
}
