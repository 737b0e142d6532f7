package inference

import "SignCoach/internal/entity"

const (
	ScoreHandshape   = "handshape"
	ScoreOrientation = "orientation"
	ScoreLocation    = "location"

	PredictionUnknown = "unknown"
	PredictionNone    = "none"
)

type InferenceRequest struct {
	TargetSignID string    `json:"target_sign_id" validate:"required"`
	Features     []float64 `json:"features"`
	Image        string    `json:"image"`
}

// HasFeatures reports whether a non-empty feature vector was supplied; the web
// client sends an empty list alongside every image.
func (r InferenceRequest) HasFeatures() bool {
	return len(r.Features) > 0
}

type InferenceResponse struct {
	PredictedSignID string             `json:"predicted_sign_id"`
	Confidence      float64            `json:"confidence"`
	IsCorrect       bool               `json:"is_correct"`
	Feedback        []string           `json:"feedback"`
	Scores          map[string]float64 `json:"scores"`
	Landmarks       []entity.Landmark  `json:"landmarks"`
}

// Scores builds a score map with the same value for every category.
func Scores(value float64) map[string]float64 {
	return map[string]float64{
		ScoreHandshape:   value,
		ScoreOrientation: value,
		ScoreLocation:    value,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
