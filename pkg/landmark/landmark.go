package landmark

import (
	"context"
	"errors"

	"SignCoach/internal/entity"
)

var (
	ErrNotConnected     = errors.New("not connected to hand landmark service")
	ErrDetectorResponse = errors.New("hand landmark service returned an error")
	ErrClosed           = errors.New("hand landmark client is closed")
)

// Options is the detector configuration sent with every frame.
type Options struct {
	StaticImageMode        bool    `json:"static_image_mode"`
	MaxNumHands            int     `json:"max_num_hands"`
	MinDetectionConfidence float64 `json:"min_detection_confidence"`
}

// DefaultOptions detects at most one hand in still images.
func DefaultOptions() Options {
	return Options{
		StaticImageMode:        true,
		MaxNumHands:            1,
		MinDetectionConfidence: 0.5,
	}
}

type IDetector interface {
	// Detect runs hand landmark detection on an encoded image frame.
	Detect(ctx context.Context, frame []byte) (*entity.HandDetectionResult, error)
	Connect(ctx context.Context) error
	IsConnected() bool
	Close() error
}
