package inferenceService

import (
	"context"
	"math/rand/v2"
	"time"

	"SignCoach/internal/api/inference"
	vocabularyRepository "SignCoach/internal/api/vocabulary/repository"
	"SignCoach/pkg/landmark"
	"SignCoach/pkg/redis"
	"SignCoach/pkg/utils"
	"github.com/sirupsen/logrus"
)

type IInferenceService interface {
	Infer(ctx context.Context, req inference.InferenceRequest) *inference.InferenceResponse
}

type inferenceService struct {
	log           *logrus.Logger
	detector      landmark.IDetector
	cache         redis.ILandmarkCache
	vocabulary    vocabularyRepository.IVocabulary
	utils         utils.IUtils
	random        func() float64
	maxDimension  uint
	detectTimeout time.Duration
}

type Option func(*inferenceService)

// WithRandom replaces the [0,1) source used to draw confidences.
func WithRandom(random func() float64) Option {
	return func(s *inferenceService) {
		s.random = random
	}
}

// WithMaxDimension caps the longest image side sent to the detector.
func WithMaxDimension(maxDimension uint) Option {
	return func(s *inferenceService) {
		s.maxDimension = maxDimension
	}
}

func WithDetectTimeout(timeout time.Duration) Option {
	return func(s *inferenceService) {
		s.detectTimeout = timeout
	}
}

func NewInferenceService(
	log *logrus.Logger,
	detector landmark.IDetector,
	cache redis.ILandmarkCache,
	vocabulary vocabularyRepository.IVocabulary,
	utils utils.IUtils,
	opts ...Option,
) IInferenceService {
	s := &inferenceService{
		log:           log,
		detector:      detector,
		cache:         cache,
		vocabulary:    vocabulary,
		utils:         utils,
		random:        rand.Float64,
		maxDimension:  640,
		detectTimeout: 5 * time.Second,
	}
	if s.cache == nil {
		s.cache = redis.NewNoop()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
