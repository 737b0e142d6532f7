package inferenceService

import (
	"context"
	"time"

	"SignCoach/internal/api/inference"
	"SignCoach/internal/entity"
	"SignCoach/pkg/log"
	"SignCoach/pkg/metrics"
	"SignCoach/pkg/redis"
	"SignCoach/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Placeholder judgment: the "A" target is always marked wrong so the client
// can exercise its corrective feedback, every other target is marked right.
const alwaysIncorrectTarget = "A"

var (
	feedbackCorrect   = []string{"Great job!", "Perfect form."}
	feedbackIncorrect = []string{"Try rotating your wrist.", "Check your hand shape."}
	feedbackWaiting   = []string{"Waiting for hand..."}
)

const (
	correctConfidenceMin   = 0.85
	correctConfidenceMax   = 0.99
	incorrectConfidenceMin = 0.3
	incorrectConfidenceMax = 0.5

	correctScore   = 0.9
	incorrectScore = 0.4
)

func (s *inferenceService) Infer(ctx context.Context, req inference.InferenceRequest) *inference.InferenceResponse {
	entry := log.WithRequestID(s.log, ctx).WithField("target_sign_id", req.TargetSignID)
	if s.vocabulary != nil {
		if sign, ok := s.vocabulary.Lookup(req.TargetSignID); ok {
			entry = entry.WithField("sign_name", sign.Name)
		}
	}

	landmarks := []entity.Landmark{}
	handDetected := false

	decoded := s.utils.DecodeBase64Image(req.Image)
	entry = entry.WithField("image", decoded.Status.String())
	switch decoded.Status {
	case utils.ImageDecodeFailed:
		metrics.ImageDecodeFailures.Inc()
		entry.WithField("error", decoded.Err.Error()).Warn("Error processing image, continuing without it")
	case utils.ImageDecoded:
		if hand := s.detectHand(ctx, entry, decoded); len(hand) > 0 {
			handDetected = true
			landmarks = []entity.Landmark(hand)
		}
	}

	if !handDetected && !req.HasFeatures() {
		metrics.InferenceTotal.WithLabelValues(metrics.OutcomeWaiting).Inc()
		entry.Debug("No hand detected and no features supplied")
		return waitingResponse()
	}

	res := s.judge(req.TargetSignID, landmarks)

	outcome := metrics.OutcomeCorrect
	if !res.IsCorrect {
		outcome = metrics.OutcomeIncorrect
	}
	metrics.InferenceTotal.WithLabelValues(outcome).Inc()

	entry.WithFields(log.Fields{
		"hand_detected": handDetected,
		"is_correct":    res.IsCorrect,
		"confidence":    res.Confidence,
	}).Debug("Inference completed")

	return res
}

func waitingResponse() *inference.InferenceResponse {
	return &inference.InferenceResponse{
		PredictedSignID: inference.PredictionNone,
		Confidence:      0,
		IsCorrect:       false,
		Feedback:        append([]string(nil), feedbackWaiting...),
		Scores:          inference.Scores(0),
		Landmarks:       []entity.Landmark{},
	}
}

func (s *inferenceService) judge(target string, landmarks []entity.Landmark) *inference.InferenceResponse {
	if target == alwaysIncorrectTarget {
		return &inference.InferenceResponse{
			PredictedSignID: inference.PredictionUnknown,
			Confidence:      s.uniform(incorrectConfidenceMin, incorrectConfidenceMax),
			IsCorrect:       false,
			Feedback:        append([]string(nil), feedbackIncorrect...),
			Scores:          inference.Scores(incorrectScore),
			Landmarks:       landmarks,
		}
	}

	return &inference.InferenceResponse{
		PredictedSignID: target,
		Confidence:      s.uniform(correctConfidenceMin, correctConfidenceMax),
		IsCorrect:       true,
		Feedback:        append([]string(nil), feedbackCorrect...),
		Scores:          inference.Scores(correctScore),
		Landmarks:       landmarks,
	}
}

func (s *inferenceService) uniform(lo, hi float64) float64 {
	return lo + s.random()*(hi-lo)
}

// detectHand returns the landmarks of the first detected hand, or nil when no
// hand was found or detection failed.
func (s *inferenceService) detectHand(ctx context.Context, entry *logrus.Entry, decoded utils.ImageDecodeResult) entity.HandLandmarks {
	key := redis.CacheKey(decoded.Raw)
	if cached, hit, err := s.cache.GetLandmarks(ctx, key); err != nil {
		entry.WithField("error", err.Error()).Warn("Landmark cache lookup failed")
	} else if hit {
		metrics.LandmarkCacheHits.Inc()
		return cached.FirstHand()
	}

	frame, err := s.utils.PrepareForDetection(decoded.Image, s.maxDimension)
	if err != nil {
		entry.WithField("error", err.Error()).Warn("Failed to prepare image for detection")
		return nil
	}

	detectCtx, cancel := context.WithTimeout(ctx, s.detectTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.detector.Detect(detectCtx, frame)
	metrics.DetectorLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DetectorErrors.Inc()
		entry.WithField("error", err.Error()).Error("Hand landmark detection failed, treating as no hand")
		return nil
	}

	if err := s.cache.SetLandmarks(ctx, key, result); err != nil {
		entry.WithField("error", err.Error()).Warn("Failed to cache landmarks")
	}

	return result.FirstHand()
}
