package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeWaiting   = "waiting"
)

var (
	InferenceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signcoach_inference_total",
		Help: "Inference requests by outcome",
	}, []string{"outcome"})

	ImageDecodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signcoach_image_decode_failures_total",
		Help: "Images that could not be decoded and fell back to the no-image path",
	})

	DetectorErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signcoach_detector_errors_total",
		Help: "Failed calls to the hand landmark service",
	})

	DetectorLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signcoach_detector_latency_seconds",
		Help:    "Round trip latency of hand landmark detection",
		Buckets: prometheus.DefBuckets,
	})

	LandmarkCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signcoach_landmark_cache_hits_total",
		Help: "Detector results served from the landmark cache",
	})
)

// Handler exposes the default registry on a fiber route.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}
