package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"SignCoach/internal/api/inference"
	inferenceHandler "SignCoach/internal/api/inference/handler"
	inferenceService "SignCoach/internal/api/inference/service"
	vocabularyHandler "SignCoach/internal/api/vocabulary/handler"
	vocabularyRepository "SignCoach/internal/api/vocabulary/repository"
	"SignCoach/internal/middleware"
	"SignCoach/pkg/landmark"
	"SignCoach/pkg/metrics"
	"SignCoach/pkg/redis"
	"SignCoach/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine           *fiber.App
	log              *logrus.Logger
	middleware       middleware.Middleware
	validator        *validator.Validate
	utils            utils.IUtils
	handlers         []handler
	vocabulary       vocabularyRepository.IVocabulary
	detector         landmark.IDetector
	landmarkCache    redis.ILandmarkCache
	inferenceOptions []inferenceService.Option
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.vocabulary == nil {
		return nil, fmt.Errorf("vocabulary is required")
	}
	if server.detector == nil {
		return nil, fmt.Errorf("landmark detector is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, middleware.Config{})
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.landmarkCache == nil {
		server.landmarkCache = redis.NewNoop()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithMiddleware(cfg middleware.Config) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, cfg)
		return nil
	}
}

func WithVocabulary(vocabulary vocabularyRepository.IVocabulary) ServerOption {
	return func(s *Server) error {
		if vocabulary == nil || vocabulary.Len() == 0 {
			return errors.New("vocabulary must contain at least one sign")
		}
		s.vocabulary = vocabulary
		return nil
	}
}

func WithLandmarkDetector(detector landmark.IDetector) ServerOption {
	return func(s *Server) error {
		s.detector = detector
		return nil
	}
}

func WithLandmarkCache(cache redis.ILandmarkCache) ServerOption {
	return func(s *Server) error {
		s.landmarkCache = cache
		return nil
	}
}

func WithInferenceOptions(opts ...inferenceService.Option) ServerOption {
	return func(s *Server) error {
		s.inferenceOptions = append(s.inferenceOptions, opts...)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Inference Domain
	inferenceServices := inferenceService.NewInferenceService(s.log, s.detector, s.landmarkCache, s.vocabulary, s.utils, s.inferenceOptions...)
	inferenceHandlers := inferenceHandler.New(s.log, s.validator, s.middleware, inferenceServices)

	// Vocabulary Domain
	vocabularyHandlers := vocabularyHandler.New(s.log, s.middleware, s.vocabulary)

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewCORSMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.engine.Get("/metrics", metrics.Handler())
	s.handlers = append(s.handlers, inferenceHandlers, vocabularyHandlers)

	for _, h := range s.handlers {
		h.Start(s.engine)
	}
}

func (s *Server) Run() error {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "5000"
	}

	s.log.Infof("SignCoach ML service listening on :%s", port)
	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if err := s.engine.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := s.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close landmark detector: %w", err))
	}
	if err := s.landmarkCache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close landmark cache: %w", err))
	}

	return errors.Join(errs...)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(inference.MessageResponse{Message: "SignCoach ML Service"})
	})

	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(inference.HealthResponse{Status: "ok", Service: "ml-service"})
	})
}

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second
