package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	inferenceService "SignCoach/internal/api/inference/service"
	vocabularyRepository "SignCoach/internal/api/vocabulary/repository"
	"SignCoach/internal/config"
	"SignCoach/internal/middleware"
	"SignCoach/pkg/landmark"
	"SignCoach/pkg/log"
	"SignCoach/pkg/redis"
	"SignCoach/pkg/validation"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	vocabulary, err := vocabularyRepository.Load(os.Getenv("VOCABULARY_PATH"))
	if err != nil {
		logger.Fatalf("Error loading sign vocabulary: %v", err)
	}
	logger.Infof("Loaded %d signs", vocabulary.Len())

	detectTimeout := config.GetEnvDuration(logger, "LANDMARK_DETECTOR_TIMEOUT", landmark.DefaultReadTimeout)
	detector := landmark.NewWebSocketClient(landmark.Config{
		URL:         config.GetEnv("LANDMARK_DETECTOR_URL", "ws://localhost:8000/api/v1/hands/ws"),
		Options:     landmark.DefaultOptions(),
		ReadTimeout: detectTimeout,
	}, logger)

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), detectTimeout)
	if err := detector.Connect(connectCtx); err != nil {
		logger.Warnf("Hand landmark service unavailable, will retry on demand: %v", err)
	}
	cancelConnect()

	landmarkCache := redis.New(redis.Config{
		Address:  os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       config.GetEnvInt(logger, "REDIS_DB", 0),
		TTL:      config.GetEnvDuration(logger, "LANDMARK_CACHE_TTL", redis.DefaultTTL),
	}, logger)

	fiberApp := config.NewFiber(logger)
	validator := validation.New()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithMiddleware(middleware.Config{
			RateLimit: rate.Limit(config.GetEnvFloat(logger, "RATE_LIMIT_RPS", 50)),
			Burst:     config.GetEnvInt(logger, "RATE_LIMIT_BURST", 100),
		}),
		config.WithVocabulary(vocabulary),
		config.WithLandmarkDetector(detector),
		config.WithLandmarkCache(landmarkCache),
		config.WithInferenceOptions(
			inferenceService.WithMaxDimension(uint(config.GetEnvInt(logger, "DETECTION_MAX_DIMENSION", 640))),
			inferenceService.WithDetectTimeout(detectTimeout),
		),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
