package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"SignCoach/internal/entity"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "signcoach:landmarks:"

const DefaultTTL = 10 * time.Minute

// ILandmarkCache stores detector results keyed by the decoded image bytes.
type ILandmarkCache interface {
	GetLandmarks(ctx context.Context, key string) (*entity.HandDetectionResult, bool, error)
	SetLandmarks(ctx context.Context, key string, result *entity.HandDetectionResult) error
	Close() error
}

type Config struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type redisClient struct {
	client *redis.Client
	ttl    time.Duration
}

// CacheKey derives the cache key for a decoded image.
func CacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// New connects to Redis. An empty address yields a cache that never hits.
func New(cfg Config, logger *logrus.Logger) ILandmarkCache {
	if cfg.Address == "" {
		logger.Info("Redis address not configured, landmark cache disabled")
		return noopCache{}
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}

	logger.Infof("Connecting to Redis at %s...", cfg.Address)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.WithField("address", cfg.Address).Errorf("Failed to connect to Redis: %v", err)
	} else {
		logger.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client, ttl: cfg.TTL}
}

func (r *redisClient) GetLandmarks(ctx context.Context, key string) (*entity.HandDetectionResult, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to get landmarks for key %s: %w", key, err)
	}

	var result entity.HandDetectionResult
	if err := jsoniter.Unmarshal(val, &result); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached landmarks: %w", err)
	}
	return &result, true, nil
}

func (r *redisClient) SetLandmarks(ctx context.Context, key string, result *entity.HandDetectionResult) error {
	val, err := jsoniter.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode landmarks: %w", err)
	}
	if err := r.client.Set(ctx, key, val, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set landmarks for key %s: %w", key, err)
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}

type noopCache struct{}

func NewNoop() ILandmarkCache {
	return noopCache{}
}

func (noopCache) GetLandmarks(context.Context, string) (*entity.HandDetectionResult, bool, error) {
	return nil, false, nil
}

func (noopCache) SetLandmarks(context.Context, string, *entity.HandDetectionResult) error {
	return nil
}

func (noopCache) Close() error {
	return nil
}
