package config

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func GetEnvInt(logger *logrus.Logger, key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.Warnf("Invalid %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func GetEnvFloat(logger *logrus.Logger, key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warnf("Invalid %s=%q, using %v", key, value, fallback)
		return fallback
	}
	return parsed
}

func GetEnvDuration(logger *logrus.Logger, key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warnf("Invalid %s=%q, using %s", key, value, fallback)
		return fallback
	}
	return parsed
}
