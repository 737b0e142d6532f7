package middleware

import (
	"errors"
	"fmt"
	"time"

	"SignCoach/pkg/log"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type loggingMiddleware struct {
	logger *logrus.Logger
}

func newLoggingMiddleware(logger *logrus.Logger) *loggingMiddleware {
	return &loggingMiddleware{
		logger: logger,
	}
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return m.loggingMiddleware.handle
}

func (l *loggingMiddleware) handle(c *fiber.Ctx) error {
	start := time.Now()

	requestID, ok := c.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		requestID = "unknown"
	}

	err := c.Next()

	latency := time.Since(start)
	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}
	}

	logFields := log.Fields{
		"request_id":    requestID,
		"method":        c.Method(),
		"path":          c.Path(),
		"status":        status,
		"latency_ms":    latency.Milliseconds(),
		"ip":            c.IP(),
		"user_agent":    c.Get("User-Agent"),
		"response_size": len(c.Response().Body()),
	}

	if body := c.Request().Body(); len(body) > 0 {
		logFields["request_body"] = sanitizeRequestBody(body)
	}

	entry := l.logger.WithFields(logFields)
	if err != nil {
		entry = entry.WithField("error", err.Error())
	}

	if status >= 500 {
		entry.Error("Server error")
	} else if status >= 400 {
		entry.Warn("Client error")
	} else {
		entry.Info("Success")
	}

	return err
}

// sanitizeRequestBody summarizes the bulky inference fields so frames are not
// written to the log.
func sanitizeRequestBody(body []byte) string {
	var jsonBody map[string]interface{}
	if err := jsoniter.Unmarshal(body, &jsonBody); err != nil || jsonBody == nil {
		return "[non-JSON body]"
	}

	if image, ok := jsonBody["image"].(string); ok {
		jsonBody["image"] = fmt.Sprintf("[%d chars]", len(image))
	}
	if features, ok := jsonBody["features"].([]interface{}); ok {
		jsonBody["features"] = fmt.Sprintf("[%d values]", len(features))
	}

	sanitized, err := jsoniter.Marshal(jsonBody)
	if err != nil {
		return "[sanitization-failed]"
	}

	return string(sanitized)
}
