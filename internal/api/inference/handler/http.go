package inferenceHandler

import (
	"time"

	inferenceService "SignCoach/internal/api/inference/service"
	"SignCoach/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type InferenceHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	inferenceService inferenceService.IInferenceService
	requestTimeout   time.Duration
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	is inferenceService.IInferenceService,
) *InferenceHandler {
	return &InferenceHandler{
		inferenceService: is,
		log:              log,
		validator:        validator,
		middleware:       middleware,
		requestTimeout:   10 * time.Second,
	}
}

func (h *InferenceHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	srv.Use("/infer-sign/ws", wsMiddleware)
	srv.Get("/infer-sign/ws", websocket.New(h.handleInferenceWebSocket))

	srv.Post("/infer-sign", h.middleware.NewRateLimiter, h.InferSign)
}
