package handlerUtil

import (
	"errors"

	"SignCoach/internal/api/inference"
	"SignCoach/internal/api/vocabulary"
	"SignCoach/pkg/log"
	"SignCoach/pkg/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string                `json:"error"`
	Code    string                `json:"code,omitempty"`
	Details []response.FieldError `json:"details,omitempty"`
	TraceID string                `json:"trace_id,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// Describe maps err to the status and body sent to the client. It is shared by
// the HTTP and websocket handlers.
func (h *ErrorHandler) Describe(requestID string, err error, path string, operation string) (int, ErrorResponse) {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	var validationErr *response.ValidationError
	if errors.As(err, &validationErr) {
		h.logger.WithFields(fields).Warn("Validation failed")
		return fiber.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Validation failed",
			Code:    "VALIDATION_ERROR",
			Details: validationErr.Fields,
		}
	}

	if errors.Is(err, inference.ErrInvalidJSON) {
		h.logger.WithFields(fields).Warn("Malformed request body")
		return fiber.StatusBadRequest, ErrorResponse{
			Error: "Request body must be a JSON object",
			Code:  "INVALID_JSON",
		}
	}

	if errors.Is(err, vocabulary.ErrSignNotFound) {
		h.logger.WithFields(fields).Warn("Sign not found")
		return fiber.StatusNotFound, ErrorResponse{
			Error: "Sign not found",
			Code:  "SIGN_NOT_FOUND",
		}
	}

	if errors.Is(err, inference.ErrInternalServerError) {
		traceID := log.ErrorWithTraceID(fields, "Internal server error")
		return fiber.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			TraceID: traceID,
		}
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields["code"] = respErr.Code
		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return respErr.Code, ErrorResponse{Error: err.Error()}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		h.logger.WithFields(fields).Warn("Request rejected")
		return fiberErr.Code, ErrorResponse{Error: fiberErr.Message}
	}

	traceID := log.ErrorWithTraceID(fields, "Unexpected error")
	return fiber.StatusInternalServerError, ErrorResponse{
		Error:   "An unexpected error occurred",
		TraceID: traceID,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	status, body := h.Describe(requestID, err, path, operation)
	return c.Status(status).JSON(body)
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{
		Error: utils.StatusMessage(fiber.StatusRequestTimeout),
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
