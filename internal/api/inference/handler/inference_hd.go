package inferenceHandler

import (
	"context"
	"errors"
	"time"

	"SignCoach/internal/api/inference"
	contextPkg "SignCoach/pkg/context"
	"SignCoach/pkg/handlerUtil"
	"SignCoach/pkg/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func (h *InferenceHandler) InferSign(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"body_size":  len(ctx.Body()),
	}).Debug("Processing sign inference request")

	req, err := inference.DecodeRequest(ctx.Body(), h.validator)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "decode_request")
	}

	result := h.inferenceService.Infer(c, *req)
	if errors.Is(c.Err(), context.DeadlineExceeded) {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"timeout":    h.requestTimeout.String(),
		}).Warn("Sign inference timed out")
		return errHandler.HandleRequestTimeout(ctx)
	}

	h.log.WithFields(log.Fields{
		"request_id":        requestID,
		"path":              ctx.Path(),
		"predicted_sign_id": result.PredictedSignID,
		"is_correct":        result.IsCorrect,
		"landmarks":         len(result.Landmarks),
	}).Info("Sign inference completed")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
}

// handleInferenceWebSocket answers every text frame carrying an inference
// request with an inference response. Invalid frames get an error payload and
// the connection stays open.
func (h *InferenceHandler) handleInferenceWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals("X-Request-ID").(string)
	errHandler := handlerUtil.New(h.log)

	h.log.WithField("request_id", requestID).Info("Inference WebSocket client connected")
	defer h.log.WithField("request_id", requestID).Info("Inference WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			h.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Inference WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.TextMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var reply interface{}
		req, err := inference.DecodeRequest(message, h.validator)
		if err != nil {
			_, body := errHandler.Describe(requestID, err, "/infer-sign/ws", "decode_frame")
			reply = body
		} else {
			ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), h.requestTimeout)
			reply = h.inferenceService.Infer(ctx, *req)
			cancel()
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(reply); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}
