package vocabularyHandler

import (
	"SignCoach/internal/api/vocabulary"
	"SignCoach/pkg/handlerUtil"
	"SignCoach/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (h *VocabularyHandler) ListSigns(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, vocabulary.SignListResponse{
		Data: h.vocabulary.List(),
	})
}

func (h *VocabularyHandler) GetSign(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	sign, ok := h.vocabulary.Lookup(id)
	if !ok {
		return errHandler.Handle(ctx, requestID, vocabulary.ErrSignNotFound, ctx.Path(), "lookup_sign")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"sign_id":    sign.ID,
	}).Debug("Sign lookup successful")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, vocabulary.SignResponse{Data: sign})
}
