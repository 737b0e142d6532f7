package config

import (
	contextPkg "SignCoach/pkg/context"
	"SignCoach/pkg/handlerUtil"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	errHandler := handlerUtil.New(logger)

	app := fiber.New(
		fiber.Config{
			AppName:           "SignCoach ML Service",
			BodyLimit:         50 * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     false,
			CaseSensitive:     true,
			EnablePrintRoutes: false,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ErrorHandler: func(ctx *fiber.Ctx, err error) error {
				requestID := contextPkg.GetRequestID(contextPkg.FromFiberCtx(ctx))
				return errHandler.Handle(ctx, requestID, err, ctx.Path(), "fiber")
			},
		})

	return app
}
