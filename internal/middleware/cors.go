package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const corsAllowMethods = "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD"

// NewCORSMiddleware allows every origin, method and header with credentials.
// Browsers reject a literal "*" origin on credentialed requests, so the
// request Origin is echoed back instead.
func (m *middleware) NewCORSMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" {
			return c.Next()
		}

		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		c.Set(fiber.HeaderAccessControlAllowCredentials, "true")
		c.Vary(fiber.HeaderOrigin)

		if c.Method() != fiber.MethodOptions || c.Get(fiber.HeaderAccessControlRequestMethod) == "" {
			return c.Next()
		}

		c.Set(fiber.HeaderAccessControlAllowMethods, corsAllowMethods)
		if headers := c.Get(fiber.HeaderAccessControlRequestHeaders); headers != "" {
			c.Set(fiber.HeaderAccessControlAllowHeaders, headers)
		}
		c.Set(fiber.HeaderAccessControlMaxAge, "600")

		return c.SendStatus(fiber.StatusNoContent)
	}
}
