package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/pkg/flog"
)

// RequestID mirrors the request id assigned by the logger chain into locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := flog.IDFromFiberCtx(c)
		if ok {
			c.Locals(constant.ContextKeyRequestID, id.String())
		}
		return c.Next()
	}
}
