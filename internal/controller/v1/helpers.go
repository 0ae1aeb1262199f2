package v1

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/fiberstore"
	"tolet.dev/backend/internal/pkg/middlewares"
)

var (
	ownerOrAdmin = middlewares.RequireRole(model.RoleOwner, model.RoleAdmin)
	authOnly     = middlewares.RequireAuth()
)

// idempotency replays the saved response of a write retried with the same
// key. Keys are scoped per requester.
func idempotency(client *redis.Client, rs *redsync.Redsync) fiber.Handler {
	return middlewares.Idempotency(&middlewares.IdempotencyConfig{
		Lifetime:  constant.IdempotencyKeyLifetime,
		KeyHeader: constant.IdempotencyKeyHeader,
		KeepResponseHeaders: []string{
			fiber.HeaderContentType,
			fiber.HeaderCacheControl,
		},
		Storage: fiberstore.NewRedis(client, "idempotency:"),
		RedSync: rs,
		Scope: func(c *fiber.Ctx) string {
			return middlewares.Requester(c).UserID
		},
	})
}
