package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/pkg/cachectrl"
	"tolet.dev/backend/internal/pkg/middlewares"
	"tolet.dev/backend/internal/server/svr"
	"tolet.dev/backend/internal/service"
)

type Profile struct {
	fx.In

	StatsService *service.Stats
}

func RegisterProfile(v1 *svr.V1, c Profile) {
	v1.Get("/me/stats", authOnly, c.GetStats)
}

func (c *Profile) GetStats(ctx *fiber.Ctx) error {
	stats, err := c.StatsService.ProfileStats(ctx.UserContext(), middlewares.Requester(ctx))
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(stats)
}
