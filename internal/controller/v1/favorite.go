package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/pkg/cachectrl"
	"tolet.dev/backend/internal/pkg/middlewares"
	"tolet.dev/backend/internal/server/svr"
	"tolet.dev/backend/internal/service"
	"tolet.dev/backend/internal/util/rekuest"
)

type Favorite struct {
	fx.In

	FavoriteService *service.Favorite
}

func RegisterFavorite(v1 *svr.V1, c Favorite) {
	v1.Get("/favorites", authOnly, c.GetFavorites)
	v1.Post("/favorites/:propertyId", authOnly, c.AddFavorite)
	v1.Delete("/favorites/:propertyId", authOnly, c.RemoveFavorite)
}

func (c *Favorite) GetFavorites(ctx *fiber.Ctx) error {
	properties, err := c.FavoriteService.List(ctx.UserContext(), middlewares.Requester(ctx))
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(properties)
}

func (c *Favorite) AddFavorite(ctx *fiber.Ctx) error {
	propertyID, err := rekuest.ValidID(ctx, "propertyId")
	if err != nil {
		return err
	}

	if err := c.FavoriteService.Add(ctx.UserContext(), middlewares.Requester(ctx), propertyID); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *Favorite) RemoveFavorite(ctx *fiber.Ctx) error {
	propertyID, err := rekuest.ValidID(ctx, "propertyId")
	if err != nil {
		return err
	}

	if err := c.FavoriteService.Remove(ctx.UserContext(), middlewares.Requester(ctx), propertyID); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
