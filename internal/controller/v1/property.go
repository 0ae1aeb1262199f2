package v1

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/cachectrl"
	"tolet.dev/backend/internal/pkg/middlewares"
	"tolet.dev/backend/internal/server/svr"
	"tolet.dev/backend/internal/service"
	"tolet.dev/backend/internal/util/rekuest"
)

type Property struct {
	fx.In

	PropertyService *service.Property
	Redis           *redis.Client
	RedSync         *redsync.Redsync
}

func RegisterProperty(v1 *svr.V1, c Property) {
	v1.Get("/properties", c.GetProperties)
	v1.Get("/properties/:propertyId", c.GetPropertyByID)
	v1.Post("/properties", ownerOrAdmin, idempotency(c.Redis, c.RedSync), c.CreateProperty)
	v1.Patch("/properties/:propertyId", ownerOrAdmin, c.UpdateProperty)
	v1.Post("/properties/:propertyId/availability", ownerOrAdmin, c.SetAvailability)
	v1.Delete("/properties/:propertyId", ownerOrAdmin, c.DeleteProperty)

	v1.Get("/me/properties", ownerOrAdmin, c.GetOwnProperties)
}

// GetProperties resolves the listing visible to the requester, narrowed by
// the optional location, familyType, minPrice, maxPrice and rooms filters.
func (c *Property) GetProperties(ctx *fiber.Ctx) error {
	var query types.PropertyListQuery
	if err := rekuest.ValidQuery(ctx, &query); err != nil {
		return err
	}
	criteria, err := query.Criteria()
	if err != nil {
		return err
	}

	// listings differ per requester
	cachectrl.OptOut(ctx)
	return ctx.JSON(c.PropertyService.ListVisible(ctx.UserContext(), middlewares.Requester(ctx), criteria))
}

func (c *Property) GetPropertyByID(ctx *fiber.Ctx) error {
	propertyID, err := rekuest.ValidID(ctx, "propertyId")
	if err != nil {
		return err
	}

	property, err := c.PropertyService.GetVisible(ctx.UserContext(), middlewares.Requester(ctx), propertyID)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(property)
}

func (c *Property) CreateProperty(ctx *fiber.Ctx) error {
	var request types.CreatePropertyRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	property, err := c.PropertyService.Create(ctx.UserContext(), middlewares.Requester(ctx), &request)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(property)
}

func (c *Property) UpdateProperty(ctx *fiber.Ctx) error {
	propertyID, err := rekuest.ValidID(ctx, "propertyId")
	if err != nil {
		return err
	}
	var request types.UpdatePropertyRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	property, err := c.PropertyService.Update(ctx.UserContext(), middlewares.Requester(ctx), propertyID, &request)
	if err != nil {
		return err
	}

	return ctx.JSON(property)
}

func (c *Property) SetAvailability(ctx *fiber.Ctx) error {
	propertyID, err := rekuest.ValidID(ctx, "propertyId")
	if err != nil {
		return err
	}
	var request types.AvailabilityRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	property, err := c.PropertyService.SetAvailability(ctx.UserContext(), middlewares.Requester(ctx), propertyID, *request.Available)
	if err != nil {
		return err
	}

	return ctx.JSON(property)
}

func (c *Property) DeleteProperty(ctx *fiber.Ctx) error {
	propertyID, err := rekuest.ValidID(ctx, "propertyId")
	if err != nil {
		return err
	}

	if err := c.PropertyService.Delete(ctx.UserContext(), middlewares.Requester(ctx), propertyID); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *Property) GetOwnProperties(ctx *fiber.Ctx) error {
	properties, err := c.PropertyService.ListOwned(ctx.UserContext(), middlewares.Requester(ctx))
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(properties)
}
