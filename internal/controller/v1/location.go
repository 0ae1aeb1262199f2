package v1

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/pkg/cachectrl"
	"tolet.dev/backend/internal/server/svr"
	"tolet.dev/backend/internal/service"
)

type Location struct {
	fx.In

	LocationService *service.Location
}

// the dataset is embedded, so every response is as old as the process
var locationsLoadedAt = time.Now()

func RegisterLocation(v1 *svr.V1, c Location) {
	v1.Get("/locations/divisions", c.GetDivisions)
	v1.Get("/locations/districts", c.GetDistricts)
	v1.Get("/locations/districts/:district/upazilas", c.GetUpazilas)
}

func (c *Location) GetDivisions(ctx *fiber.Ctx) error {
	cachectrl.OptInCustom(ctx, locationsLoadedAt, constant.LocationDataMaxAge)
	return ctx.JSON(c.LocationService.Divisions())
}

func (c *Location) GetDistricts(ctx *fiber.Ctx) error {
	cachectrl.OptInCustom(ctx, locationsLoadedAt, constant.LocationDataMaxAge)
	return ctx.JSON(c.LocationService.Districts(ctx.Query("division")))
}

func (c *Location) GetUpazilas(ctx *fiber.Ctx) error {
	district, err := url.PathUnescape(ctx.Params("district"))
	if err != nil {
		district = ctx.Params("district")
	}

	upazilas, err := c.LocationService.Upazilas(district)
	if err != nil {
		return err
	}

	cachectrl.OptInCustom(ctx, locationsLoadedAt, constant.LocationDataMaxAge)
	return ctx.JSON(upazilas)
}
