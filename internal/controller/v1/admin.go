package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/model"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/cachectrl"
	"tolet.dev/backend/internal/server/svr"
	"tolet.dev/backend/internal/service"
	"tolet.dev/backend/internal/util/rekuest"
)

type Admin struct {
	fx.In

	AdminService *service.Admin
	UserService  *service.User
}

func RegisterAdmin(admin *svr.Admin, c Admin) {
	admin.Get("/properties/pending", c.GetPendingProperties)
	admin.Post("/properties/:propertyId/approve", c.ApproveProperty)
	admin.Post("/properties/:propertyId/reject", c.RejectProperty)

	admin.Get("/users", c.GetUsers)

	admin.Get("/caches", c.GetCaches)
	admin.Post("/purge", c.PurgeCache)
}

func (c *Admin) GetPendingProperties(ctx *fiber.Ctx) error {
	properties, err := c.AdminService.PendingProperties(ctx.UserContext())
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(properties)
}

func (c *Admin) ApproveProperty(ctx *fiber.Ctx) error {
	propertyID, err := rekuest.ValidID(ctx, "propertyId")
	if err != nil {
		return err
	}

	property, err := c.AdminService.Approve(ctx.UserContext(), propertyID)
	if err != nil {
		return err
	}

	return ctx.JSON(property)
}

func (c *Admin) RejectProperty(ctx *fiber.Ctx) error {
	propertyID, err := rekuest.ValidID(ctx, "propertyId")
	if err != nil {
		return err
	}

	if err := c.AdminService.Reject(ctx.UserContext(), propertyID); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *Admin) GetUsers(ctx *fiber.Ctx) error {
	var query types.UserListQuery
	if err := rekuest.ValidQuery(ctx, &query); err != nil {
		return err
	}

	var role *model.Role
	if query.Role != "" {
		r := model.Role(query.Role)
		role = &r
	}

	users, err := c.UserService.GetUsers(ctx.UserContext(), role)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(users)
}

func (c *Admin) GetCaches(ctx *fiber.Ctx) error {
	return ctx.JSON(modelcache.Names())
}

func (c *Admin) PurgeCache(ctx *fiber.Ctx) error {
	var request types.PurgeCacheRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	if err := c.AdminService.PurgeCache(ctx.UserContext(), request.Pairs); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
