package svr

import (
	"github.com/gofiber/fiber/v2"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/middlewares"
)

type V1 struct {
	fiber.Router
}

// Admin routes require an authenticated ADMIN requester.
type Admin struct {
	fiber.Router
}

type Meta struct {
	fiber.Router
}

func CreateEndpointGroups(app *fiber.App) (*V1, *Admin, *Meta) {
	v1 := app.Group("/api/v1")
	admin := v1.Group("/admin", middlewares.RequireRole(model.RoleAdmin))
	meta := app.Group("/api/_/meta")

	return &V1{Router: v1}, &Admin{Router: admin}, &Meta{Router: meta}
}
