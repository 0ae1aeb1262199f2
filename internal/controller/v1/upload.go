package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/cachectrl"
	"tolet.dev/backend/internal/pkg/middlewares"
	"tolet.dev/backend/internal/server/svr"
	"tolet.dev/backend/internal/service"
	"tolet.dev/backend/internal/util/rekuest"
)

type Upload struct {
	fx.In

	UploadService *service.Upload
}

func RegisterUpload(v1 *svr.V1, c Upload) {
	v1.Post("/uploads/property-image", ownerOrAdmin, c.PresignPropertyImage)
	v1.Post("/uploads/property-image/confirm", ownerOrAdmin, c.ConfirmPropertyImage)
}

func (c *Upload) PresignPropertyImage(ctx *fiber.Ctx) error {
	var request types.PresignImageRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	presigned, err := c.UploadService.PresignImage(ctx.UserContext(), middlewares.Requester(ctx).UserID, request.ContentType)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(presigned)
}

func (c *Upload) ConfirmPropertyImage(ctx *fiber.Ctx) error {
	var request types.ConfirmImageRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	publicURL, err := c.UploadService.ConfirmImage(ctx.UserContext(), middlewares.Requester(ctx).UserID, request.Key)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"key":       request.Key,
		"publicUrl": publicURL,
	})
}
