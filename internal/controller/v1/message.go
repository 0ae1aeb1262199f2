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

type Message struct {
	fx.In

	MessageService *service.Message
	Redis          *redis.Client
	RedSync        *redsync.Redsync
}

func RegisterMessage(v1 *svr.V1, c Message) {
	v1.Get("/messages", authOnly, c.GetMessages)
	v1.Post("/messages", authOnly, idempotency(c.Redis, c.RedSync), c.SendMessage)
	v1.Post("/messages/:messageId/read", authOnly, c.MarkRead)
}

func (c *Message) GetMessages(ctx *fiber.Ctx) error {
	var query types.MessageListQuery
	if err := rekuest.ValidQuery(ctx, &query); err != nil {
		return err
	}

	messages, err := c.MessageService.List(ctx.UserContext(), middlewares.Requester(ctx), query.PropertyID)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(messages)
}

func (c *Message) SendMessage(ctx *fiber.Ctx) error {
	var request types.SendMessageRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	message, err := c.MessageService.Send(ctx.UserContext(), middlewares.Requester(ctx), &request)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(message)
}

func (c *Message) MarkRead(ctx *fiber.Ctx) error {
	messageID, err := rekuest.ValidID(ctx, "messageId")
	if err != nil {
		return err
	}

	if err := c.MessageService.MarkRead(ctx.UserContext(), middlewares.Requester(ctx), messageID); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}
