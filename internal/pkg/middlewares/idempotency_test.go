package middlewares

import (
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/pkg/apperr"
)

func TestIdempotency(t *testing.T) {
	var calls int32
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*apperr.Error); ok {
				return c.Status(e.StatusCode).SendString(e.ErrorCode)
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	app.Post("/", Idempotency(&IdempotencyConfig{
		Lifetime:  time.Hour,
		KeyHeader: constant.IdempotencyKeyHeader,
		Storage:   newMemoryStorage(),
	}), func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": n})
	})

	send := func(key, body string) (int, string, string) {
		req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
		if key != "" {
			req.Header.Set(constant.IdempotencyKeyHeader, key)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode, readBody(t, resp), resp.Header.Get(constant.IdempotencyHeader)
	}

	status, body, marker := send("abc123", `{"a":1}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"call":1}`, body)
	assert.Equal(t, "saved", marker)

	status, body, marker = send("abc123", `{"a":1}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"call":1}`, body, "expect the stored response to be replayed")
	assert.Equal(t, "hit", marker)

	status, body, _ = send("abc123", `{"a":2}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, apperr.CodeConflict, body)

	status, _, _ = send("not valid!", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body, _ = send("", `{"a":1}`)
	assert.Equal(t, fiber.StatusCreated, status)
	assert.JSONEq(t, `{"call":2}`, body)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
