package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/session"
)

const testCookie = "tolet_session"

func testApp(sessions *session.Manager, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*apperr.Error); ok {
				return c.Status(e.StatusCode).JSON(fiber.Map{"code": e.ErrorCode})
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	app.Use(InjectRequester(sessions, testCookie))
	handlers := append(guards, func(c *fiber.Ctx) error {
		r := Requester(c)
		return c.JSON(fiber.Map{"role": r.Role, "userId": r.UserID})
	})
	app.Get("/", handlers...)
	return app
}

func TestInjectRequester(t *testing.T) {
	sessions := session.New([]byte("secret"), time.Hour)
	token, _, err := sessions.Issue(&model.User{UserID: "U1", Role: model.RoleOwner})
	require.NoError(t, err)

	app := testApp(sessions)

	t.Run("NoToken", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		body := readBody(t, resp)
		assert.Equal(t, "ANONYMOUS", gjson.Get(body, "role").String())
		assert.Empty(t, gjson.Get(body, "userId").String())
	})

	t.Run("BearerToken", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		body := readBody(t, resp)
		assert.Equal(t, "OWNER", gjson.Get(body, "role").String())
		assert.Equal(t, "U1", gjson.Get(body, "userId").String())
	})

	t.Run("Cookie", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderCookie, testCookie+"="+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "U1", gjson.Get(readBody(t, resp), "userId").String())
	})

	t.Run("GarbageTokenFallsBackToAnonymous", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "ANONYMOUS", gjson.Get(readBody(t, resp), "role").String())
	})
}

func TestRequireRole(t *testing.T) {
	sessions := session.New([]byte("secret"), time.Hour)
	renterToken, _, err := sessions.Issue(&model.User{UserID: "R1", Role: model.RoleRenter})
	require.NoError(t, err)
	adminToken, _, err := sessions.Issue(&model.User{UserID: "A1", Role: model.RoleAdmin})
	require.NoError(t, err)

	app := testApp(sessions, RequireRole(model.RoleAdmin))

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"Anonymous", "", fiber.StatusUnauthorized},
		{"WrongRole", renterToken, fiber.StatusForbidden},
		{"Allowed", adminToken, fiber.StatusOK},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if test.token != "" {
				req.Header.Set(fiber.HeaderAuthorization, "Bearer "+test.token)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, test.status, resp.StatusCode)
		})
	}
}
