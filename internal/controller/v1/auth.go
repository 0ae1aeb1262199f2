package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/cachectrl"
	"tolet.dev/backend/internal/pkg/fiberstore"
	"tolet.dev/backend/internal/pkg/middlewares"
	"tolet.dev/backend/internal/server/svr"
	"tolet.dev/backend/internal/service"
	"tolet.dev/backend/internal/util/rekuest"
)

type Auth struct {
	fx.In

	AuthService *service.Auth
	UserService *service.User
	Config      *appconfig.Config
	Redis       *redis.Client
}

func RegisterAuth(v1 *svr.V1, c Auth) {
	limit := limiter.New(limiter.Config{
		Max:               c.Config.AuthRateLimit,
		Expiration:        constant.AuthRateLimitWindowSec * time.Second,
		Storage:           fiberstore.NewRedis(c.Redis, "limiter:auth:"),
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(ctx *fiber.Ctx) error {
			return apperr.ErrTooManyRequests.Msg("too many sign in attempts, please try again in a minute")
		},
	})

	v1.Post("/auth/register", limit, c.Register)
	v1.Post("/auth/login", limit, c.Login)
	v1.Post("/auth/logout", c.Logout)
	v1.Get("/auth/me", authOnly, c.Me)
}

func (c *Auth) Register(ctx *fiber.Ctx) error {
	var request types.RegisterRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	session, err := c.AuthService.Register(ctx.UserContext(), &request)
	if err != nil {
		return err
	}

	return c.respondSession(ctx.Status(fiber.StatusCreated), session)
}

func (c *Auth) Login(ctx *fiber.Ctx) error {
	var request types.LoginRequest
	if err := rekuest.ValidBody(ctx, &request); err != nil {
		return err
	}

	session, err := c.AuthService.Login(ctx.UserContext(), &request)
	if err != nil {
		return err
	}

	return c.respondSession(ctx, session)
}

func (c *Auth) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(c.cookie("", time.Unix(0, 0)))
	cachectrl.OptOut(ctx)
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *Auth) Me(ctx *fiber.Ctx) error {
	user, err := c.UserService.GetUserByID(ctx.UserContext(), middlewares.Requester(ctx).UserID)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(user)
}

func (c *Auth) respondSession(ctx *fiber.Ctx, session *service.Session) error {
	ctx.Cookie(c.cookie(session.Token, session.ExpiresAt))
	cachectrl.OptOut(ctx)

	return ctx.JSON(types.SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UnixMilli(),
		User:      session.User,
	})
}

func (c *Auth) cookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     c.Config.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   c.Config.SessionCookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
