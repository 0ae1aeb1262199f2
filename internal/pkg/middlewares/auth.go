package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/flog"
	"tolet.dev/backend/internal/pkg/session"
	"tolet.dev/backend/internal/pkg/visibility"
)

// InjectRequester resolves the session of every request into a
// visibility.Requester. Missing, malformed or expired tokens resolve to
// visibility.Anonymous rather than failing the request.
func InjectRequester(sessions *session.Manager, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requester := visibility.Anonymous

		if token := tokenFromRequest(c, cookieName); token != "" {
			claims, err := sessions.Verify(token)
			if err != nil {
				flog.DebugFrom(c).
					Err(err).
					Str("evt.name", "auth.session.rejected").
					Msg("ignoring invalid session token")
			} else {
				requester = visibility.Requester{Role: claims.Role, UserID: claims.Subject}
				flog.With(c, "user_id", claims.Subject)
			}
		}

		c.Locals(constant.LocalsKeyRequester, requester)
		return c.Next()
	}
}

func tokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if auth := c.Get(fiber.HeaderAuthorization); auth != "" {
		realm, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(realm, constant.SessionAuthorizationRealm) {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(cookieName)
}

// RequesterFromCtx returns the requester injected by InjectRequester.
func RequesterFromCtx(c *fiber.Ctx) (visibility.Requester, bool) {
	r, ok := c.Locals(constant.LocalsKeyRequester).(visibility.Requester)
	return r, ok
}

// Requester is RequesterFromCtx falling back to visibility.Anonymous.
func Requester(c *fiber.Ctx) visibility.Requester {
	if r, ok := RequesterFromCtx(c); ok {
		return r
	}
	return visibility.Anonymous
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !Requester(c).Authenticated() {
			return apperr.ErrUnauthorized
		}
		return c.Next()
	}
}

// RequireRole rejects anonymous requests with 401 and requests from other
// roles with 403.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r := Requester(c)
		if !r.Authenticated() {
			return apperr.ErrUnauthorized
		}
		if !lo.Contains(roles, r.Role) {
			return apperr.ErrForbidden.Msg("this action requires one of the roles: %s", strings.Join(lo.Map(roles, func(r model.Role, _ int) string { return string(r) }), ", "))
		}
		return c.Next()
	}
}
