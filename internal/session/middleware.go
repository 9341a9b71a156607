package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Middleware resolves the session cookie into a request identity. Missing,
// tampered, expired or blacklisted tokens leave the request anonymous; the
// request always proceeds.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil {
				return next(c)
			}

			claims, err := m.ParseToken(cookie.Value)
			if err != nil {
				return next(c)
			}

			if revoked, _ := m.blacklist.IsSessionBlacklisted(c.Request().Context(), claims.ID); revoked {
				return next(c)
			}

			c.Set(identityContextKey, &Identity{UserID: claims.UserID, Username: claims.Username})
			return next(c)
		}
	}
}

// RequireAuth gates protected routes. Anonymous callers are redirected to
// the login page with the originally requested path preserved in the next
// query parameter.
func (m *Manager) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.CurrentUser(c) == nil {
				return c.Redirect(http.StatusFound, LoginRedirectURL(c.Request().URL.Path))
			}
			return next(c)
		}
	}
}

// RequireAnonymous redirects authenticated users to the home page. Used on
// register, login and password reset pages.
func (m *Manager) RequireAnonymous() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.CurrentUser(c) != nil {
				return c.Redirect(http.StatusFound, "/home")
			}
			return next(c)
		}
	}
}
