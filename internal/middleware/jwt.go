package middleware // package middleware contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/felps-dev/i-revenue-api/internal/apperr"
	"github.com/felps-dev/i-revenue-api/internal/utils"
)

// authUserKey is the context key under which the authenticated user is
// stored.  Handlers read it back through AuthUserFrom.
const authUserKey = "auth_user"

// AuthUser is the identity extracted from a verified access token.
type AuthUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BearerAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's identity into the request context.  The provided
// secret must match the one used when issuing access tokens.  Refresh tokens
// are rejected here even when correctly signed: their type claim differs.
func BearerAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return apperr.New(http.StatusUnauthorized, apperr.CodeMissingToken, "Bearer é obrigatório").
					WithHeader(echo.HeaderWWWAuthenticate, "Bearer")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.Parse(raw, secret, utils.TokenTypeAccess)
			if err != nil {
				return apperr.New(http.StatusUnauthorized, apperr.CodeInvalidToken, "Usuário não autenticado").
					WithHeader(echo.HeaderWWWAuthenticate, apperr.Bearer(apperr.CodeInvalidToken))
			}

			c.Set(authUserKey, AuthUser{ID: claims.UserID, Name: claims.Name})
			return next(c)
		}
	}
}

// AuthUserFrom returns the identity stored by BearerAuth.  The second return
// is false on routes that did not pass through the middleware.
func AuthUserFrom(c echo.Context) (AuthUser, bool) {
	u, ok := c.Get(authUserKey).(AuthUser)
	return u, ok
}

// SetAuthUser injects an identity directly into the context.  Test helper.
func SetAuthUser(c echo.Context, u AuthUser) { c.Set(authUserKey, u) }
