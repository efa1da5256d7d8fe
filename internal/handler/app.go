package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/felps-dev/i-revenue-api/internal/httpx"
	"github.com/felps-dev/i-revenue-api/internal/middleware"
)

// Page is a protected sample route that echoes the authenticated identity
// back to the caller.
func Page(c echo.Context) error {
	user, _ := middleware.AuthUserFrom(c)
	return httpx.OK(c, http.StatusOK, echo.Map{
		"message":  "You are authorized",
		"authUser": user,
	})
}

// Dashboard serves the placeholder dashboard endpoint.  Every HTTP method
// returns the same empty collection while the real dashboard is built out.
func Dashboard(c echo.Context) error {
	return httpx.OK(c, http.StatusOK, []any{})
}
