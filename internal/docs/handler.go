package docs

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/felps-dev/i-revenue-api/internal/apperr"
)

//go:embed openapi.json
var openapiSpec []byte

const sessionCookieName = "docs_session"

// Handler serves the documentation routes.  When Username is empty the docs
// are open and the session gate is skipped entirely.
type Handler struct {
	Username string
	Password string
	Sessions *SessionStore
}

func NewHandler(username, password string, sessions *SessionStore) *Handler {
	return &Handler{Username: username, Password: password, Sessions: sessions}
}

// Register mounts the docs routes on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/docs", h.UI)
	e.GET("/docs/login", h.LoginPage)
	e.POST("/docs/login", h.Login)
	e.POST("/docs/logout", h.Logout)
	e.GET("/openapi.json", h.OpenAPI)
}

func (h *Handler) protected() bool { return h.Username != "" }

// authorized checks the docs_session cookie against the store.
func (h *Handler) authorized(c echo.Context) bool {
	if !h.protected() {
		return true
	}
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return h.Sessions.Valid(cookie.Value)
}

// UI serves the Swagger UI page, redirecting HTML clients to the login form
// when the session is missing or expired.
func (h *Handler) UI(c echo.Context) error {
	if !h.authorized(c) {
		return c.Redirect(http.StatusFound, "/docs/login")
	}
	return c.HTML(http.StatusOK, swaggerPage)
}

// OpenAPI serves the machine-readable document.  Unlike /docs this is consumed
// by tools, so an unauthorized request gets a 401 JSON envelope instead of a
// redirect.
func (h *Handler) OpenAPI(c echo.Context) error {
	if !h.authorized(c) {
		return apperr.New(http.StatusUnauthorized, apperr.CodeInvalidToken, "Usuário não autenticado")
	}
	return c.JSONBlob(http.StatusOK, openapiSpec)
}

// LoginPage serves the docs login form.
func (h *Handler) LoginPage(c echo.Context) error {
	if !h.protected() || h.authorized(c) {
		return c.Redirect(http.StatusFound, "/docs")
	}
	return c.HTML(http.StatusOK, loginPage)
}

// Login validates the submitted form credentials and opens a session.
func (h *Handler) Login(c echo.Context) error {
	if !h.protected() {
		return c.Redirect(http.StatusFound, "/docs")
	}
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username != h.Username || password != h.Password {
		return c.HTML(http.StatusUnauthorized, loginPageError)
	}

	token, err := h.Sessions.Create()
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(DefaultSessionTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/docs")
}

// Logout drops the session and clears the cookie.
func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		h.Sessions.Delete(cookie.Value)
	}
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return c.Redirect(http.StatusFound, "/docs/login")
}
