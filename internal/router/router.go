package router // package router defines how HTTP routes are registered for the API

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/felps-dev/i-revenue-api/internal/config"
	"github.com/felps-dev/i-revenue-api/internal/docs"
	"github.com/felps-dev/i-revenue-api/internal/handler"
	"github.com/felps-dev/i-revenue-api/internal/httpx"
	"github.com/felps-dev/i-revenue-api/internal/middleware"
	"github.com/felps-dev/i-revenue-api/internal/repository"
	"github.com/felps-dev/i-revenue-api/internal/validation"
)

// Deps carries everything the router wires into the Echo instance.  All
// shared mutable state (rate-limit buckets, docs sessions) lives in these
// explicitly-owned values, never in package globals.
type Deps struct {
	Cfg      config.Config
	Logger   *slog.Logger
	Limiter  *middleware.RateLimiter
	Sessions *docs.SessionStore
	Users    *repository.UserRepo
	Revenues *repository.RevenueRepo
}

// New builds the fully configured Echo instance.  The middleware chain is an
// explicit ordered list: recover, request logging, CORS, rate limiting; the
// bearer gate applies only to the /api group.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = httpx.ErrorHandler(d.Logger)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.Cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	}))
	e.Use(d.Limiter.Middleware())

	health := handler.NewHealthHandler(time.Now())
	e.GET("/health", health.Health)

	auth := handler.NewAuthHandler(d.Cfg, d.Users)
	g := e.Group("/auth")
	g.POST("/register", auth.Register)
	g.POST("/login", auth.Login)
	g.POST("/renew", auth.Renew)

	api := e.Group("/api")
	api.Use(middleware.BearerAuth(d.Cfg.JWTSecret))
	api.GET("/page", handler.Page)
	api.GET("/dashboard", handler.Dashboard)
	api.POST("/dashboard", handler.Dashboard)
	api.PUT("/dashboard", handler.Dashboard)
	api.PATCH("/dashboard", handler.Dashboard)
	api.DELETE("/dashboard", handler.Dashboard)

	revenues := handler.NewRevenueHandler(d.Revenues)
	api.POST("/revenues", revenues.Create)
	api.GET("/revenues", revenues.List)
	api.GET("/revenues/:id", revenues.Get)
	api.PUT("/revenues/:id", revenues.Update)
	api.DELETE("/revenues/:id", revenues.Delete)

	docsHandler := docs.NewHandler(d.Cfg.SwaggerUser, d.Cfg.SwaggerPass, d.Sessions)
	docsHandler.Register(e)

	return e
}
