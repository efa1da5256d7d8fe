package handler // declare the package name; contains HTTP handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/felps-dev/i-revenue-api/internal/httpx"
)

// HealthHandler answers liveness probes with the time elapsed since the
// process started.
type HealthHandler struct {
	StartedAt time.Time
}

func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{StartedAt: startedAt}
}

// Health reports that the service is up along with its uptime in seconds.
func (h *HealthHandler) Health(c echo.Context) error {
	uptime := fmt.Sprintf("%ds", int(time.Since(h.StartedAt).Seconds()))
	return httpx.OK(c, http.StatusOK, echo.Map{
		"message": "Serviço disponível",
		"uptime":  uptime,
	})
}
