// Package httpx builds the uniform response envelopes every endpoint uses.
package httpx

import (
	"github.com/labstack/echo/v4"

	"github.com/felps-dev/i-revenue-api/internal/apperr"
)

// SuccessEnvelope wraps every successful response body.
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorEnvelope wraps every failed response body.
type ErrorEnvelope struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Errors  []apperr.Detail `json:"errors"`
}

// OK writes a success envelope with the standard "Sucesso" message.
func OK(c echo.Context, status int, data any) error {
	return c.JSON(status, SuccessEnvelope{Success: true, Status: status, Message: "Sucesso", Data: data})
}

// Fail writes an error envelope.  When no details are given a single detail
// mirroring code/message is emitted, so the errors list is never empty.
func Fail(c echo.Context, status int, code, message string, details ...apperr.Detail) error {
	if len(details) == 0 {
		details = []apperr.Detail{{Code: code, Message: message}}
	}
	return c.JSON(status, ErrorEnvelope{Success: false, Status: status, Message: message, Errors: details})
}
