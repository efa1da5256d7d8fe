package httpx

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/felps-dev/i-revenue-api/internal/apperr"
)

// ErrorHandler returns the central echo.HTTPErrorHandler.  Domain errors
// (*apperr.Error) become error envelopes with their stable code and any
// extra headers; echo's own routing errors are mapped onto the same shape;
// everything else is logged and genericized to a 500 so internals never leak
// to clients.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var writeErr error
		switch e := err.(type) {
		case *apperr.Error:
			for k, v := range e.Headers {
				c.Response().Header().Set(k, v)
			}
			logger.Warn("request.handled_error",
				slog.String("http.request.method", c.Request().Method),
				slog.String("url.path", c.Request().URL.Path),
				slog.Int("http.response.status_code", e.Status),
				slog.String("code", e.Code),
				slog.String("message", e.Message),
			)
			writeErr = Fail(c, e.Status, e.Code, e.Message, e.Details...)

		case *echo.HTTPError:
			switch e.Code {
			case http.StatusNotFound:
				writeErr = Fail(c, http.StatusNotFound, apperr.CodeNotFound, "Rota não encontrada")
			case http.StatusMethodNotAllowed:
				writeErr = Fail(c, http.StatusMethodNotAllowed, apperr.CodeNotFound, "Rota não encontrada")
			case http.StatusBadRequest:
				// Echo raises 400 on malformed request bodies before any
				// handler runs.
				writeErr = Fail(c, http.StatusBadRequest, apperr.CodeValidationError, "Dados inválidos")
			default:
				logger.Error("request.unhandled_error",
					slog.String("http.request.method", c.Request().Method),
					slog.String("url.path", c.Request().URL.Path),
					slog.Int("http.response.status_code", e.Code),
					slog.String("error", err.Error()),
				)
				writeErr = Fail(c, http.StatusInternalServerError, apperr.CodeInternalError, "Erro interno do servidor")
			}

		default:
			logger.Error("request.unhandled_error",
				slog.String("http.request.method", c.Request().Method),
				slog.String("url.path", c.Request().URL.Path),
				slog.Int("http.response.status_code", http.StatusInternalServerError),
				slog.String("error", err.Error()),
			)
			writeErr = Fail(c, http.StatusInternalServerError, apperr.CodeInternalError, "Erro interno do servidor")
		}

		if writeErr != nil {
			logger.Error("request.write_error", slog.String("error", writeErr.Error()))
		}
	}
}
