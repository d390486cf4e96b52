package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/agencyhq/go-agency-ledger/internal/common/log"
)

// Context tags the request context with the request id set by echo's RequestID middleware,
// so every log line of the request carries it.
func (m *AppMiddleware) Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			if id != "" {
				c.SetRequest(req.WithContext(log.WithCorrelationID(req.Context(), id)))
			}

			return next(c)
		}
	}
}
