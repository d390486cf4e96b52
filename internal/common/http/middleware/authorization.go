package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	commonhttp "github.com/agencyhq/go-agency-ledger/internal/common/http"
)

var (
	errSecretKeyRequired = errors.New("required secret key")
	errSecretKeyInvalid  = errors.New("invalid secret key")
)

// InternalAuth guards the internal API with the shared X-Secret-Key.
func (m *AppMiddleware) InternalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			secretKey := c.Request().Header.Get("X-Secret-Key")
			if secretKey == "" {
				return commonhttp.RestErrorResponse(c, http.StatusUnauthorized, errSecretKeyRequired)
			}

			if subtle.ConstantTimeCompare([]byte(secretKey), []byte(m.conf.SecretKey)) != 1 {
				return commonhttp.RestErrorResponse(c, http.StatusUnauthorized, errSecretKeyInvalid)
			}

			return next(c)
		}
	}
}
