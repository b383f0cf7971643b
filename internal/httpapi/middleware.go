package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/FxEmbed/polyglot/internal/auth"
	"github.com/FxEmbed/polyglot/internal/metrics"
)

// requireToken rejects requests without a valid bearer token. It is a no-op
// when the verifier has no secret configured.
func requireToken(verifier auth.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !verifier.Enabled() {
				return next(c)
			}
			token, ok := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok || !verifier.Verify(token) {
				return unauthorized(c)
			}
			return next(c)
		}
	}
}

// recordMetrics counts requests by route template so unknown paths share one label.
func recordMetrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" || status == http.StatusNotFound {
				path = "unmatched"
			}
			metrics.RequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
