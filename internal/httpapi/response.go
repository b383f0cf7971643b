package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorResponse is the JSON error body shared by every JSON endpoint.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Time      string   `json:"time"`
	Uptime    string   `json:"uptime"`
	Providers []string `json:"providers"`
}

type languagesResponse struct {
	Items any `json:"items"`
}

func fail(c echo.Context, code int, label, message string) error {
	return c.JSON(code, errorResponse{
		Error:   label,
		Message: message,
	})
}

func unauthorized(c echo.Context) error {
	return fail(c, http.StatusUnauthorized, "Unauthorized", "Invalid access token")
}

func badRequest(c echo.Context) error {
	return c.String(http.StatusBadRequest, missingFieldsMessage)
}

func translationFailed(c echo.Context, code int, message string) error {
	return fail(c, code, "Translation failed", message)
}

func internalError(c echo.Context, message string) error {
	return fail(c, http.StatusInternalServerError, "Internal server error", message)
}
