package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/FxEmbed/polyglot/internal/globaltime"
	"github.com/FxEmbed/polyglot/internal/translation"
)

const bannerText = "This is an instance of polyglot, a scalable translation service: https://github.com/FxEmbed/polyglot"

func (s *Server) handleBanner(c echo.Context) error {
	return c.String(http.StatusOK, bannerText)
}

func (s *Server) handlePing(c echo.Context) error {
	return c.String(http.StatusOK, "Pong!")
}

func (s *Server) handleHealth(c echo.Context) error {
	names := make([]string, 0)
	for _, provider := range s.engine.Providers() {
		names = append(names, provider.Name())
	}
	status := "ok"
	if len(names) == 0 {
		status = "degraded"
	}
	return c.JSON(http.StatusOK, healthResponse{
		Status:    status,
		Service:   "polyglot",
		Time:      globaltime.UTC().Format(time.RFC3339),
		Uptime:    globaltime.Since(s.started).Round(time.Second).String(),
		Providers: names,
	})
}

func (s *Server) handleLanguages(c echo.Context) error {
	return c.JSON(http.StatusOK, languagesResponse{
		Items: translation.TranslationLanguageOptions(s.engine.Providers()),
	})
}

func (s *Server) handleTranslate(c echo.Context) error {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxRequestBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fail(c, http.StatusRequestEntityTooLarge, "Bad request", "Request body is too large")
		}
		return fail(c, http.StatusBadRequest, "Bad request", "Failed to read request body")
	}

	body, err := decodeTranslateRequestWith(raw, s.schema)
	if err != nil {
		switch {
		case errors.Is(err, errMalformedBody):
			return fail(c, http.StatusBadRequest, "Bad request", "Request body must be a JSON object")
		case errors.Is(err, errSchemaUnavailable):
			s.logger.Error().Err(err).Msg("translate request validation unavailable")
			return internalError(c, "Request validation is unavailable")
		}
		return badRequest(c)
	}

	req := translation.TranslateRequest{
		Text:       body.Text,
		TargetLang: body.TargetLang,
	}
	if body.SourceLang != nil {
		req.SourceLang = strings.TrimSpace(*body.SourceLang)
	}

	resp, err := s.engine.Translate(c.Request().Context(), req)
	if err != nil {
		return s.translateError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// translateError maps engine failures to responses. Provider error details
// stay in the logs.
func (s *Server) translateError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, translation.ErrInvalidRequest):
		return badRequest(c)
	case errors.Is(err, translation.ErrNoProvider):
		return translationFailed(c, http.StatusUnprocessableEntity, "No translation provider supports this language or text")
	case errors.Is(err, translation.ErrAllProvidersFailed):
		return translationFailed(c, http.StatusBadGateway, "All translation providers failed")
	default:
		s.logger.Error().Err(err).Msg("translate request failed")
		return internalError(c, "Translation failed")
	}
}
