package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/FxEmbed/polyglot/internal/language"
)

const libreTranslateMaxText = 2000

// LibreTranslateProvider calls a LibreTranslate instance. Its language list
// is discovered from GET /languages the first time availability is checked;
// until that finishes only "auto" is reported as supported.
type LibreTranslateProvider struct {
	providerTraits
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger

	languages  atomic.Pointer[languageSet]
	discovered atomic.Bool
	discovery  singleflight.Group
}

type libreLanguage struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type libreTranslateResponse struct {
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage *struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	} `json:"detectedLanguage"`
	Error string `json:"error"`
}

func NewLibreTranslateProvider(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *LibreTranslateProvider {
	return &LibreTranslateProvider{
		providerTraits: providerTraits{name: "libretranslate", free: false, maxText: libreTranslateMaxText},
		baseURL:        trimBaseURL(baseURL),
		apiKey:         strings.TrimSpace(apiKey),
		client:         newHTTPClient(timeout),
		logger:         logger.With().Str("provider", "libretranslate").Logger(),
	}
}

// IsAvailable reports whether a URL is configured and starts language
// discovery in the background if it has not run yet.
func (p *LibreTranslateProvider) IsAvailable() bool {
	if p.baseURL == "" {
		return false
	}
	if !p.discovered.Load() {
		go func() {
			_ = p.Discover(context.Background())
		}()
	}
	return true
}

func (p *LibreTranslateProvider) SupportsLanguage(code string) bool {
	tag := language.NormalizeTag(code)
	if tag == "auto" {
		return true
	}
	set := p.languages.Load()
	if set == nil {
		return false
	}
	return set.has(tag)
}

func (p *LibreTranslateProvider) Languages() []string {
	set := p.languages.Load()
	if set == nil {
		return nil
	}
	return set.sorted()
}

// Discover loads the instance's language list once. Concurrent callers share
// one request. A failed request installs the built-in fallback list and is
// not retried.
func (p *LibreTranslateProvider) Discover(ctx context.Context) error {
	if p.discovered.Load() {
		return nil
	}
	_, err, _ := p.discovery.Do("languages", func() (any, error) {
		if p.discovered.Load() {
			return nil, nil
		}
		defer p.discovered.Store(true)

		codes, err := p.fetchLanguages(ctx)
		if err != nil {
			fallback := staticLanguages("libretranslate")
			p.languages.Store(&fallback)
			p.logger.Warn().Err(err).Msg("language discovery failed, using fallback list")
			return nil, err
		}
		set := newLanguageSet(codes)
		p.languages.Store(&set)
		p.logger.Debug().Int("languages", len(set)).Msg("language discovery complete")
		return nil, nil
	})
	return err
}

func (p *LibreTranslateProvider) fetchLanguages(ctx context.Context) ([]string, error) {
	endpoint := p.baseURL + "/languages"
	if p.apiKey != "" {
		endpoint += "?api_key=" + url.QueryEscape(p.apiKey)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build languages request: %w", err)
	}

	body, _, err := doAndRead(p.client, httpReq)
	if err != nil {
		return nil, err
	}

	var languages []libreLanguage
	if err := json.Unmarshal(body, &languages); err != nil {
		return nil, fmt.Errorf("decode languages: %w", err)
	}
	codes := make([]string, 0, len(languages))
	for _, lang := range languages {
		codes = append(codes, lang.Code)
	}
	return codes, nil
}

func (p *LibreTranslateProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p.baseURL == "" {
		return nil, providerErrorf(p.Name(), "base URL is not configured")
	}

	source := language.NormalizeTag(req.SourceLang)
	if source == "" {
		source = "auto"
	}
	form := url.Values{}
	form.Set("q", req.Text)
	form.Set("source", source)
	form.Set("target", language.NormalizeTag(req.TargetLang))
	form.Set("format", "text")
	if p.apiKey != "" {
		form.Set("api_key", p.apiKey)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, providerErrorf(p.Name(), "build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, _, err := doAndRead(p.client, httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	var decoded libreTranslateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, providerErrorf(p.Name(), "decode response: %w", err)
	}
	if decoded.Error != "" {
		return nil, providerErrorf(p.Name(), "%s", decoded.Error)
	}
	if decoded.TranslatedText == "" {
		return nil, providerErrorf(p.Name(), "response contained no translation")
	}

	sourceLang := req.SourceLang
	if language.IsAuto(sourceLang) && decoded.DetectedLanguage != nil {
		sourceLang = strings.ToLower(decoded.DetectedLanguage.Language)
	}
	return &TranslateResponse{
		Text:         decoded.TranslatedText,
		SourceLang:   sourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}
