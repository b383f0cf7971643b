package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/FxEmbed/polyglot/internal/language"
)

const deeplxMaxText = 5000

// DeepLXProvider talks to a self-hosted or edge-deployed DeepLX instance.
// The three registered deployments share this type and differ only by name and URL.
type DeepLXProvider struct {
	providerTraits
	baseURL   string
	languages languageSet
	client    *http.Client
}

type deeplxRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
	SourceLang string `json:"source_lang,omitempty"`
}

type deeplxResponse struct {
	Code       int    `json:"code"`
	Data       string `json:"data"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Message    string `json:"message"`
}

// NewDeepLXProvider builds a DeepLX adapter; an empty baseURL leaves it unavailable.
func NewDeepLXProvider(name, baseURL string, timeout time.Duration) *DeepLXProvider {
	return &DeepLXProvider{
		providerTraits: providerTraits{name: name, free: true, maxText: deeplxMaxText},
		baseURL:        trimBaseURL(baseURL),
		languages:      staticLanguages("deepl"),
		client:         newHTTPClient(timeout),
	}
}

func (p *DeepLXProvider) IsAvailable() bool {
	return p.baseURL != ""
}

func (p *DeepLXProvider) SupportsLanguage(code string) bool {
	return p.languages.has(language.NormalizeTag(code))
}

func (p *DeepLXProvider) Languages() []string {
	return p.languages.sorted()
}

func (p *DeepLXProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p.baseURL == "" {
		return nil, providerErrorf(p.Name(), "base URL is not configured")
	}

	body := deeplxRequest{
		Text:       req.Text,
		TargetLang: strings.ToUpper(req.TargetLang),
	}
	if !language.IsAuto(req.SourceLang) {
		body.SourceLang = strings.ToUpper(req.SourceLang)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, providerErrorf(p.Name(), "encode request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return nil, providerErrorf(p.Name(), "build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	raw, _, err := doAndRead(p.client, httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	var decoded deeplxResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, providerErrorf(p.Name(), "decode response: %w", err)
	}
	if decoded.Code != http.StatusOK {
		return nil, providerErrorf(p.Name(), "%s", deeplxFailure(decoded, raw))
	}

	sourceLang := req.SourceLang
	if language.IsAuto(sourceLang) {
		sourceLang = strings.ToLower(decoded.SourceLang)
	}
	return &TranslateResponse{
		Text:         decoded.Data,
		SourceLang:   sourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

func deeplxFailure(resp deeplxResponse, body []byte) string {
	if msg := strings.TrimSpace(resp.Message); msg != "" {
		return fmt.Sprintf("code %d: %s", resp.Code, msg)
	}
	return fmt.Sprintf("code %d: %s", resp.Code, snippet(body))
}
