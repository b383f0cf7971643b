package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FxEmbed/polyglot/internal/language"
)

const (
	// DefaultGoogleURL is the keyless Google Translate web endpoint.
	DefaultGoogleURL = "https://translate.googleapis.com"
	googleMaxText    = 5000
)

// GoogleProvider calls the keyless Google Translate "gtx" endpoint.
type GoogleProvider struct {
	providerTraits
	baseURL   string
	disabled  bool
	languages languageSet
	client    *http.Client
}

func NewGoogleProvider(baseURL string, disabled bool, timeout time.Duration) *GoogleProvider {
	base := trimBaseURL(baseURL)
	if base == "" {
		base = DefaultGoogleURL
	}
	return &GoogleProvider{
		providerTraits: providerTraits{name: "google", free: true, maxText: googleMaxText},
		baseURL:        base,
		disabled:       disabled,
		languages:      staticLanguages("google"),
		client:         newHTTPClient(timeout),
	}
}

func (p *GoogleProvider) IsAvailable() bool {
	return !p.disabled
}

func (p *GoogleProvider) SupportsLanguage(code string) bool {
	return p.languages.has(language.NormalizeTag(code))
}

func (p *GoogleProvider) Languages() []string {
	return p.languages.sorted()
}

func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	source := language.Canonical(req.SourceLang)
	if source == "" {
		source = "auto"
	}

	query := url.Values{}
	query.Set("client", "gtx")
	query.Set("sl", source)
	query.Set("tl", language.Canonical(req.TargetLang))
	query.Set("dt", "t")
	endpoint := p.baseURL + "/translate_a/single?" + query.Encode()

	form := url.Values{}
	form.Set("q", req.Text)

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, providerErrorf(p.Name(), "build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	body, _, err := doAndRead(p.client, httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	text, detected, err := parseGoogleResponse(body)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	sourceLang := req.SourceLang
	if language.IsAuto(sourceLang) {
		sourceLang = strings.ToLower(detected)
	}
	return &TranslateResponse{
		Text:         text,
		SourceLang:   sourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

// parseGoogleResponse reads the positional gtx payload:
// [[["translated","source",...],...],null,"detected",...].
func parseGoogleResponse(body []byte) (string, string, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return "", "", fmt.Errorf("decode response: %w", err)
	}
	if len(top) == 0 {
		return "", "", fmt.Errorf("response missing sentences")
	}

	var sentences []json.RawMessage
	if err := json.Unmarshal(top[0], &sentences); err != nil {
		return "", "", fmt.Errorf("decode sentences: %w", err)
	}

	var builder strings.Builder
	for _, raw := range sentences {
		var parts []json.RawMessage
		if err := json.Unmarshal(raw, &parts); err != nil || len(parts) == 0 {
			continue
		}
		var segment string
		if err := json.Unmarshal(parts[0], &segment); err != nil {
			continue
		}
		builder.WriteString(segment)
	}
	if builder.Len() == 0 {
		return "", "", fmt.Errorf("response contained no translated text")
	}

	var detected string
	if len(top) > 2 {
		_ = json.Unmarshal(top[2], &detected)
	}
	return builder.String(), detected, nil
}
