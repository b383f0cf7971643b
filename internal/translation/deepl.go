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
	DefaultDeepLURL     = "https://api.deepl.com"
	DefaultDeepLFreeURL = "https://api-free.deepl.com"
)

// DeepLProvider calls the official DeepL API. Keys ending in ":fx" belong to
// the free API plan and are routed to its host unless an explicit URL is set.
type DeepLProvider struct {
	providerTraits
	apiKey    string
	baseURL   string
	languages languageSet
	client    *http.Client
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

func NewDeepLProvider(apiKey, baseURL string, timeout time.Duration) *DeepLProvider {
	apiKey = strings.TrimSpace(apiKey)
	base := trimBaseURL(baseURL)
	if base == "" {
		base = DefaultDeepLURL
		if strings.HasSuffix(apiKey, ":fx") {
			base = DefaultDeepLFreeURL
		}
	}
	return &DeepLProvider{
		providerTraits: providerTraits{name: "deepl", free: false, maxText: NoTextLimit},
		apiKey:         apiKey,
		baseURL:        base,
		languages:      staticLanguages("deepl"),
		client:         newHTTPClient(timeout),
	}
}

func (p *DeepLProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// SupportsLanguage also accepts zh-cn and zh-tw, which map onto the
// simplified and traditional Chinese targets.
func (p *DeepLProvider) SupportsLanguage(code string) bool {
	tag := language.NormalizeTag(code)
	if tag == "zh-cn" || tag == "zh-tw" {
		return true
	}
	return p.languages.has(tag)
}

func (p *DeepLProvider) Languages() []string {
	return p.languages.sorted()
}

func (p *DeepLProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p.apiKey == "" {
		return nil, providerErrorf(p.Name(), "API key is not configured")
	}

	form := url.Values{}
	form.Set("text", req.Text)
	form.Set("target_lang", deeplTargetCode(req.TargetLang))
	if source := language.NormalizeCode(req.SourceLang); source != "" && !language.IsAuto(source) {
		form.Set("source_lang", strings.ToUpper(source))
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v2/translate", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, providerErrorf(p.Name(), "build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.apiKey)

	body, _, err := doAndRead(p.client, httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	var decoded deeplResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, providerErrorf(p.Name(), "decode response: %w", err)
	}
	if len(decoded.Translations) == 0 {
		return nil, providerErrorf(p.Name(), "response contained no translation")
	}

	result := decoded.Translations[0]
	sourceLang := req.SourceLang
	if language.IsAuto(sourceLang) {
		sourceLang = strings.ToLower(result.DetectedSourceLanguage)
	}
	return &TranslateResponse{
		Text:         result.Text,
		SourceLang:   sourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

func deeplTargetCode(raw string) string {
	switch tag := language.NormalizeTag(raw); tag {
	case "zh-cn", "zh-hans":
		return "ZH-HANS"
	case "zh-tw", "zh-hant":
		return "ZH-HANT"
	default:
		return strings.ToUpper(tag)
	}
}

// String keeps the API key out of %v output.
func (p *DeepLProvider) String() string {
	return fmt.Sprintf("deepl(%s)", p.baseURL)
}
