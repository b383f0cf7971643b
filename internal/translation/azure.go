package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FxEmbed/polyglot/internal/language"
)

const DefaultAzureEndpoint = "https://api.cognitive.microsofttranslator.com"

// AzureProvider calls Azure AI Translator v3.
type AzureProvider struct {
	providerTraits
	apiKey    string
	region    string
	endpoint  string
	languages languageSet
	client    *http.Client
}

type azureTextItem struct {
	Text string `json:"text"`
}

type azureResult struct {
	DetectedLanguage *struct {
		Language string  `json:"language"`
		Score    float64 `json:"score"`
	} `json:"detectedLanguage"`
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

// NewAzureProvider builds the adapter. The region header is only sent for
// regional resources; "global" and empty mean none.
func NewAzureProvider(apiKey, region, endpoint string, timeout time.Duration) *AzureProvider {
	base := trimBaseURL(endpoint)
	if base == "" {
		base = DefaultAzureEndpoint
	}
	return &AzureProvider{
		providerTraits: providerTraits{name: "azure", free: false, maxText: NoTextLimit},
		apiKey:         strings.TrimSpace(apiKey),
		region:         strings.ToLower(strings.TrimSpace(region)),
		endpoint:       base,
		languages:      staticLanguages("azure"),
		client:         newHTTPClient(timeout),
	}
}

func (p *AzureProvider) IsAvailable() bool {
	return p.apiKey != ""
}

func (p *AzureProvider) SupportsLanguage(code string) bool {
	return p.languages.has(language.NormalizeTag(code))
}

func (p *AzureProvider) Languages() []string {
	return p.languages.sorted()
}

func (p *AzureProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p.apiKey == "" {
		return nil, providerErrorf(p.Name(), "API key is not configured")
	}

	query := url.Values{}
	query.Set("api-version", "3.0")
	query.Set("to", language.Canonical(req.TargetLang))
	if from := language.Canonical(req.SourceLang); from != "" && !language.IsAuto(from) {
		query.Set("from", from)
	}

	payload, err := json.Marshal([]azureTextItem{{Text: req.Text}})
	if err != nil {
		return nil, providerErrorf(p.Name(), "encode request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/translate?"+query.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, providerErrorf(p.Name(), "build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)
	if p.region != "" && p.region != "global" {
		httpReq.Header.Set("Ocp-Apim-Subscription-Region", p.region)
	}

	body, _, err := doAndRead(p.client, httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	var results []azureResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, providerErrorf(p.Name(), "decode response: %w", err)
	}
	if len(results) == 0 || len(results[0].Translations) == 0 {
		return nil, providerErrorf(p.Name(), "response contained no translation")
	}

	sourceLang := req.SourceLang
	if language.IsAuto(sourceLang) && results[0].DetectedLanguage != nil {
		sourceLang = strings.ToLower(results[0].DetectedLanguage.Language)
	}
	return &TranslateResponse{
		Text:         results[0].Translations[0].Text,
		SourceLang:   sourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}
