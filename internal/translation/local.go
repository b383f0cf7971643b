package translation

import (
	"bytes"
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
	// DefaultLocalModel is sent when LOCAL_TRANSLATION_MODEL is unset.
	DefaultLocalModel = "tencent/HY-MT1.5-7B"
	localMaxText      = 10000
)

// LocalProvider translates text by calling an OpenAI-compatible chat
// completions endpoint, typically a self-hosted translation model.
type LocalProvider struct {
	providerTraits
	endpointURL string
	model       string
	languages   languageSet
	client      *http.Client
}

type localChatRequest struct {
	Model       string             `json:"model"`
	Messages    []localChatMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
	TopP        float64            `json:"top_p,omitempty"`
}

type localChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type localChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type localChatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewLocalProvider builds the adapter. An empty endpoint leaves it unavailable.
func NewLocalProvider(endpoint, model string, timeout time.Duration) *LocalProvider {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultLocalModel
	}
	return &LocalProvider{
		providerTraits: providerTraits{name: "local", free: false, maxText: localMaxText},
		endpointURL:    localChatURL(endpoint),
		model:          trimmedModel,
		languages:      staticLanguages("google"),
		client:         newHTTPClient(timeout),
	}
}

func (p *LocalProvider) IsAvailable() bool {
	return p.endpointURL != ""
}

func (p *LocalProvider) SupportsLanguage(code string) bool {
	tag := language.NormalizeTag(code)
	if language.IsAuto(tag) {
		return false
	}
	return p.languages.has(tag) || p.languages.has(language.NormalizeCode(tag))
}

func (p *LocalProvider) Languages() []string {
	return p.languages.sorted()
}

func (p *LocalProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p.endpointURL == "" {
		return nil, providerErrorf(p.Name(), "endpoint is not configured")
	}

	body, err := json.Marshal(localChatRequest{
		Model:       p.model,
		Messages:    []localChatMessage{{Role: "user", Content: buildLocalPrompt(req)}},
		Temperature: 0.7,
		TopP:        0.6,
	})
	if err != nil {
		return nil, providerErrorf(p.Name(), "encode request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, providerErrorf(p.Name(), "build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	raw, resp, err := doAndRead(p.client, httpReq)
	if err != nil {
		var payload localChatErrorResponse
		if resp != nil && json.Unmarshal(raw, &payload) == nil && strings.TrimSpace(payload.Error.Message) != "" {
			return nil, providerErrorf(p.Name(), "status %d: %s", resp.StatusCode, strings.TrimSpace(payload.Error.Message))
		}
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	var decoded localChatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, providerErrorf(p.Name(), "decode response: %w", err)
	}
	translated := ""
	if len(decoded.Choices) > 0 {
		translated = strings.TrimSpace(decoded.Choices[0].Message.Content)
	}
	if translated == "" {
		return nil, providerErrorf(p.Name(), "response contained no translation")
	}

	return &TranslateResponse{
		Text:         translated,
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

// buildLocalPrompt follows the instruction format translation-tuned chat
// models are trained on.
func buildLocalPrompt(req TranslateRequest) string {
	target := language.DisplayName(req.TargetLang)
	if target == "" {
		target = language.NormalizeTag(req.TargetLang)
	}
	return fmt.Sprintf("Translate the following segment into %s, without additional explanation.\n\n%s", target, req.Text)
}

// localChatURL resolves a configured endpoint to its chat completions URL.
// A bare host gets the http scheme and a host or base path without /v1 gets
// /v1 appended. Blank or unparseable values resolve to "".
func localChatURL(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return ""
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Host == "" {
		return ""
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/chat/completions") {
		if !strings.HasSuffix(path, "/v1") {
			path += "/v1"
		}
		path += "/chat/completions"
	}
	parsed.Path = path
	return parsed.String()
}
