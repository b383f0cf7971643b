package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/FxEmbed/polyglot/internal/language"
)

const (
	DefaultGeminiModel = "gemini-1.5-flash"
	geminiMaxText      = 10000
)

const geminiSystemPrompt = `You are a translation engine. Translate the user's text into the requested target language.
Preserve line breaks, URLs, mentions and hashtags exactly.
Reply with JSON only: {"text": "<translation>", "source_lang": "<ISO 639-1 code of the input>"}.`

// geminiGenerator sends one prompt and returns the raw model text.
type geminiGenerator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// GeminiProvider translates with a Gemini model through the Generative Language API.
type GeminiProvider struct {
	providerTraits
	apiKey    string
	model     string
	timeout   time.Duration
	languages languageSet

	mu        sync.Mutex
	generator geminiGenerator
}

type geminiReply struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
}

func NewGeminiProvider(apiKey, model string, timeout time.Duration) *GeminiProvider {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultGeminiModel
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &GeminiProvider{
		providerTraits: providerTraits{name: "gemini", free: false, maxText: geminiMaxText},
		apiKey:         strings.TrimSpace(apiKey),
		model:          model,
		timeout:        timeout,
		languages:      staticLanguages("google"),
	}
}

func (p *GeminiProvider) IsAvailable() bool {
	return p.apiKey != ""
}

// SupportsLanguage accepts any language whose primary subtag the model knows,
// so regional variants such as "pt-br" are accepted through "pt".
func (p *GeminiProvider) SupportsLanguage(code string) bool {
	tag := language.NormalizeTag(code)
	if language.IsAuto(tag) {
		return false
	}
	return p.languages.has(tag) || p.languages.has(language.NormalizeCode(tag))
}

func (p *GeminiProvider) Languages() []string {
	return p.languages.sorted()
}

func (p *GeminiProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	generator, err := p.client(ctx)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()
	raw, err := generator.generate(ctx, geminiPrompt(req))
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err}
	}

	reply := parseGeminiReply(raw)
	if strings.TrimSpace(reply.Text) == "" {
		return nil, providerErrorf(p.Name(), "model returned no translation")
	}

	sourceLang := req.SourceLang
	if language.IsAuto(sourceLang) {
		sourceLang = language.NormalizeTag(reply.SourceLang)
	}
	return &TranslateResponse{
		Text:         reply.Text,
		SourceLang:   sourceLang,
		TargetLang:   req.TargetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

func (p *GeminiProvider) client(ctx context.Context) (geminiGenerator, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.generator != nil {
		return p.generator, nil
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("API key is not configured")
	}
	generator, err := newGenaiGenerator(ctx, p.apiKey, p.model)
	if err != nil {
		return nil, err
	}
	p.generator = generator
	return generator, nil
}

// Close releases the underlying API client, if one was created.
func (p *GeminiProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if closer, ok := p.generator.(*genaiGenerator); ok {
		p.generator = nil
		return closer.client.Close()
	}
	return nil
}

func geminiPrompt(req TranslateRequest) string {
	target := language.NormalizeTag(req.TargetLang)
	targetName := language.DisplayName(target)
	if targetName == "" {
		targetName = target
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Target language: %s (%s)\n", targetName, target)
	if source := language.NormalizeTag(req.SourceLang); source != "" && !language.IsAuto(source) {
		fmt.Fprintf(&builder, "Source language: %s\n", source)
	}
	builder.WriteString("Text:\n")
	builder.WriteString(req.Text)
	return builder.String()
}

// parseGeminiReply accepts the requested JSON object, optionally fenced, and
// falls back to treating the whole reply as the translation.
func parseGeminiReply(raw string) geminiReply {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var reply geminiReply
	if err := json.Unmarshal([]byte(trimmed), &reply); err == nil && reply.Text != "" {
		return reply
	}
	return geminiReply{Text: strings.TrimSpace(raw)}
}

type genaiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func newGenaiGenerator(ctx context.Context, apiKey, modelName string) (*genaiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(geminiSystemPrompt)},
	}
	return &genaiGenerator{client: client, model: model}, nil
}

func (g *genaiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		var builder strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
		if builder.Len() > 0 {
			return builder.String(), nil
		}
	}
	return "", fmt.Errorf("no text parts in response")
}
