package translation

import "context"

// NoTextLimit is the MaxTextLength value of a provider without a documented input limit.
const NoTextLimit = 0

// Provider translates free-form text between languages.
//
// Every method except Translate must be answerable without contacting the
// backend, so that the engine can rule a provider out before calling it.
type Provider interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)

	// SupportsLanguage reports whether the provider can translate into code.
	// Matching is case-insensitive; each provider owns its regional-variant rules.
	SupportsLanguage(code string) bool
	// IsAvailable reports whether the provider's configuration is complete.
	IsAvailable() bool
	IsFree() bool
	// MaxTextLength is measured in TextLength units. NoTextLimit means unbounded.
	MaxTextLength() int
	SupportsText(text string) bool
}

// TranslateRequest describes one translation request.
type TranslateRequest struct {
	Text       string
	SourceLang string // empty means auto-detect
	TargetLang string
}

// TranslateResponse contains translated text and provider metadata.
type TranslateResponse struct {
	Text         string `json:"text"`
	SourceLang   string `json:"source_lang,omitempty"`
	TargetLang   string `json:"target_lang"`
	ProviderName string `json:"provider"`
	LatencyMs    int64  `json:"-"`
}

// providerTraits carries the constant parts of the contract. Adapters embed it
// and override SupportsText when they have a shape restriction.
type providerTraits struct {
	name    string
	free    bool
	maxText int
}

func (t providerTraits) Name() string {
	return t.name
}

func (t providerTraits) IsFree() bool {
	return t.free
}

func (t providerTraits) MaxTextLength() int {
	return t.maxText
}

func (t providerTraits) SupportsText(string) bool {
	return true
}
