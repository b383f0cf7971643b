package translation

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/FxEmbed/polyglot/internal/config"
)

// Registry stores translation providers in registration order. The order is
// the tie-break order the engine sees.
type Registry struct {
	order     []Provider
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// NewRegistryFromConfig registers every built-in backend. Backends whose
// settings are missing are still registered and report IsAvailable false.
func NewRegistryFromConfig(cfg *config.Config, logger zerolog.Logger) (*Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if _, err := LoadLanguageTables(); err != nil {
		return nil, err
	}

	p := cfg.Providers
	timeout := cfg.ProviderTimeout
	registry := NewRegistry()
	for _, provider := range []Provider{
		NewGoogleProvider(p.GoogleURL, p.GoogleDisabled, timeout),
		NewDeepLXProvider("deeplx", p.DeepLXURL, timeout),
		NewDeepLXProvider("deeplx-cloudflare", p.DeepLXCloudflareURL, timeout),
		NewDeepLXProvider("deeplx-vercel", p.DeepLXVercelURL, timeout),
		NewBingProvider(p.BingURL, p.BingDisabled, timeout),
		NewLibreTranslateProvider(p.LibreTranslateURL, p.LibreTranslateAPIKey, timeout, logger),
		NewDeepLProvider(p.DeepLAPIKey, p.DeepLAPIURL, timeout),
		NewAzureProvider(p.AzureKey, p.AzureRegion, p.AzureEndpoint, timeout),
		NewAWSProvider(AWSCredentials{
			AccessKeyID:     p.AWSAccessKeyID,
			SecretAccessKey: p.AWSSecretAccessKey,
			SessionToken:    p.AWSSessionToken,
		}, p.AWSRegion, p.AWSEndpoint, timeout),
		NewGeminiProvider(p.GeminiAPIKey, p.GeminiModel, timeout),
		NewLocalProvider(p.LocalTranslationURL, p.LocalTranslationModel, timeout),
	} {
		if err := registry.Register(provider); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register adds one provider. Names must be unique.
func (r *Registry) Register(provider Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if provider == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeProviderName(provider.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("translation provider %q is already registered", name)
	}
	r.providers[name] = provider
	r.order = append(r.order, provider)
	return nil
}

// Provider resolves a provider by name.
func (r *Registry) Provider(name string) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	if len(r.providers) == 0 {
		return nil, fmt.Errorf("no translation providers are registered")
	}

	resolvedName := normalizeProviderName(name)
	provider, ok := r.providers[resolvedName]
	if ok {
		return provider, nil
	}

	return nil, fmt.Errorf("translation provider %q is not registered (available: %s)", resolvedName, strings.Join(r.ProviderNames(), ", "))
}

// Providers returns every registered provider in registration order.
func (r *Registry) Providers() []Provider {
	if r == nil {
		return nil
	}
	out := make([]Provider, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) ProviderNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.order))
	for _, provider := range r.order {
		names = append(names, normalizeProviderName(provider.Name()))
	}
	return names
}

// Close releases providers that hold long-lived clients.
func (r *Registry) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, provider := range r.order {
		closer, ok := provider.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", provider.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
