package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/FxEmbed/polyglot/internal/metrics"
)

// EngineOptions configures an Engine. Random defaults to math/rand/v2.
type EngineOptions struct {
	Logger zerolog.Logger
	Random RandomSource
}

// Engine routes each request to a free provider when possible and falls back
// through the remaining candidates until one succeeds.
type Engine struct {
	available []Provider
	random    RandomSource
	logger    zerolog.Logger
}

// NewEngine keeps the providers that are available right now. Providers that
// become configurable later are not picked up.
func NewEngine(providers []Provider, opts EngineOptions) *Engine {
	random := opts.Random
	if random == nil {
		random = defaultRandom{}
	}

	available := FilterAvailable(providers)
	availableNames := make(map[string]struct{}, len(available))
	for _, provider := range available {
		availableNames[provider.Name()] = struct{}{}
	}
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		value := 0.0
		if _, ok := availableNames[provider.Name()]; ok {
			value = 1
		}
		metrics.ProviderAvailable.WithLabelValues(provider.Name()).Set(value)
	}

	engine := &Engine{
		available: available,
		random:    random,
		logger:    opts.Logger,
	}
	engine.logger.Info().
		Strs("providers", engine.ProviderNames()).
		Int("configured", len(providers)).
		Msg("translation providers ready")
	return engine
}

// Providers returns a copy of the available provider list.
func (e *Engine) Providers() []Provider {
	if e == nil {
		return nil
	}
	out := make([]Provider, len(e.available))
	copy(out, e.available)
	return out
}

// ProviderNames lists available providers in registration order.
func (e *Engine) ProviderNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.available))
	for _, provider := range e.available {
		names = append(names, provider.Name())
	}
	return names
}

// Translate selects candidates for req and tries them until one succeeds.
// It fails with ErrInvalidRequest, ErrNoProvider or an *AllProvidersFailedError.
func (e *Engine) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if e == nil {
		return nil, fmt.Errorf("translation engine is not initialized")
	}

	// Adapters receive req as given; trimmed values only drive validation,
	// selection and logs.
	target := strings.TrimSpace(req.TargetLang)
	if strings.TrimSpace(req.Text) == "" || target == "" {
		metrics.Translations.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, ErrInvalidRequest
	}

	logger := e.logger.With().
		Str("translation_id", uuid.NewString()).
		Str("target_lang", target).
		Str("source_lang", strings.TrimSpace(req.SourceLang)).
		Int("text_length", TextLength(req.Text)).
		Logger()

	candidates := SelectCandidates(e.available, req.Text, target)
	plan, err := NewPlan(candidates, e.random)
	if err != nil {
		metrics.Translations.WithLabelValues(metrics.OutcomeNoProvider).Inc()
		logger.Warn().Msg("no translation provider accepts request")
		return nil, err
	}

	var winner AttemptReport
	resp, err := plan.Execute(ctx, req, AttemptHooks{
		Before: func(provider string, attempt int, fallback bool) {
			msg := "attempting translation"
			if fallback {
				msg = "falling back to next provider"
			}
			logger.Info().Str("provider", provider).Int("attempt", attempt).Msg(msg)
		},
		After: func(report AttemptReport) {
			metrics.ProviderAttemptDuration.WithLabelValues(report.Provider).Observe(report.Duration.Seconds())
			if report.Err != nil {
				metrics.ProviderAttempts.WithLabelValues(report.Provider, metrics.OutcomeFailure).Inc()
				logger.Warn().
					Err(report.Err).
					Str("provider", report.Provider).
					Int("attempt", report.Attempt).
					Dur("duration", report.Duration).
					Msg("translation provider failed")
				return
			}
			metrics.ProviderAttempts.WithLabelValues(report.Provider, metrics.OutcomeSuccess).Inc()
			winner = report
		},
	})
	if err != nil {
		metrics.Translations.WithLabelValues(metrics.OutcomeAllFailed).Inc()
		var failed *AllProvidersFailedError
		if errors.As(err, &failed) {
			logger.Error().
				Strs("attempted", failed.ProviderNames()).
				Str("failures", describeAttempts(failed.Attempts)).
				Msg("all translation providers failed")
		}
		return nil, err
	}

	if strings.TrimSpace(resp.ProviderName) == "" {
		resp.ProviderName = winner.Provider
	}
	if strings.TrimSpace(resp.TargetLang) == "" {
		resp.TargetLang = target
	}
	if resp.LatencyMs <= 0 {
		resp.LatencyMs = winner.Duration.Milliseconds()
	}

	metrics.Translations.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logger.Info().
		Str("provider", resp.ProviderName).
		Int("attempts", winner.Attempt).
		Int64("latency_ms", resp.LatencyMs).
		Msg("translation succeeded")
	return resp, nil
}
