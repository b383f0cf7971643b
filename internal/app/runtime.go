package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/FxEmbed/polyglot/internal/cli"
	"github.com/FxEmbed/polyglot/internal/config"
	"github.com/FxEmbed/polyglot/internal/logging"
	"github.com/FxEmbed/polyglot/internal/translation"
)

// runtime is the configured provider set shared by every command.
type runtime struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *translation.Registry
}

// loadRuntime loads the env file, configuration, logger and provider
// registry. Log output goes to logOut so that command output stays clean.
func loadRuntime(envLoader *cli.EnvLoader, logOut io.Writer) (*runtime, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			return nil, usageError("%v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Output:      logOut,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	registry, err := translation.NewRegistryFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("register providers: %w", err)
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
	}, nil
}

// engine builds an engine over providers, or over the whole registry when
// providers is empty.
func (r *runtime) engine(providers ...translation.Provider) *translation.Engine {
	if len(providers) == 0 {
		providers = r.registry.Providers()
	}
	return translation.NewEngine(providers, translation.EngineOptions{Logger: r.logger})
}

// discoverLanguages loads runtime language lists before the first request.
// LibreTranslate accepts only "auto" until discovery finishes, and falls back
// to its built-in list when the instance cannot be reached.
func (r *runtime) discoverLanguages(ctx context.Context, engine *translation.Engine) {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, provider := range engine.Providers() {
		discoverer, ok := provider.(interface {
			Discover(ctx context.Context) error
		})
		if !ok {
			continue
		}
		discoverCtx, cancel := context.WithTimeout(ctx, r.cfg.ProviderTimeout)
		if err := discoverer.Discover(discoverCtx); err != nil {
			r.logger.Debug().Err(err).Str("provider", provider.Name()).Msg("using fallback language list")
		}
		cancel()
	}
}

func (r *runtime) close() {
	if err := r.registry.Close(); err != nil {
		r.logger.Warn().Err(err).Msg("close providers")
	}
}
