package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:""`

	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"3220"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`

	AccessToken     string `envconfig:"ACCESS_TOKEN" default:""`
	AccessTokenHash string `envconfig:"ACCESS_TOKEN_HASH" default:""`

	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s"`

	Providers
}

// Providers holds per-backend settings. A backend whose required values are
// empty is left out of the available provider set.
type Providers struct {
	GoogleURL      string `envconfig:"GOOGLE_TRANSLATE_URL" default:"https://translate.googleapis.com"`
	GoogleDisabled bool   `envconfig:"GOOGLE_TRANSLATE_DISABLED" default:"false"`

	BingURL      string `envconfig:"BING_TRANSLATOR_URL" default:"https://www.bing.com"`
	BingDisabled bool   `envconfig:"BING_TRANSLATOR_DISABLED" default:"false"`

	DeepLXURL           string `envconfig:"DEEPLX_URL" default:""`
	DeepLXCloudflareURL string `envconfig:"DEEPLX_CLOUDFLARE_URL" default:""`
	DeepLXVercelURL     string `envconfig:"DEEPLX_VERCEL_URL" default:""`

	DeepLAPIKey string `envconfig:"DEEPL_API_KEY" default:""`
	DeepLAPIURL string `envconfig:"DEEPL_API_URL" default:""`

	AzureKey      string `envconfig:"AZURE_TRANSLATOR_KEY" default:""`
	AzureRegion   string `envconfig:"AZURE_TRANSLATOR_REGION" default:"global"`
	AzureEndpoint string `envconfig:"AZURE_TRANSLATOR_ENDPOINT" default:"https://api.cognitive.microsofttranslator.com"`

	AWSAccessKeyID     string `envconfig:"AWS_ACCESS_KEY_ID" default:""`
	AWSSecretAccessKey string `envconfig:"AWS_SECRET_ACCESS_KEY" default:""`
	AWSSessionToken    string `envconfig:"AWS_SESSION_TOKEN" default:""`
	AWSRegion          string `envconfig:"AWS_REGION" default:"us-east-1"`
	AWSEndpoint        string `envconfig:"AWS_TRANSLATE_ENDPOINT" default:""`

	LibreTranslateURL    string `envconfig:"LIBRETRANSLATE_URL" default:""`
	LibreTranslateAPIKey string `envconfig:"LIBRETRANSLATE_API_KEY" default:""`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`

	LocalTranslationURL   string `envconfig:"LOCAL_TRANSLATION_URL" default:""`
	LocalTranslationModel string `envconfig:"LOCAL_TRANSLATION_MODEL" default:"tencent/HY-MT1.5-7B"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be > 0")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP timeouts must be > 0")
	}
	if strings.TrimSpace(c.AccessToken) != "" && strings.TrimSpace(c.AccessTokenHash) != "" {
		return fmt.Errorf("set only one of ACCESS_TOKEN and ACCESS_TOKEN_HASH")
	}
	if strings.TrimSpace(c.Providers.AWSAccessKeyID) != "" && strings.TrimSpace(c.Providers.AWSRegion) == "" {
		return fmt.Errorf("AWS_REGION is required when AWS credentials are set")
	}
	return nil
}

// AuthEnabled reports whether /translate requires a bearer token.
func (c *Config) AuthEnabled() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.AccessToken) != "" || strings.TrimSpace(c.AccessTokenHash) != ""
}
