package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// unsetEnv clears keys for the test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "PORT", "ACCESS_TOKEN", "ACCESS_TOKEN_HASH", "PROVIDER_TIMEOUT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 3220 {
		t.Fatalf("unexpected port: got %d want %d", cfg.Port, 3220)
	}
	if cfg.ProviderTimeout != 30*time.Second {
		t.Fatalf("unexpected provider timeout: got %v want %v", cfg.ProviderTimeout, 30*time.Second)
	}
	if cfg.AuthEnabled() {
		t.Fatalf("expected auth to be disabled without a token")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ACCESS_TOKEN", "secret")
	unsetEnv(t, "ACCESS_TOKEN_HASH")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("DEEPLX_CLOUDFLARE_URL", "https://deeplx.example.workers.dev")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 || cfg.ProviderTimeout != 5*time.Second {
		t.Fatalf("unexpected overrides: port=%d timeout=%v", cfg.Port, cfg.ProviderTimeout)
	}
	if !cfg.AuthEnabled() {
		t.Fatalf("expected auth to be enabled")
	}
	if cfg.Providers.DeepLXCloudflareURL != "https://deeplx.example.workers.dev" {
		t.Fatalf("unexpected DeepLX URL: %q", cfg.Providers.DeepLXCloudflareURL)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		Port:            3220,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
		ProviderTimeout: time.Second,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "port", mutate: func(c *Config) { c.Port = 70000 }, want: "PORT"},
		{name: "provider timeout", mutate: func(c *Config) { c.ProviderTimeout = 0 }, want: "PROVIDER_TIMEOUT"},
		{name: "http timeout", mutate: func(c *Config) { c.WriteTimeout = 0 }, want: "HTTP timeouts"},
		{name: "both tokens", mutate: func(c *Config) { c.AccessToken, c.AccessTokenHash = "a", "b" }, want: "only one"},
		{name: "aws region", mutate: func(c *Config) { c.Providers.AWSAccessKeyID = "AKID"; c.Providers.AWSRegion = " " }, want: "AWS_REGION"},
	}
	for _, tc := range cases {
		cfg := valid
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}
