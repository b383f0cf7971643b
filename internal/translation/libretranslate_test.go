package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLibreTranslateDiscover_ConcurrentCallsShareOneRequest(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/languages" {
			http.NotFound(w, r)
			return
		}
		requests.Add(1)
		<-release
		_, _ = w.Write([]byte(`[{"code":"en","name":"English"},{"code":"EO","name":"Esperanto"}]`))
	}))
	defer server.Close()

	provider := NewLibreTranslateProvider(server.URL, "", 0, zerolog.Nop())
	if provider.SupportsLanguage("en") {
		t.Fatalf("did not expect languages before discovery")
	}
	if !provider.SupportsLanguage("auto") {
		t.Fatalf("expected auto to be supported before discovery")
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := provider.Discover(context.Background()); err != nil {
				t.Errorf("unexpected discover error: %v", err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := requests.Load(); got != 1 {
		t.Fatalf("unexpected discovery requests: got %d want %d", got, 1)
	}
	if !provider.SupportsLanguage("eo") || !provider.SupportsLanguage("EN") {
		t.Fatalf("expected discovered languages to be supported")
	}
	if provider.SupportsLanguage("fr") {
		t.Fatalf("did not expect undiscovered language")
	}

	if err := provider.Discover(context.Background()); err != nil {
		t.Fatalf("unexpected error on repeat discovery: %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("discovery ran again: got %d requests", got)
	}
}

func TestLibreTranslateDiscover_FallsBackOnFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewLibreTranslateProvider(server.URL, "", 0, zerolog.Nop())
	if err := provider.Discover(context.Background()); err == nil {
		t.Fatalf("expected discovery error")
	}
	for _, code := range []string{"en", "no", "cs"} {
		if !provider.SupportsLanguage(code) {
			t.Fatalf("expected fallback language %q", code)
		}
	}
	if provider.SupportsLanguage("eo") {
		t.Fatalf("did not expect eo in fallback list")
	}
}

func TestLibreTranslateIsAvailable_StartsDiscovery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"code":"ga","name":"Irish"}]`))
	}))
	defer server.Close()

	provider := NewLibreTranslateProvider(server.URL, "", 0, zerolog.Nop())
	if !provider.IsAvailable() {
		t.Fatalf("expected provider with URL to be available")
	}

	deadline := time.Now().Add(2 * time.Second)
	for !provider.SupportsLanguage("ga") {
		if time.Now().After(deadline) {
			t.Fatalf("background discovery did not finish")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if NewLibreTranslateProvider("", "", 0, zerolog.Nop()).IsAvailable() {
		t.Fatalf("expected provider without URL to be unavailable")
	}
}

func TestLibreTranslateTranslate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("source") != "auto" || r.PostForm.Get("target") != "es" || r.PostForm.Get("api_key") != "k" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"translatedText":"hola","detectedLanguage":{"language":"en","confidence":90}}`))
	}))
	defer server.Close()

	provider := NewLibreTranslateProvider(server.URL, "k", 0, zerolog.Nop())
	resp, err := provider.Translate(context.Background(), TranslateRequest{Text: "hello", TargetLang: "es"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hola" || resp.SourceLang != "en" || resp.ProviderName != "libretranslate" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
