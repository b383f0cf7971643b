package translation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleProviderTranslate(t *testing.T) {
	t.Parallel()

	var gotQuery, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_a/single" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotQuery = r.URL.RawQuery
		gotText = r.PostForm.Get("q")
		_, _ = w.Write([]byte(`[[["Hola ","Hello ",null,null,10],["mundo","world",null,null,10]],null,"en",null,null,null,1]`))
	}))
	defer server.Close()

	provider := NewGoogleProvider(server.URL+"/", false, 0)
	resp, err := provider.Translate(context.Background(), TranslateRequest{Text: "Hello world", TargetLang: "zh-cn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Hola mundo" {
		t.Fatalf("unexpected text: got %q want %q", resp.Text, "Hola mundo")
	}
	if resp.SourceLang != "en" {
		t.Fatalf("unexpected source: got %q want %q", resp.SourceLang, "en")
	}
	if gotText != "Hello world" {
		t.Fatalf("unexpected request text: %q", gotText)
	}
	if want := "client=gtx&dt=t&sl=auto&tl=zh-CN"; gotQuery != want {
		t.Fatalf("unexpected query: got %q want %q", gotQuery, want)
	}
}

func TestGoogleProviderTranslate_ErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewGoogleProvider(server.URL, false, 0)
	_, err := provider.Translate(context.Background(), TranslateRequest{Text: "hi", TargetLang: "es"})
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if providerErr.Provider != "google" {
		t.Fatalf("unexpected provider: got %q want %q", providerErr.Provider, "google")
	}
}

func TestGoogleProviderCapabilities(t *testing.T) {
	t.Parallel()

	provider := NewGoogleProvider("", false, 0)
	if !provider.IsFree() || provider.MaxTextLength() != 5000 {
		t.Fatalf("unexpected traits: free=%v max=%d", provider.IsFree(), provider.MaxTextLength())
	}
	for _, code := range []string{"es", "ZH-TW", "zh_cn", "haw"} {
		if !provider.SupportsLanguage(code) {
			t.Fatalf("expected %q to be supported", code)
		}
	}
	if provider.SupportsLanguage("tlh") {
		t.Fatalf("did not expect tlh to be supported")
	}
	if NewGoogleProvider("", true, 0).IsAvailable() {
		t.Fatalf("expected disabled provider to be unavailable")
	}
}

func TestParseGoogleResponse_RejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, _, err := parseGoogleResponse([]byte(`[[],null,"en"]`)); err == nil {
		t.Fatalf("expected error for response without sentences")
	}
	if _, _, err := parseGoogleResponse([]byte(`{"error":"x"}`)); err == nil {
		t.Fatalf("expected error for non-array response")
	}
}
