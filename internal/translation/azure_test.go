package translation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAzureProviderTranslate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		region     string
		wantHeader string
	}{
		{name: "global", region: "global", wantHeader: ""},
		{name: "regional", region: "westeurope", wantHeader: "westeurope"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/translate" {
					http.NotFound(w, r)
					return
				}
				if r.URL.Query().Get("to") != "sr-Latn" || r.URL.Query().Get("api-version") != "3.0" || r.URL.Query().Has("from") {
					t.Errorf("unexpected query: %s", r.URL.RawQuery)
				}
				if got := r.Header.Get("Ocp-Apim-Subscription-Region"); got != tc.wantHeader {
					t.Errorf("unexpected region header: got %q want %q", got, tc.wantHeader)
				}
				if got := r.Header.Get("Ocp-Apim-Subscription-Key"); got != "key" {
					t.Errorf("unexpected key header: %q", got)
				}
				_, _ = w.Write([]byte(`[{"detectedLanguage":{"language":"en","score":1.0},"translations":[{"text":"zdravo","to":"sr-Latn"}]}]`))
			}))
			defer server.Close()

			provider := NewAzureProvider("key", tc.region, server.URL, 0)
			resp, err := provider.Translate(context.Background(), TranslateRequest{Text: "hello", TargetLang: "sr-latn", SourceLang: "auto"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Text != "zdravo" || resp.SourceLang != "en" {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestAzureProviderTranslate_EmptyResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	provider := NewAzureProvider("key", "", server.URL, 0)
	if _, err := provider.Translate(context.Background(), TranslateRequest{Text: "hello", TargetLang: "fr"}); err == nil {
		t.Fatalf("expected error for empty result")
	}
}
