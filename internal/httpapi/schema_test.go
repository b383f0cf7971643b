package httpapi

import (
	"errors"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func TestDecodeTranslateRequest(t *testing.T) {
	t.Parallel()

	body, err := decodeTranslateRequest([]byte(`{"text":"Hello","target_lang":"pt-BR","source_lang":null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Text != "Hello" || body.TargetLang != "pt-BR" || body.SourceLang != nil {
		t.Fatalf("unexpected body: %+v", body)
	}

	body, err = decodeTranslateRequest([]byte(`{"text":"Hello","target_lang":"de","source_lang":"en","extra":true}`))
	if err != nil {
		t.Fatalf("unexpected error with extra field: %v", err)
	}
	if body.SourceLang == nil || *body.SourceLang != "en" {
		t.Fatalf("unexpected source language: %+v", body.SourceLang)
	}
}

func TestDecodeTranslateRequest_Rejects(t *testing.T) {
	t.Parallel()

	malformed := []string{``, `{"text":`, `{"text":"a","target_lang":"de"} {}`}
	for _, raw := range malformed {
		if _, err := decodeTranslateRequest([]byte(raw)); !errors.Is(err, errMalformedBody) {
			t.Fatalf("body %q: expected malformed error, got %v", raw, err)
		}
	}

	invalid := []string{
		`[]`,
		`{"text":"a"}`,
		`{"target_lang":"de"}`,
		`{"text":"a","target_lang":"not a language"}`,
		`{"text":"a","target_lang":"de","source_lang":7}`,
		`{"text":"\n\t","target_lang":"de"}`,
	}
	for _, raw := range invalid {
		_, err := decodeTranslateRequest([]byte(raw))
		if err == nil {
			t.Fatalf("body %q: expected validation error", raw)
		}
		if errors.Is(err, errMalformedBody) {
			t.Fatalf("body %q: did not expect malformed error: %v", raw, err)
		}
	}
}

func TestDecodeTranslateRequest_SchemaLoadFailure(t *testing.T) {
	t.Parallel()

	failing := func() (*jsonschema.Schema, error) {
		return nil, errors.New("add schema resource: boom")
	}
	_, err := decodeTranslateRequestWith([]byte(`{"text":"a","target_lang":"de"}`), failing)
	if !errors.Is(err, errSchemaUnavailable) {
		t.Fatalf("expected schema unavailable error, got %v", err)
	}

	_, err = decodeTranslateRequestWith([]byte(`{"text":`), failing)
	if !errors.Is(err, errMalformedBody) {
		t.Fatalf("expected malformed error before schema load, got %v", err)
	}
}
