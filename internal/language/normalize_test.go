package language

import "testing"

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		" EN_us ":   "en-us",
		"zh-Hans":   "zh-hans",
		"en--US":    "en-us",
		"es-419":    "es-419",
		"auto":      "auto",
		"123":       "",
		"e":         "",
		"en_$$":     "",
		"":          "",
		"sr-Latn-R": "sr-latn-r",
	}
	for input, want := range cases {
		if got := NormalizeTag(input); got != want {
			t.Fatalf("NormalizeTag(%q): got %q want %q", input, got, want)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCode(" EN-us "); got != "en" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode("zh"); got != "zh" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode(" "); got != "" {
		t.Fatalf("expected empty code for blank input, got %q", got)
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"zh-hans":  "zh-Hans",
		"ZH_cn":    "zh-CN",
		"sr-latn":  "sr-Latn",
		"mni-mtei": "mni-Mtei",
		"es-419":   "es-419",
		"en":       "en",
		"":         "",
	}
	for input, want := range cases {
		if got := Canonical(input); got != want {
			t.Fatalf("Canonical(%q): got %q want %q", input, got, want)
		}
	}
}

func TestIsAuto(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "  ", "auto", " AUTO "} {
		if !IsAuto(raw) {
			t.Fatalf("expected %q to mean auto-detect", raw)
		}
	}
	if IsAuto("en") {
		t.Fatalf("did not expect en to mean auto-detect")
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := DisplayName("zh-TW"); got != "Chinese" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := DisplayName("de"); got != "German" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := DisplayName("xx"); got != "" {
		t.Fatalf("expected empty display name for unknown code, got %q", got)
	}
}
