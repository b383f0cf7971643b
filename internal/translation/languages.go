package translation

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/FxEmbed/polyglot/internal/language"
)

//go:embed languages.yaml
var languageTablesYAML []byte

var (
	languageTablesOnce sync.Once
	languageTables     map[string][]string
	languageTablesErr  error
)

// LanguageOption is one target language offered by at least one available provider.
type LanguageOption struct {
	Code      string   `json:"code" yaml:"code"`
	Name      string   `json:"name" yaml:"name"`
	Providers []string `json:"providers" yaml:"providers"`
}

// languageLister is implemented by providers that can enumerate their languages.
type languageLister interface {
	Languages() []string
}

// languageSet is an immutable set of normalized language tags.
type languageSet map[string]struct{}

func newLanguageSet(codes []string) languageSet {
	set := make(languageSet, len(codes))
	for _, code := range codes {
		if tag := language.NormalizeTag(code); tag != "" {
			set[tag] = struct{}{}
		}
	}
	return set
}

func (s languageSet) has(tag string) bool {
	_, ok := s[tag]
	return ok
}

func (s languageSet) sorted() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LoadLanguageTables parses the embedded static tables once.
func LoadLanguageTables() (map[string][]string, error) {
	languageTablesOnce.Do(func() {
		var tables map[string][]string
		if err := yaml.Unmarshal(languageTablesYAML, &tables); err != nil {
			languageTablesErr = fmt.Errorf("decode language tables: %w", err)
			return
		}
		languageTables = tables
	})
	return languageTables, languageTablesErr
}

// staticLanguages returns the table for one provider, or an empty set when the
// tables cannot be loaded (NewRegistryFromConfig reports that error).
func staticLanguages(provider string) languageSet {
	tables, err := LoadLanguageTables()
	if err != nil {
		return languageSet{}
	}
	return newLanguageSet(tables[provider])
}

// TranslationLanguageOptions lists every target language accepted by at least
// one of providers, with display names.
func TranslationLanguageOptions(providers []Provider) []LanguageOption {
	byCode := map[string][]string{}
	for _, provider := range providers {
		lister, ok := provider.(languageLister)
		if !ok {
			continue
		}
		for _, code := range lister.Languages() {
			normalized := language.NormalizeTag(code)
			if normalized == "" || normalized == "auto" {
				continue
			}
			byCode[normalized] = append(byCode[normalized], provider.Name())
		}
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	options := make([]LanguageOption, 0, len(codes))
	for _, code := range codes {
		name := language.DisplayName(code)
		if name == "" {
			name = strings.ToUpper(code)
		}
		options = append(options, LanguageOption{
			Code:      code,
			Name:      name,
			Providers: byCode[code],
		})
	}
	return options
}
