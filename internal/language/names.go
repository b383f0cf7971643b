package language

import (
	"strings"
	"sync"

	lingua "github.com/pemistahl/lingua-go"
)

var (
	namesOnce sync.Once
	names     map[string]string
)

// DisplayName returns the English name of the primary subtag of raw
// (for example "Chinese" for "zh-tw"), or "" when the code is unknown.
func DisplayName(raw string) string {
	code := NormalizeCode(raw)
	if code == "" {
		return ""
	}
	return getNames()[code]
}

func getNames() map[string]string {
	namesOnce.Do(func() {
		all := lingua.AllLanguages()
		names = make(map[string]string, len(all))
		for _, lang := range all {
			code := strings.ToLower(lang.IsoCode639_1().String())
			if len(code) != 2 {
				continue
			}
			names[code] = lang.String()
		}
	})
	return names
}
