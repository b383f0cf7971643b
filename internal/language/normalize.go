package language

import "strings"

// Auto is the pseudo language code that asks a backend to detect the source.
const Auto = "auto"

// NormalizeTag lowercases a language tag and joins its subtags with "-".
// The primary subtag must be 2-8 letters; later subtags may also carry digits
// (for example "es-419"). Anything else normalizes to "".
func NormalizeTag(raw string) string {
	parts := subtags(raw)
	if len(parts) == 0 {
		return ""
	}
	if len(parts[0]) < 2 || len(parts[0]) > 8 || !isAlphaLower(parts[0]) {
		return ""
	}
	for _, part := range parts[1:] {
		if len(part) > 8 || !isAlnumLower(part) {
			return ""
		}
	}
	return strings.Join(parts, "-")
}

// NormalizeCode returns the primary language subtag (for example, "en" from "en-US").
func NormalizeCode(raw string) string {
	tag := NormalizeTag(raw)
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		return tag[:dash]
	}
	return tag
}

// Canonical restores the conventional casing that case-sensitive backends
// expect: "zh-hans" becomes "zh-Hans" and "pt_br" becomes "pt-BR".
func Canonical(raw string) string {
	tag := NormalizeTag(raw)
	if tag == "" {
		return ""
	}
	parts := strings.Split(tag, "-")
	for i := 1; i < len(parts); i++ {
		part := parts[i]
		switch {
		case len(part) == 2 && isAlphaLower(part):
			parts[i] = strings.ToUpper(part)
		case len(part) == 4 && isAlphaLower(part):
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "-")
}

// IsAuto reports whether raw is empty or the detection pseudo code.
func IsAuto(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || strings.EqualFold(trimmed, Auto)
}

func subtags(raw string) []string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return nil
	}
	fields := strings.FieldsFunc(trimmed, func(r rune) bool {
		return r == '-' || r == '_'
	})
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			parts = append(parts, field)
		}
	}
	return parts
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func isAlnumLower(value string) bool {
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
