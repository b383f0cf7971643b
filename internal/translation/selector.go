package translation

import "unicode/utf8"

// Candidates partitions the providers able to serve one request by cost tier.
type Candidates struct {
	Free []Provider
	Paid []Provider
}

// Len returns the number of candidates across both tiers.
func (c Candidates) Len() int {
	return len(c.Free) + len(c.Paid)
}

// Empty reports whether no provider can serve the request.
func (c Candidates) Empty() bool {
	return c.Len() == 0
}

// TextLength measures text in the unit used by MaxTextLength: Unicode code points.
func TextLength(text string) int {
	return utf8.RuneCountInString(text)
}

// FilterAvailable keeps the providers whose configuration is complete, in input order.
func FilterAvailable(providers []Provider) []Provider {
	available := make([]Provider, 0, len(providers))
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		if provider.IsAvailable() {
			available = append(available, provider)
		}
	}
	return available
}

// SelectCandidates narrows available providers to those that accept the target
// language, the text length and the text shape, split into free and paid tiers.
// Relative order inside each tier follows the input order.
func SelectCandidates(available []Provider, text, targetLang string) Candidates {
	length := TextLength(text)

	var candidates Candidates
	for _, provider := range available {
		if !provider.SupportsLanguage(targetLang) {
			continue
		}
		if !acceptsLength(provider, length) {
			continue
		}
		if !provider.SupportsText(text) {
			continue
		}

		if provider.IsFree() {
			candidates.Free = append(candidates.Free, provider)
		} else {
			candidates.Paid = append(candidates.Paid, provider)
		}
	}
	return candidates
}

func acceptsLength(provider Provider, length int) bool {
	limit := provider.MaxTextLength()
	if limit <= NoTextLimit {
		return true
	}
	return length <= limit
}
