package translation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRequest is returned when text or target language is missing.
	ErrInvalidRequest = errors.New("text and target language are required")
	// ErrNoProvider is returned when no available provider accepts the request.
	ErrNoProvider = errors.New("no translation provider supports this request")
	// ErrAllProvidersFailed matches any *AllProvidersFailedError.
	ErrAllProvidersFailed = errors.New("all translation providers failed")
)

// ProviderError wraps a failure reported by one provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Provider + ": translation failed"
	}
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func providerErrorf(provider, format string, args ...any) error {
	return &ProviderError{Provider: provider, Err: fmt.Errorf(format, args...)}
}

// AttemptError records one failed attempt inside a fallback sequence.
type AttemptError struct {
	Provider string
	Err      error
}

// AllProvidersFailedError is returned once every candidate has been tried.
type AllProvidersFailedError struct {
	Attempts []AttemptError
}

func (e *AllProvidersFailedError) Error() string {
	if e == nil || len(e.Attempts) == 0 {
		return ErrAllProvidersFailed.Error()
	}
	return fmt.Sprintf("%s (tried %s)", ErrAllProvidersFailed.Error(), strings.Join(e.ProviderNames(), ", "))
}

func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

func (e *AllProvidersFailedError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		if attempt.Err != nil {
			errs = append(errs, attempt.Err)
		}
	}
	return errs
}

// ProviderNames lists attempted providers in attempt order.
func (e *AllProvidersFailedError) ProviderNames() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		names = append(names, attempt.Provider)
	}
	return names
}
