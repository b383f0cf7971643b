package translation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// RandomSource picks the primary candidate. IntN returns a value in [0, n).
type RandomSource interface {
	IntN(n int) int
}

// defaultRandom uses the math/rand/v2 top-level source, which is safe for concurrent use.
type defaultRandom struct{}

func (defaultRandom) IntN(n int) int {
	return rand.IntN(n)
}

// Plan is the ordered list of providers tried for one request.
type Plan struct {
	Primary   Provider
	Fallbacks []Provider
}

// Len returns the total number of providers in the plan.
func (p Plan) Len() int {
	if p.Primary == nil {
		return 0
	}
	return 1 + len(p.Fallbacks)
}

// NewPlan picks a uniformly random primary from the free tier, or from the paid
// tier when no free candidate exists. The remaining free candidates come
// before the remaining paid ones in the fallback queue.
func NewPlan(candidates Candidates, rnd RandomSource) (Plan, error) {
	if rnd == nil {
		rnd = defaultRandom{}
	}

	fromFree := len(candidates.Free) > 0
	tier := candidates.Free
	if !fromFree {
		tier = candidates.Paid
	}
	if len(tier) == 0 {
		return Plan{}, ErrNoProvider
	}

	primaryIdx := rnd.IntN(len(tier))
	primary := tier[primaryIdx]

	fallbacks := make([]Provider, 0, candidates.Len()-1)
	for idx, provider := range candidates.Free {
		if fromFree && idx == primaryIdx {
			continue
		}
		fallbacks = append(fallbacks, provider)
	}
	for idx, provider := range candidates.Paid {
		if !fromFree && idx == primaryIdx {
			continue
		}
		fallbacks = append(fallbacks, provider)
	}

	return Plan{Primary: primary, Fallbacks: fallbacks}, nil
}

// AttemptReport describes one finished provider call.
type AttemptReport struct {
	Provider string
	Attempt  int // 1-based
	Fallback bool
	Duration time.Duration
	Err      error
}

// AttemptHooks observe the fallback sequence. Both fields are optional.
type AttemptHooks struct {
	Before func(provider string, attempt int, fallback bool)
	After  func(AttemptReport)
}

// Execute tries the primary and then each fallback in order until one succeeds.
// Attempts are sequential and every provider receives the same request.
func (p Plan) Execute(ctx context.Context, req TranslateRequest, hooks AttemptHooks) (*TranslateResponse, error) {
	if p.Primary == nil {
		return nil, ErrNoProvider
	}

	queue := make([]Provider, 0, p.Len())
	queue = append(queue, p.Primary)
	queue = append(queue, p.Fallbacks...)

	attempts := make([]AttemptError, 0, len(queue))
	for idx, provider := range queue {
		name := provider.Name()
		fallback := idx > 0
		if hooks.Before != nil {
			hooks.Before(name, idx+1, fallback)
		}

		started := time.Now()
		resp, err := attempt(ctx, provider, req)
		if hooks.After != nil {
			hooks.After(AttemptReport{
				Provider: name,
				Attempt:  idx + 1,
				Fallback: fallback,
				Duration: time.Since(started),
				Err:      err,
			})
		}
		if err == nil {
			return resp, nil
		}
		attempts = append(attempts, AttemptError{Provider: name, Err: err})
	}

	return nil, &AllProvidersFailedError{Attempts: attempts}
}

// attempt calls one provider, turning panics and empty results into errors so a
// single misbehaving adapter cannot end the fallback sequence.
func attempt(ctx context.Context, provider Provider, req TranslateRequest) (resp *TranslateResponse, err error) {
	name := provider.Name()
	defer func() {
		if recovered := recover(); recovered != nil {
			resp = nil
			err = providerErrorf(name, "panic: %v", recovered)
		}
	}()

	resp, err = provider.Translate(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, providerErrorf(name, "provider returned no response")
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, providerErrorf(name, "provider returned empty translation")
	}
	return resp, nil
}

// describeAttempts renders the failure chain for logs.
func describeAttempts(attempts []AttemptError) string {
	parts := make([]string, 0, len(attempts))
	for _, a := range attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Provider, a.Err))
	}
	return strings.Join(parts, "; ")
}
