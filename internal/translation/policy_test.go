package translation

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
)

type fixedRandom int

func (f fixedRandom) IntN(n int) int {
	return int(f) % n
}

type seededRandom struct {
	rng *rand.Rand
}

func (s seededRandom) IntN(n int) int {
	return s.rng.IntN(n)
}

func TestNewPlan_PrimaryAlwaysFreeWhenFreeExists(t *testing.T) {
	t.Parallel()

	candidates := Candidates{
		Free: []Provider{&stubProvider{name: "f1", free: true}, &stubProvider{name: "f2", free: true}},
		Paid: []Provider{&stubProvider{name: "p1"}, &stubProvider{name: "p2"}, &stubProvider{name: "p3"}},
	}

	for seed := uint64(0); seed < 500; seed++ {
		rnd := seededRandom{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
		plan, err := NewPlan(candidates, rnd)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if !plan.Primary.IsFree() {
			t.Fatalf("seed %d: primary %q is not free", seed, plan.Primary.Name())
		}
		if plan.Len() != candidates.Len() {
			t.Fatalf("seed %d: unexpected plan length: got %d want %d", seed, plan.Len(), candidates.Len())
		}
		for _, fallback := range plan.Fallbacks {
			if fallback.Name() == plan.Primary.Name() {
				t.Fatalf("seed %d: primary %q appears in its own fallbacks", seed, plan.Primary.Name())
			}
		}
	}
}

func TestNewPlan_FallbackOrderFreeBeforePaid(t *testing.T) {
	t.Parallel()

	candidates := Candidates{
		Free: []Provider{
			&stubProvider{name: "f1", free: true},
			&stubProvider{name: "f2", free: true},
			&stubProvider{name: "f3", free: true},
		},
		Paid: []Provider{&stubProvider{name: "p1"}, &stubProvider{name: "p2"}},
	}

	plan, err := NewPlan(candidates, fixedRandom(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Primary.Name() != "f2" {
		t.Fatalf("unexpected primary: got %q want %q", plan.Primary.Name(), "f2")
	}
	if got := strings.Join(providerNames(plan.Fallbacks), ","); got != "f1,f3,p1,p2" {
		t.Fatalf("unexpected fallbacks: got %q want %q", got, "f1,f3,p1,p2")
	}
}

func TestNewPlan_PaidPrimaryWhenNoFree(t *testing.T) {
	t.Parallel()

	candidates := Candidates{
		Paid: []Provider{&stubProvider{name: "p1"}, &stubProvider{name: "p2"}, &stubProvider{name: "p3"}},
	}

	plan, err := NewPlan(candidates, fixedRandom(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Primary.Name() != "p3" {
		t.Fatalf("unexpected primary: got %q want %q", plan.Primary.Name(), "p3")
	}
	if got := strings.Join(providerNames(plan.Fallbacks), ","); got != "p1,p2" {
		t.Fatalf("unexpected fallbacks: got %q want %q", got, "p1,p2")
	}
}

func TestExecute_TriesEveryCandidateOnceInOrder(t *testing.T) {
	t.Parallel()

	f1 := &stubProvider{name: "f1", free: true, err: errors.New("boom")}
	f2 := &stubProvider{name: "f2", free: true, err: errors.New("boom")}
	p1 := &stubProvider{name: "p1", err: errors.New("boom")}
	plan := Plan{Primary: f2, Fallbacks: []Provider{f1, p1}}

	var order []string
	var reports []AttemptReport
	_, err := plan.Execute(context.Background(), TranslateRequest{Text: "hi", TargetLang: "es"}, AttemptHooks{
		Before: func(provider string, attempt int, fallback bool) {
			order = append(order, provider)
			if fallback != (attempt > 1) {
				t.Fatalf("unexpected fallback flag for attempt %d", attempt)
			}
		},
		After: func(report AttemptReport) {
			reports = append(reports, report)
		},
	})

	var failed *AllProvidersFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected AllProvidersFailedError, got %v", err)
	}
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Fatalf("expected errors.Is to match ErrAllProvidersFailed")
	}
	if got := strings.Join(order, ","); got != "f2,f1,p1" {
		t.Fatalf("unexpected attempt order: got %q want %q", got, "f2,f1,p1")
	}
	if got := strings.Join(failed.ProviderNames(), ","); got != "f2,f1,p1" {
		t.Fatalf("unexpected failed providers: got %q want %q", got, "f2,f1,p1")
	}
	if len(reports) != 3 {
		t.Fatalf("unexpected report count: got %d want %d", len(reports), 3)
	}
	for _, provider := range []*stubProvider{f1, f2, p1} {
		if provider.callCount() != 1 {
			t.Fatalf("provider %q called %d times, want 1", provider.name, provider.callCount())
		}
	}
}

func TestExecute_StopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{name: "primary", free: true, err: errors.New("down")}
	second := &stubProvider{name: "second", free: true, text: "hola"}
	third := &stubProvider{name: "third"}
	plan := Plan{Primary: primary, Fallbacks: []Provider{second, third}}

	resp, err := plan.Execute(context.Background(), TranslateRequest{Text: "hello", TargetLang: "es"}, AttemptHooks{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hola" {
		t.Fatalf("unexpected text: got %q want %q", resp.Text, "hola")
	}
	if third.callCount() != 0 {
		t.Fatalf("expected third provider to be skipped, got %d calls", third.callCount())
	}
}

func TestExecute_MisbehavingProvidersCountAsFailures(t *testing.T) {
	t.Parallel()

	panicking := &stubProvider{name: "panicking", free: true, panicMsg: "kaboom"}
	nilResp := &stubProvider{name: "nil", free: true, nilResp: true}
	empty := &stubProvider{name: "empty", free: true, text: "   "}
	good := &stubProvider{name: "good", text: "ok"}
	plan := Plan{Primary: panicking, Fallbacks: []Provider{nilResp, empty, good}}

	var failures []string
	resp, err := plan.Execute(context.Background(), TranslateRequest{Text: "x", TargetLang: "fr"}, AttemptHooks{
		After: func(report AttemptReport) {
			if report.Err != nil {
				failures = append(failures, report.Provider)
			}
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("unexpected text: got %q want %q", resp.Text, "ok")
	}
	if got := strings.Join(failures, ","); got != "panicking,nil,empty" {
		t.Fatalf("unexpected failures: got %q want %q", got, "panicking,nil,empty")
	}
}

func TestExecute_PassesRequestUnchanged(t *testing.T) {
	t.Parallel()

	first := &stubProvider{name: "first", free: true, err: errors.New("nope")}
	second := &stubProvider{name: "second"}
	plan := Plan{Primary: first, Fallbacks: []Provider{second}}
	req := TranslateRequest{Text: "Bonjour", SourceLang: "fr", TargetLang: "zh-TW"}

	if _, err := plan.Execute(context.Background(), req, AttemptHooks{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.lastReq != req || second.lastReq != req {
		t.Fatalf("providers received modified requests: %+v / %+v", first.lastReq, second.lastReq)
	}
}
