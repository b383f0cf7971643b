// Package globaltime is the process clock behind the wall-clock values the
// HTTP API reports. Tests pin it with Freeze.
package globaltime

import (
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	nowFunc = time.Now
)

func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowFunc()
}

func UTC() time.Time {
	return Now().UTC()
}

// Since is time.Since against the process clock.
func Since(t time.Time) time.Duration {
	return Now().Sub(t)
}

// Freeze pins the clock at t until the returned restore func runs. Freezing
// is process-wide, so callers must not run in parallel with clock readers.
func Freeze(t time.Time) (restore func()) {
	mu.Lock()
	previous := nowFunc
	nowFunc = func() time.Time { return t }
	mu.Unlock()

	return func() {
		mu.Lock()
		nowFunc = previous
		mu.Unlock()
	}
}

// Advance moves a frozen clock forward by d.
func Advance(d time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	current := nowFunc().Add(d)
	nowFunc = func() time.Time { return current }
}
