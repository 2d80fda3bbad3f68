package workerutil

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func fastOptions() RecoveryOptions {
	return RecoveryOptions{InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestRunWithPanicRecovery(t *testing.T) {
	tests := []struct {
		name        string
		panicsFirst int
		maxRetries  int
		wantCalls   int32
		wantPanics  int32
		wantFatal   bool
	}{
		{name: "normal return runs once", panicsFirst: 0, maxRetries: 3, wantCalls: 1},
		{name: "recovers after one panic", panicsFirst: 1, maxRetries: 3, wantCalls: 2, wantPanics: 1},
		{name: "gives up after max retries", panicsFirst: 100, maxRetries: 3, wantCalls: 3, wantPanics: 3, wantFatal: true},
		{name: "single attempt", panicsFirst: 100, maxRetries: 1, wantCalls: 1, wantPanics: 1, wantFatal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls, panics atomic.Int32
			var fatal atomic.Bool
			opts := fastOptions()
			opts.MaxRetries = tt.maxRetries
			opts.OnPanic = func(string, int) { panics.Add(1) }
			opts.OnFatal = func(string, int) { fatal.Store(true) }

			var wg sync.WaitGroup
			RunWithPanicRecovery(context.Background(), "test-worker", &wg, func(context.Context) {
				if int(calls.Add(1)) <= tt.panicsFirst {
					panic("boom")
				}
			}, opts)
			wg.Wait()

			if got := calls.Load(); got != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", got, tt.wantCalls)
			}
			if got := panics.Load(); got != tt.wantPanics {
				t.Fatalf("OnPanic calls = %d, want %d", got, tt.wantPanics)
			}
			if fatal.Load() != tt.wantFatal {
				t.Fatalf("OnFatal called = %v, want %v", fatal.Load(), tt.wantFatal)
			}
		})
	}
}

func TestRunWithPanicRecoveryStopsOnShutdown(t *testing.T) {
	var calls atomic.Int32
	var panics atomic.Int32
	opts := fastOptions()
	opts.IsShutdown = func() bool { return true }
	opts.OnPanic = func(string, int) { panics.Add(1) }

	var wg sync.WaitGroup
	RunWithPanicRecovery(context.Background(), "config-watcher", &wg, func(context.Context) {
		calls.Add(1)
		panic("during shutdown")
	}, opts)
	wg.Wait()

	if calls.Load() != 1 || panics.Load() != 0 {
		t.Fatalf("calls=%d panics=%d, want 1 and 0", calls.Load(), panics.Load())
	}
}

func TestRunWithPanicRecoveryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	opts := RecoveryOptions{InitialBackoff: time.Hour, MaxBackoff: time.Hour, MaxRetries: 5}

	var wg sync.WaitGroup
	RunWithPanicRecovery(ctx, "event-forwarder", &wg, func(context.Context) {
		calls.Add(1)
		panic("boom")
	}, opts)

	time.Sleep(20 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel during backoff")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestApplyDefaults(t *testing.T) {
	got := RecoveryOptions{}.applyDefaults()
	if got.InitialBackoff != defaultInitialBackoff || got.MaxBackoff != defaultMaxBackoff || got.MaxRetries != defaultMaxRetries {
		t.Fatalf("applyDefaults() = %+v", got)
	}

	swapped := RecoveryOptions{InitialBackoff: time.Second, MaxBackoff: time.Millisecond}.applyDefaults()
	if swapped.MaxBackoff != time.Second {
		t.Fatalf("MaxBackoff = %v, want promoted to InitialBackoff", swapped.MaxBackoff)
	}
}

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		name    string
		current time.Duration
		max     time.Duration
		want    time.Duration
	}{
		{name: "doubles", current: 100 * time.Millisecond, max: time.Second, want: 200 * time.Millisecond},
		{name: "caps", current: 800 * time.Millisecond, max: time.Second, want: time.Second},
		{name: "at cap", current: time.Second, max: time.Second, want: time.Second},
		{name: "zero resets", current: 0, max: time.Second, want: defaultInitialBackoff},
		{name: "overflow", current: time.Duration(math.MaxInt64/2 + 1), max: time.Duration(math.MaxInt64), want: time.Duration(math.MaxInt64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextBackoff(tt.current, tt.max); got != tt.want {
				t.Fatalf("nextBackoff(%v, %v) = %v, want %v", tt.current, tt.max, got, tt.want)
			}
		})
	}
}
