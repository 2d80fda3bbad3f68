package main

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"chronify/internal/events"
	"chronify/internal/ipc"
)

type lifecycleTestLogger struct {
	mu       sync.Mutex
	errors   []string
	warnings []string
}

func (l *lifecycleTestLogger) Warningf(_ context.Context, message string, args ...any) {
	l.mu.Lock()
	l.warnings = append(l.warnings, formatRuntimeLogMessage(message, args...))
	l.mu.Unlock()
}

func (l *lifecycleTestLogger) Infof(context.Context, string, ...any) {}

func (l *lifecycleTestLogger) Errorf(_ context.Context, message string, args ...any) {
	l.mu.Lock()
	l.errors = append(l.errors, formatRuntimeLogMessage(message, args...))
	l.mu.Unlock()
}

func TestStartupShortcutFailureIsFatal(t *testing.T) {
	t.Cleanup(restoreRuntimeHooks)
	codes := stubExit(t)
	logger := &lifecycleTestLogger{}
	runtimeLogger = logger
	serverBuilt := false
	newIPCServerFn = func(endpoint string, handler ipc.Handler) *ipc.Server {
		serverBuilt = true
		return ipc.NewServer(endpoint, handler)
	}

	app, shortcuts := newTestApp(t)
	shortcuts.fail["alt+shift+s"] = errRegister

	app.startup(context.Background())

	if !slices.Equal(*codes, []int{1}) {
		t.Fatalf("exit codes = %v, want [1]", *codes)
	}
	if len(logger.errors) != 1 {
		t.Fatalf("error logs = %v, want one", logger.errors)
	}
	if serverBuilt {
		t.Fatal("activation server must not start after a fatal shortcut error")
	}
}

func TestEventForwarderEmitsToRuntime(t *testing.T) {
	t.Cleanup(restoreRuntimeHooks)
	type emitted struct {
		name    string
		payload any
	}
	got := make(chan emitted, 4)
	runtimeEventsEmitFn = func(_ context.Context, name string, data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		got <- emitted{name: name, payload: payload}
	}

	app, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	app.setRuntimeContext(ctx)
	app.startEventForwarder(ctx)
	t.Cleanup(func() {
		cancel()
		app.bgWG.Wait()
	})

	app.events.Publish(events.ShortcutEvent, events.ToggleTimerPayload)

	select {
	case evt := <-got:
		if evt.name != events.ShortcutEvent || evt.payload != events.ToggleTimerPayload {
			t.Fatalf("emitted %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was not forwarded to the runtime")
	}
}

func TestEmitRuntimeEventWithNilContextIsDropped(t *testing.T) {
	t.Cleanup(restoreRuntimeHooks)
	called := false
	runtimeEventsEmitFn = func(context.Context, string, ...any) { called = true }

	app, _ := newTestApp(t)
	app.emitRuntimeEvent(events.ShortcutEvent, events.ToggleTimerPayload)

	if called {
		t.Fatal("runtime emit must not run without a context")
	}
}

func TestShutdownStopsServices(t *testing.T) {
	t.Cleanup(restoreRuntimeHooks)
	app, shortcuts := newTestApp(t)
	shellTray := &fakeTray{}
	app.tray = shellTray
	ctx, cancel := context.WithCancel(context.Background())
	app.bgCancel = cancel
	app.setRuntimeContext(ctx)
	app.startEventForwarder(ctx)

	app.shutdown(ctx)

	if shortcuts.stops != 1 {
		t.Fatalf("shortcut stops = %d, want 1", shortcuts.stops)
	}
	if shellTray.stops != 1 {
		t.Fatalf("tray stops = %d, want 1", shellTray.stops)
	}
	if app.runtimeContext() != nil {
		t.Fatal("runtime context should be cleared after shutdown")
	}
	if _, ok := app.mainWindow(); ok {
		t.Fatal("main window should be absent after shutdown")
	}
}

func TestShutdownReportsDroppedEvents(t *testing.T) {
	t.Cleanup(restoreRuntimeHooks)
	logger := &lifecycleTestLogger{}
	runtimeLogger = logger

	app, _ := newTestApp(t)
	_, cancel := app.events.Subscribe(1)
	t.Cleanup(cancel)
	for range 3 {
		app.events.Publish(events.ShortcutEvent, events.ToggleTimerPayload)
	}

	app.shutdown(context.Background())

	want := "2 event deliveries dropped on full subscribers"
	if !slices.Contains(logger.warnings, want) {
		t.Fatalf("warnings = %v, want %q", logger.warnings, want)
	}
}

func TestWaitWithTimeout(t *testing.T) {
	if !waitWithTimeout(func() {}, time.Second) {
		t.Fatal("waitWithTimeout() = false for an immediate wait")
	}
	block := make(chan struct{})
	defer close(block)
	if waitWithTimeout(func() { <-block }, 10*time.Millisecond) {
		t.Fatal("waitWithTimeout() = true for a blocked wait")
	}
}
