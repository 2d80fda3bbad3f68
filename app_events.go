package main

import (
	"context"
	"log/slog"

	"chronify/internal/events"
	"chronify/internal/workerutil"
)

// emitRuntimeEvent emits via the app context.
func (a *App) emitRuntimeEvent(name string, payload any) {
	a.emitRuntimeEventWithContext(a.runtimeContext(), name, payload)
}

// emitRuntimeEventWithContext emits a runtime event only when ctx is non-nil.
func (a *App) emitRuntimeEventWithContext(ctx context.Context, name string, payload any) {
	if ctx == nil {
		slog.Warn("[EVENT] runtime event dropped because app context is nil", "event", name)
		return
	}
	runtimeEventsEmitFn(ctx, name, payload)
}

// startEventForwarder relays broadcaster events to the UI layer until ctx
// is done. Broadcaster.Close on shutdown releases the subscription.
func (a *App) startEventForwarder(ctx context.Context) {
	ch, _ := a.events.Subscribe(events.DefaultBuffer)
	sink := events.EmitterFunc(a.emitRuntimeEvent)
	workerutil.RunWithPanicRecovery(ctx, "event-forwarder", &a.bgWG, func(ctx context.Context) {
		events.Forward(ctx, ch, sink)
	}, a.recoveryOptions())
}
