package main

import (
	"log/slog"
	"strings"

	"chronify/internal/events"
	"chronify/internal/hotkeys"
)

// registerShortcut binds spec as the global shortcut, replacing any previous
// registration.
func (a *App) registerShortcut(spec string) error {
	a.shortcutMu.Lock()
	defer a.shortcutMu.Unlock()

	spec = strings.TrimSpace(spec)
	if err := a.hotkeys.Start(spec, a.handleShortcutEvent); err != nil {
		a.registered.Store("")
		return err
	}
	binding := a.hotkeys.ActiveBinding()
	if binding == "" {
		binding = spec
	}
	a.registered.Store(binding)
	return nil
}

func (a *App) registeredShortcut() string {
	binding, _ := a.registered.Load().(string)
	return binding
}

// handleShortcutEvent emits the toggle-timer event once per press of the
// registered chord. Releases and other chords are ignored.
func (a *App) handleShortcutEvent(evt hotkeys.Event) {
	if evt.State != hotkeys.Pressed {
		return
	}
	registered := a.registeredShortcut()
	if !hotkeys.SameBinding(evt.Binding, registered) {
		slog.Debug("[hotkey] ignoring unregistered chord", "binding", evt.Binding, "registered", registered)
		return
	}
	a.events.Publish(events.ShortcutEvent, events.ToggleTimerPayload)
}
