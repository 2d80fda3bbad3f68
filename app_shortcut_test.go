package main

import (
	"testing"
	"time"

	"chronify/internal/events"
	"chronify/internal/hotkeys"
)

func TestHandleShortcutEvent(t *testing.T) {
	tests := []struct {
		name      string
		evt       hotkeys.Event
		wantEmits int
	}{
		{name: "pressed registered chord", evt: hotkeys.Event{Binding: "Alt+Shift+S", State: hotkeys.Pressed}, wantEmits: 1},
		{name: "case and order differ", evt: hotkeys.Event{Binding: "shift+alt+s", State: hotkeys.Pressed}, wantEmits: 1},
		{name: "released registered chord", evt: hotkeys.Event{Binding: "Alt+Shift+S", State: hotkeys.Released}, wantEmits: 0},
		{name: "different chord", evt: hotkeys.Event{Binding: "Alt+Shift+T", State: hotkeys.Pressed}, wantEmits: 0},
		{name: "unparsable chord", evt: hotkeys.Event{Binding: "garbage", State: hotkeys.Pressed}, wantEmits: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)
			if err := app.registerShortcut("Alt+Shift+S"); err != nil {
				t.Fatalf("registerShortcut() error = %v", err)
			}
			collect := subscribeEvents(t, app)

			app.handleShortcutEvent(tt.evt)

			got := collect(30 * time.Millisecond)
			if len(got) != tt.wantEmits {
				t.Fatalf("emitted %d events, want %d (%v)", len(got), tt.wantEmits, got)
			}
			for _, evt := range got {
				if evt.Name != events.ShortcutEvent || evt.Payload != events.ToggleTimerPayload {
					t.Fatalf("unexpected event %+v", evt)
				}
			}
		})
	}
}

func TestShortcutCallbackFromManagerEmitsOnce(t *testing.T) {
	app, shortcuts := newTestApp(t)
	if err := app.registerShortcut("Ctrl+Alt+T"); err != nil {
		t.Fatalf("registerShortcut() error = %v", err)
	}
	collect := subscribeEvents(t, app)

	shortcuts.onEvent(hotkeys.Event{Binding: "Ctrl+Alt+T", State: hotkeys.Pressed})
	shortcuts.onEvent(hotkeys.Event{Binding: "Ctrl+Alt+T", State: hotkeys.Released})

	if got := collect(30 * time.Millisecond); len(got) != 1 {
		t.Fatalf("emitted %d events for one press/release, want 1", len(got))
	}
}

func TestRegisterShortcutFailureClearsBinding(t *testing.T) {
	app, shortcuts := newTestApp(t)
	if err := app.registerShortcut("Alt+Shift+S"); err != nil {
		t.Fatalf("registerShortcut() error = %v", err)
	}
	shortcuts.fail["ctrl+f1"] = errRegister

	if err := app.registerShortcut("Ctrl+F1"); err == nil {
		t.Fatal("registerShortcut() should fail")
	}
	if got := app.registeredShortcut(); got != "" {
		t.Fatalf("registeredShortcut() = %q, want empty after failure", got)
	}
}
