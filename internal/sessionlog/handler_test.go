package sessionlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

type capturedEntry struct {
	ts    time.Time
	level slog.Level
	msg   string
	group string
}

func newTestCallback() (EntryCallback, func() []capturedEntry) {
	var mu sync.Mutex
	var entries []capturedEntry

	cb := func(ts time.Time, level slog.Level, msg string, group string) {
		mu.Lock()
		defer mu.Unlock()
		entries = append(entries, capturedEntry{ts: ts, level: level, msg: msg, group: group})
	}
	get := func() []capturedEntry {
		mu.Lock()
		defer mu.Unlock()
		copied := make([]capturedEntry, len(entries))
		copy(copied, entries)
		return copied
	}
	return cb, get
}

func TestTeeHandlerThreshold(t *testing.T) {
	tests := []struct {
		name      string
		log       func(*slog.Logger)
		wantCalls int
		wantLevel slog.Level
	}{
		{name: "error is teed", log: func(l *slog.Logger) { l.Error("[hotkey] register failed") }, wantCalls: 1, wantLevel: slog.LevelError},
		{name: "warn is teed", log: func(l *slog.Logger) { l.Warn("[WARN-CONFIG] unknown tray_icon") }, wantCalls: 1, wantLevel: slog.LevelWarn},
		{name: "info is not teed", log: func(l *slog.Logger) { l.Info("[tray] system tray ready") }, wantCalls: 0},
		{name: "debug is not teed", log: func(l *slog.Logger) { l.Debug("[idle] idle time unavailable") }, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			cb, getEntries := newTestCallback()
			tt.log(slog.New(NewTeeHandler(base, slog.LevelWarn, cb)))

			entries := getEntries()
			if len(entries) != tt.wantCalls {
				t.Fatalf("callback calls = %d, want %d", len(entries), tt.wantCalls)
			}
			if tt.wantCalls == 1 {
				if entries[0].level != tt.wantLevel {
					t.Fatalf("level = %v, want %v", entries[0].level, tt.wantLevel)
				}
				if entries[0].ts.IsZero() {
					t.Fatal("timestamp is zero")
				}
			}
			if buf.Len() == 0 {
				t.Fatal("base handler must receive every record")
			}
		})
	}
}

func TestTeeHandlerNilCallbackOnlyDelegates(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTeeHandler(slog.NewTextHandler(&buf, nil), slog.LevelWarn, nil))
	logger.Error("still written")
	if !strings.Contains(buf.String(), "still written") {
		t.Fatalf("base output = %q", buf.String())
	}
}

func TestTeeHandlerGroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	cb, getEntries := newTestCallback()
	handler := NewTeeHandler(slog.NewJSONHandler(&buf, nil), slog.LevelWarn, cb)

	logger := slog.New(handler).With("session", "abc").WithGroup("shell").WithGroup("tray")
	logger.Warn("icon missing")

	entries := getEntries()
	if len(entries) != 1 || entries[0].group != "shell.tray" {
		t.Fatalf("entries = %+v, want group shell.tray", entries)
	}
	if !strings.Contains(buf.String(), `"session":"abc"`) {
		t.Fatalf("base output lost attrs: %q", buf.String())
	}

	if h := handler.WithGroup(""); h != handler {
		t.Fatal("WithGroup(\"\") must return the receiver")
	}
	if h := handler.WithAttrs(nil); h != handler {
		t.Fatal("WithAttrs(nil) must return the receiver")
	}
}

func TestTeeHandlerEnabledDefersToBase(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	handler := NewTeeHandler(base, slog.LevelDebug, func(time.Time, slog.Level, string, string) {})
	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Enabled(Debug) should follow the base handler level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("Enabled(Error) should be true")
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestTeeHandlerCallbackRunsWhenBaseFails(t *testing.T) {
	cb, getEntries := newTestCallback()
	handler := NewTeeHandler(failingHandler{slog.NewTextHandler(&bytes.Buffer{}, nil)}, slog.LevelWarn, cb)

	record := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	if err := handler.Handle(context.Background(), record); err == nil {
		t.Fatal("Handle() should return the base error")
	}
	if len(getEntries()) != 1 {
		t.Fatal("callback should still run when the base handler fails")
	}
}

func TestTeeHandlerRecoversCallbackPanic(t *testing.T) {
	handler := NewTeeHandler(slog.NewTextHandler(&bytes.Buffer{}, nil), slog.LevelWarn,
		func(time.Time, slog.Level, string, string) { panic("callback exploded") })

	record := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	if err := handler.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
}
