package sessionlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecorderWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	rec, err := Open(dir, "run-1", 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	cb := rec.Callback()
	cb(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), slog.LevelWarn, "[tray] icon decode slow", "")
	cb(time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC), slog.LevelError, "[hotkey] register failed", "shell")

	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(rec.Path())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var got []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line %q is not JSON: %v", scanner.Text(), err)
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Seq != 1 || got[1].Seq != 2 {
		t.Fatalf("seq = %d,%d, want 1,2", got[0].Seq, got[1].Seq)
	}
	if got[0].Level != "warn" || got[1].Level != "error" {
		t.Fatalf("levels = %q,%q", got[0].Level, got[1].Level)
	}
	if got[1].Timestamp != "20260102030406" || got[1].Source != "shell" || got[1].Session != "run-1" {
		t.Fatalf("entry = %+v", got[1])
	}
}

func TestRecorderRecentIsBounded(t *testing.T) {
	rec, err := Open(t.TempDir(), "", 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	for i := range defaultMaxEntries + 5 {
		rec.Write(Entry{Level: "warn", Message: fmt.Sprintf("m%d", i)})
	}
	recent := rec.Recent()
	if len(recent) != defaultMaxEntries {
		t.Fatalf("len(Recent()) = %d, want %d", len(recent), defaultMaxEntries)
	}
	if recent[0].Message != "m5" {
		t.Fatalf("oldest = %q, want m5", recent[0].Message)
	}
	if last := recent[len(recent)-1]; last.Message != fmt.Sprintf("m%d", defaultMaxEntries+4) {
		t.Fatalf("newest = %q", last.Message)
	}
}

func TestRecorderWriteAfterCloseKeepsMemory(t *testing.T) {
	rec, err := Open(t.TempDir(), "", 0)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	rec.Close()
	rec.Write(Entry{Level: "error", Message: "late"})
	if got := rec.Recent(); len(got) != 1 || got[0].Message != "late" {
		t.Fatalf("Recent() = %+v", got)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	if rec.Path() != "" || len(rec.Recent()) != 0 || rec.Close() != nil {
		t.Fatal("nil recorder should behave as empty")
	}
}

func TestOpenPrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	for i := range 5 {
		name := fmt.Sprintf("session-20200101-00000%d-1.jsonl", i)
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600); err != nil {
		t.Fatal(err)
	}

	rec, err := Open(dir, "", 3)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var logs []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".jsonl") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) != 3 {
		t.Fatalf("remaining logs = %v, want 3", logs)
	}
	if _, err := os.Stat(rec.Path()); err != nil {
		t.Fatalf("current log was pruned: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Fatal("non-log files must be left alone")
	}
}

func TestSourceOf(t *testing.T) {
	tests := []struct {
		msg, group, want string
	}{
		{msg: "[hotkey] register failed", want: "hotkey"},
		{msg: "[WARN-CONFIG] unknown tray_icon", want: "warn-config"},
		{msg: "[tray] ready", group: "shell", want: "shell"},
		{msg: "plain message", want: ""},
		{msg: "[] empty tag", want: ""},
		{msg: "[unterminated", want: ""},
	}
	for _, tt := range tests {
		if got := sourceOf(tt.msg, tt.group); got != tt.want {
			t.Errorf("sourceOf(%q, %q) = %q, want %q", tt.msg, tt.group, got, tt.want)
		}
	}
}
