package sessionlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// DirName is the session log directory under the config directory.
	DirName = "session-logs"

	defaultMaxFiles   = 20
	defaultMaxEntries = 200
	filePrefix        = "session-"
	fileSuffix        = ".jsonl"
)

// Entry is one captured record.
type Entry struct {
	Seq       uint64 `json:"seq"`
	Timestamp string `json:"ts"` // "20060102150405"
	Level     string `json:"level"`
	Message   string `json:"msg"`
	Source    string `json:"source"`
	Session   string `json:"session,omitempty"`
}

// Recorder appends entries to a per-run JSONL file and keeps the most recent
// ones in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	session string
	seq     uint64
	recent  ringBuffer
}

// Open creates the session log file for this run in dir and prunes older
// files so that at most maxFiles remain (maxFiles <= 0 uses the default).
func Open(dir, session string, maxFiles int) (*Recorder, error) {
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session log dir: %w", err)
	}

	// pid keeps sub-second restarts from colliding.
	name := fmt.Sprintf("%s%s-%d%s", filePrefix, time.Now().Format("20060102-150405"), os.Getpid(), fileSuffix)
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}

	r := &Recorder{
		file:    f,
		path:    path,
		session: session,
		recent:  newRingBuffer(defaultMaxEntries),
	}
	pruneOldFiles(dir, name, maxFiles)
	return r, nil
}

// Path returns the JSONL file path of this run.
func (r *Recorder) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Callback adapts the recorder to a TeeHandler callback.
func (r *Recorder) Callback() EntryCallback {
	return func(ts time.Time, level slog.Level, msg string, group string) {
		r.Write(Entry{
			Timestamp: ts.Format("20060102150405"),
			Level:     strings.ToLower(level.String()),
			Message:   msg,
			Source:    sourceOf(msg, group),
		})
	}
}

// sourceOf names the component of a record: the slog group when set,
// otherwise the bracketed tag that starts the message ("[hotkey] ...").
func sourceOf(msg, group string) string {
	if group != "" {
		return group
	}
	if !strings.HasPrefix(msg, "[") {
		return ""
	}
	end := strings.IndexByte(msg, ']')
	if end <= 1 {
		return ""
	}
	return strings.ToLower(msg[1:end])
}

// Write records entry. Failures go to stderr: slog would re-enter the tee.
func (r *Recorder) Write(entry Entry) {
	r.mu.Lock()
	r.seq++
	entry.Seq = r.seq
	if entry.Session == "" {
		entry.Session = r.session
	}
	r.recent.push(entry)

	var writeErr error
	if r.file != nil {
		raw, err := json.Marshal(entry)
		if err == nil {
			_, err = r.file.Write(append(raw, '\n'))
		}
		writeErr = err
	}
	r.mu.Unlock()

	if writeErr != nil {
		fmt.Fprintf(os.Stderr, "[session-log] failed to write entry: %v\n", writeErr)
	}
}

// Recent returns the in-memory entries, oldest first.
func (r *Recorder) Recent() []Entry {
	if r == nil {
		return []Entry{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recent.snapshot()
}

// Close closes the file. Recent keeps working afterwards.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

// pruneOldFiles deletes the oldest session logs beyond maxFiles, never the
// current one. Names sort by their timestamp prefix.
func pruneOldFiles(dir, current string, maxFiles int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("[session-log] failed to read log directory for cleanup", "dir", dir, "error", err)
		return
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	excess := len(names) - maxFiles
	for _, name := range names {
		if excess <= 0 {
			return
		}
		if name == current {
			continue
		}
		target := filepath.Join(dir, name)
		if err := os.Remove(target); err != nil {
			slog.Warn("[session-log] failed to delete old log file", "path", target, "error", err)
			continue
		}
		excess--
	}
}

// ringBuffer is a fixed-capacity FIFO that overwrites its oldest entry.
// Callers hold Recorder.mu.
type ringBuffer struct {
	buf   []Entry
	head  int
	count int
}

func newRingBuffer(capacity int) ringBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return ringBuffer{buf: make([]Entry, capacity)}
}

func (rb *ringBuffer) push(entry Entry) {
	n := len(rb.buf)
	if rb.count < n {
		rb.buf[(rb.head+rb.count)%n] = entry
		rb.count++
		return
	}
	rb.buf[rb.head] = entry
	rb.head = (rb.head + 1) % n
}

func (rb *ringBuffer) snapshot() []Entry {
	out := make([]Entry, rb.count)
	n := len(rb.buf)
	first := min(n-rb.head, rb.count)
	copy(out, rb.buf[rb.head:rb.head+first])
	if rest := rb.count - first; rest > 0 {
		copy(out[first:], rb.buf[:rest])
	}
	return out
}
