package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultReloadDebounce = 150 * time.Millisecond

// Watcher reloads the config file when it changes on disk and hands every
// successfully parsed result to onChange. Parse failures are logged and the
// previous config stays in effect.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(Config)
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, onChange func(Config)) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: defaultReloadDebounce,
		onChange: onChange,
	}
}

// Run watches the directory containing the config file until ctx is done.
// The directory is watched rather than the file so that atomic
// rename-over-target saves are observed.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}

	var debounceTimer *time.Timer
	reloadCh := make(chan struct{}, 1)
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.isRelevant(event) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case reloadCh <- struct{}{}:
				default:
				}
			})

		case <-reloadCh:
			w.reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("[WARN-CONFIG] config watcher error", "error", err)
		}
	}
}

func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		slog.Warn("[WARN-CONFIG] config reload failed, keeping previous config", "path", w.path, "error", err)
		return
	}
	slog.Debug("[DEBUG-CONFIG] config reloaded", "path", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
