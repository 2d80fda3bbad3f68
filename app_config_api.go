package main

import (
	"context"
	"log/slog"

	"chronify/internal/config"
	"chronify/internal/events"
	"chronify/internal/hotkeys"
	"chronify/internal/workerutil"
)

// GetShellConfig returns the active shell configuration.
func (a *App) GetShellConfig() config.Config {
	return a.getConfigSnapshot()
}

// getConfigSnapshot returns a copy of the config protected by cfgMu.
func (a *App) getConfigSnapshot() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

func (a *App) setConfigSnapshot(cfg config.Config) {
	a.cfgMu.Lock()
	a.cfg = cfg
	a.cfgMu.Unlock()
}

func (a *App) startConfigWatcher(ctx context.Context) {
	watcher := config.NewWatcher(a.configPath, a.applyConfig)
	workerutil.RunWithPanicRecovery(ctx, "config-watcher", &a.bgWG, func(ctx context.Context) {
		if err := watcher.Run(ctx); err != nil {
			slog.Warn("[WARN-CONFIG] config watcher stopped", "path", a.configPath, "error", err)
		}
	}, a.recoveryOptions())
}

// applyConfig installs a reloaded config. A changed shortcut is
// re-registered; if that fails the previous binding is restored and kept.
func (a *App) applyConfig(next config.Config) {
	prev := a.getConfigSnapshot()

	if !hotkeys.SameBinding(prev.GlobalShortcut, next.GlobalShortcut) {
		if err := a.registerShortcut(next.GlobalShortcut); err != nil {
			slog.Warn("[hotkey] new shortcut registration failed, keeping previous",
				"shortcut", next.GlobalShortcut, "previous", prev.GlobalShortcut, "error", err)
			if restoreErr := a.registerShortcut(prev.GlobalShortcut); restoreErr != nil {
				slog.Error("[hotkey] previous shortcut could not be restored",
					"shortcut", prev.GlobalShortcut, "error", restoreErr)
			}
			next.GlobalShortcut = prev.GlobalShortcut
		} else {
			slog.Info("[hotkey] global shortcut changed", "shortcut", a.registeredShortcut())
		}
	}
	if next.TrayIcon != prev.TrayIcon {
		slog.Info("[config] tray_icon change takes effect after restart", "tray_icon", next.TrayIcon)
	}
	if a.logLevel != nil {
		a.logLevel.Set(next.SlogLevel())
	}

	a.setConfigSnapshot(next)
	a.events.Publish(events.ConfigUpdated, next)
}
