package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"chronify/internal/config"
	"chronify/internal/events"
	"chronify/internal/hotkeys"
	"chronify/internal/ipc"
	"chronify/internal/sessionlog"
)

// exitFn terminates the process. Tests replace it.
var exitFn = os.Exit

// shortcutManager registers the OS-level global shortcut.
type shortcutManager interface {
	Start(spec string, onEvent func(hotkeys.Event)) error
	Stop() error
	ActiveBinding() string
}

type trayController interface {
	Stop()
	Ready() bool
}

// App is the Wails-bound shell service. One instance is created at startup
// and handed to every tray, shortcut and window callback.
type App struct {
	// Runtime context lifecycle. nil until startup and after shutdown.
	ctx   context.Context
	ctxMu sync.RWMutex

	cfgMu      sync.RWMutex
	cfg        config.Config
	configPath string
	logLevel   *slog.LevelVar

	// shortcutMu serializes registration; the registered binding is read by
	// the hotkey goroutine.
	shortcutMu sync.Mutex
	hotkeys    shortcutManager
	registered atomic.Value // string

	tray       trayController
	events     *events.Broadcaster
	ipcServer  *ipc.Server
	sessionLog *sessionlog.Recorder

	windowMu    sync.Mutex
	windowState windowState

	quitting     atomic.Bool // set by the tray Quit item; lets the close through
	shuttingDown atomic.Bool // set at the start of shutdown(); checked by worker recovery

	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// NewApp creates the shell service for cfg loaded from configPath.
func NewApp(cfg config.Config, configPath string) *App {
	initial := windowVisible
	if cfg.StartHidden {
		initial = windowHidden
	}
	return &App{
		cfg:         cfg,
		configPath:  configPath,
		hotkeys:     hotkeys.NewManager(),
		events:      events.NewBroadcaster(),
		windowState: initial,
	}
}

func (a *App) setRuntimeContext(ctx context.Context) {
	a.ctxMu.Lock()
	a.ctx = ctx
	a.ctxMu.Unlock()
}

func (a *App) runtimeContext() context.Context {
	a.ctxMu.RLock()
	ctx := a.ctx
	a.ctxMu.RUnlock()
	return ctx
}
