package main

import (
	"embed"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"chronify/internal/config"
	"chronify/internal/ipc"
	"chronify/internal/plugins"
	"chronify/internal/reopen"
	"chronify/internal/sessionlog"
	"chronify/internal/singleinstance"
	"chronify/internal/tray"

	"github.com/google/uuid"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

const appName = "Chronify"

var (
	tryLockFn        = singleinstance.TryLock
	activateFn       = ipc.Activate
	openSessionLogFn = sessionlog.Open
	newTrayFn        = tray.New
	installReopenFn  = reopen.Install

	logOutput io.Writer = os.Stderr
)

func main() {
	if code := run(); code != 0 {
		exitFn(code)
	}
}

// run drives startup and returns the process exit status.
func run() int {
	session := uuid.NewString()
	logLevel := new(slog.LevelVar)
	configureLogging(logLevel, session, nil)

	// Single-instance check before any window initialization.
	lock, err := tryLockFn(singleinstance.DefaultName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Info("[single-instance] another instance is running, requesting activation")
		if err := activateFn(""); err != nil {
			if ipc.IsConnectionError(err) {
				slog.Warn("[single-instance] running instance has no activation listener", "error", err)
			} else {
				slog.Warn("[single-instance] failed to signal running instance", "error", err)
			}
		}
		return 0
	}
	if err != nil {
		slog.Warn("[single-instance] lock failed, continuing without single-instance guard", "error", err)
	}
	if lock != nil {
		defer func() {
			if err := lock.Release(); err != nil {
				slog.Warn("[single-instance] lock release failed", "error", err)
			}
		}()
	}

	configPath := config.DefaultPath()
	for _, message := range config.ConsumeDefaultPathWarnings() {
		slog.Warn("[WARN-CONFIG] " + message)
	}
	cfg, err := config.EnsureFile(configPath)
	if err != nil {
		slog.Warn("[WARN-CONFIG] failed to load config, running with defaults", "path", configPath, "error", err)
		cfg = config.DefaultConfig()
	}
	logLevel.Set(cfg.SlogLevel())

	recorder, err := openSessionLogFn(filepath.Join(filepath.Dir(configPath), sessionlog.DirName), session, 0)
	if err != nil {
		slog.Warn("[session-log] session log disabled", "error", err)
	} else {
		configureLogging(logLevel, session, recorder)
		slog.Info("[session-log] initialized", "path", recorder.Path())
		defer func() {
			if err := recorder.Close(); err != nil {
				slog.Warn("[session-log] close failed", "error", err)
			}
		}()
	}

	app := NewApp(cfg, configPath)
	app.sessionLog = recorder
	app.logLevel = logLevel
	if installReopenFn(app.reopen) {
		slog.Debug("[window] dock reopen handler installed")
	}

	shellTray, err := newTrayFn(tray.Options{Template: cfg.TrayIcon == config.TrayIconTemplate}, app.handleTrayItem)
	if err != nil {
		slog.Error("[tray] failed to build system tray", "error", err)
		return 1
	}
	app.tray = shellTray
	shellTray.Start()

	err = wails.Run(&options.App{
		Title:     appName,
		Width:     420,
		Height:    640,
		MinWidth:  360,
		MinHeight: 480,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 250, G: 250, B: 250, A: 1},
		StartHidden:      cfg.StartHidden,
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		OnBeforeClose:    app.beforeClose,
		Bind:             bindTargets(app, cfg),
	})
	if err != nil {
		slog.Error("[app] wails run failed", "error", err)
		return 1
	}
	return 0
}

// configureLogging installs the default logger. Records at Warn and above
// are also captured by recorder when it is non-nil.
func configureLogging(level *slog.LevelVar, session string, recorder *sessionlog.Recorder) {
	base := slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level})
	var callback sessionlog.EntryCallback
	if recorder != nil {
		callback = recorder.Callback()
	}
	handler := sessionlog.NewTeeHandler(base, slog.LevelWarn, callback)
	slog.SetDefault(slog.New(handler).With("session", session))
}

// bindTargets lists the services exposed to the UI layer. The idle service
// is only bound when idle_time_enabled is set.
func bindTargets(app *App, cfg config.Config) []any {
	targets := []any{
		app,
		plugins.NewOpener(),
		plugins.NewFileSystem(filepath.Dir(app.configPath)),
		plugins.NewNotifier(appName, tray.IconPNG()),
	}
	if cfg.IdleTimeEnabled {
		targets = append(targets, NewIdleService(app))
	}
	return targets
}
