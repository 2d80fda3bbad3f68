package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"chronify/internal/fileutil"
	"chronify/internal/hotkeys"

	"go.yaml.in/yaml/v3"
)

const (
	maxConfigFileBytes int64 = 1 << 20 // 1MB

	appDirName     = "Chronify"
	configFileName = "config.yaml"

	// DefaultGlobalShortcut toggles the timer in the UI layer.
	DefaultGlobalShortcut = "Alt+Shift+S"
)

// TrayIconMode selects how the bundled tray icon is rendered.
type TrayIconMode string

const (
	// TrayIconTemplate renders a monochrome icon the OS tints to match the menu bar.
	TrayIconTemplate TrayIconMode = "template"
	// TrayIconColor renders the bundled full-color icon as-is.
	TrayIconColor TrayIconMode = "color"
)

var validLogLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// defaultConfigDirFn is a test seam; tests override it to simulate
// directory-resolution failures in validateConfigPath.
var defaultConfigDirFn = defaultConfigDir
var userHomeDirFn = os.UserHomeDir

var defaultPathWarningState struct {
	mu       sync.Mutex
	messages []string
}

func recordDefaultPathWarning(message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	defaultPathWarningState.mu.Lock()
	defaultPathWarningState.messages = append(defaultPathWarningState.messages, trimmed)
	defaultPathWarningState.mu.Unlock()
}

// ConsumeDefaultPathWarnings returns and clears path-resolution warnings
// accumulated during DefaultPath() calls.
func ConsumeDefaultPathWarnings() []string {
	defaultPathWarningState.mu.Lock()
	defer defaultPathWarningState.mu.Unlock()
	if len(defaultPathWarningState.messages) == 0 {
		return nil
	}
	out := make([]string, len(defaultPathWarningState.messages))
	copy(out, defaultPathWarningState.messages)
	defaultPathWarningState.messages = nil
	return out
}

// Config is the shell runtime configuration. All fields are value types, so
// a plain copy is a safe snapshot.
type Config struct {
	// GlobalShortcut is the OS-level chord that emits the toggle-timer event.
	GlobalShortcut string `yaml:"global_shortcut" json:"global_shortcut"`
	// IdleTimeEnabled exposes the system idle-time query to the UI layer.
	IdleTimeEnabled bool         `yaml:"idle_time_enabled" json:"idle_time_enabled"`
	TrayIcon        TrayIconMode `yaml:"tray_icon" json:"tray_icon"`
	// StartHidden keeps the main window hidden at launch; the tray stays available.
	StartHidden bool   `yaml:"start_hidden" json:"start_hidden"`
	LogLevel    string `yaml:"log_level" json:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		GlobalShortcut:  DefaultGlobalShortcut,
		IdleTimeEnabled: true,
		TrayIcon:        TrayIconTemplate,
		StartHidden:     false,
		LogLevel:        "info",
	}
}

// SlogLevel maps LogLevel to a slog level, defaulting to Info.
func (c Config) SlogLevel() slog.Level {
	if level, ok := validLogLevels[strings.ToLower(strings.TrimSpace(c.LogLevel))]; ok {
		return level
	}
	return slog.LevelInfo
}

// DefaultPath resolves the config file path, preferring LOCALAPPDATA over
// APPDATA, falling back to ~/.config when both are unset, and then to
// os.TempDir() if the home directory cannot be resolved.
func DefaultPath() string {
	base := strings.TrimSpace(os.Getenv("LOCALAPPDATA"))
	if base == "" {
		base = strings.TrimSpace(os.Getenv("APPDATA"))
	}
	if base == "" {
		home, err := userHomeDirFn()
		if err != nil {
			slog.Warn("[WARN-CONFIG] using temp dir as config path fallback", "error", err)
			recordDefaultPathWarning(
				"Config path fallback: failed to resolve LOCALAPPDATA/APPDATA/home directory. Using temp directory; settings persistence may be limited.",
			)
			base = os.TempDir()
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appDirName, configFileName)
}

// DataDir is the per-user application directory that holds the config file,
// session logs and the UI layer's data files.
func DataDir() string {
	return filepath.Dir(DefaultPath())
}

// Load reads the config file. A missing or empty file yields defaults.
// Invalid optional fields fall back to defaults with a warning; an invalid
// global shortcut is returned as an error together with the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, errors.New("config path required")
	}

	raw, err := fileutil.ReadLimited(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		slog.Warn("[WARN-CONFIG] failed to parse config, using defaults", "path", path, "error", err)
		return DefaultConfig(), err
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// EnsureFile writes default config if missing and returns loaded config.
func EnsureFile(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		if _, err := Save(path, cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Save validates cfg, fills defaults, and atomically writes to path.
// Returns the normalized config that was actually written to disk.
func Save(path string, cfg Config) (Config, error) {
	normalizedPath, err := validateConfigPath(path)
	if err != nil {
		return cfg, err
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg, fmt.Errorf("save config: marshal: %w", err)
	}
	if err := fileutil.AtomicWrite(normalizedPath, raw, 0o600); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}
	slog.Debug("[DEBUG-CONFIG] config saved", "path", path)
	return cfg, nil
}

// validateConfigPath normalizes path and enforces that config writes stay
// inside the default config directory.
func validateConfigPath(path string) (string, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return "", errors.New("config path required")
	}
	absolutePath, err := filepath.Abs(trimmedPath)
	if err != nil {
		return "", fmt.Errorf("save config: resolve path: %w", err)
	}

	expectedDir, err := defaultConfigDirFn()
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	absoluteExpectedDir, err := filepath.Abs(expectedDir)
	if err != nil {
		return "", fmt.Errorf("save config: resolve config dir: %w", err)
	}
	if !fileutil.PathWithinDir(absolutePath, absoluteExpectedDir) {
		return "", fmt.Errorf("save config: path outside config directory: %q", absolutePath)
	}
	return absolutePath, nil
}

func defaultConfigDir() (string, error) {
	return DataDir(), nil
}

// applyDefaultsAndValidate fills missing defaults and validates cfg in-place.
// Used by both Load and Save to ensure consistent normalization.
func applyDefaultsAndValidate(cfg *Config) error {
	defaults := DefaultConfig()

	cfg.GlobalShortcut = strings.TrimSpace(cfg.GlobalShortcut)
	if cfg.GlobalShortcut == "" {
		cfg.GlobalShortcut = defaults.GlobalShortcut
	}
	binding, err := hotkeys.ParseBinding(cfg.GlobalShortcut)
	if err != nil {
		return fmt.Errorf("global_shortcut: %w", err)
	}
	cfg.GlobalShortcut = binding.Normalized()

	mode := TrayIconMode(strings.ToLower(strings.TrimSpace(string(cfg.TrayIcon))))
	switch mode {
	case TrayIconTemplate, TrayIconColor:
		cfg.TrayIcon = mode
	case "":
		cfg.TrayIcon = defaults.TrayIcon
	default:
		slog.Warn("[WARN-CONFIG] unknown tray_icon, falling back to default",
			"configured", cfg.TrayIcon, "default", defaults.TrayIcon)
		cfg.TrayIcon = defaults.TrayIcon
	}

	level := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if _, ok := validLogLevels[level]; !ok {
		if level != "" {
			slog.Warn("[WARN-CONFIG] unknown log_level, falling back to default",
				"configured", cfg.LogLevel, "default", defaults.LogLevel)
		}
		level = defaults.LogLevel
	}
	cfg.LogLevel = level
	return nil
}
