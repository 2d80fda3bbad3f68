package tray

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/png"
)

//go:embed icon.png
var iconPNG []byte

//go:embed icon.ico
var iconICO []byte

// IconInfo describes the decoded bundled icon.
type IconInfo struct {
	Width  int
	Height int
}

// DecodeIcon validates a PNG icon and reports its pixel size.
func DecodeIcon(data []byte) (IconInfo, error) {
	if len(data) == 0 {
		return IconInfo{}, fmt.Errorf("tray icon is empty")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return IconInfo{}, fmt.Errorf("decode tray icon: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return IconInfo{}, fmt.Errorf("tray icon has invalid size %dx%d", cfg.Width, cfg.Height)
	}
	return IconInfo{Width: cfg.Width, Height: cfg.Height}, nil
}

// IconPNG returns the bundled PNG icon, also used for notifications.
func IconPNG() []byte { return iconPNG }
