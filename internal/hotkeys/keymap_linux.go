//go:build linux

package hotkeys

import "golang.design/x/hotkey"

// XK_grave
const keyBackquote hotkey.Key = 0x0060

// Mod1 is Alt and Mod4 is Super on standard X11 keymaps.
var desktopModifiers = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.Mod1,
	ModSuper: hotkey.Mod4,
}
