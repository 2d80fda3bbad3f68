//go:build darwin

package hotkeys

import "golang.design/x/hotkey"

// kVK_ANSI_Grave
const keyBackquote hotkey.Key = 0x32

var desktopModifiers = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.ModOption,
	ModSuper: hotkey.ModCmd,
}
