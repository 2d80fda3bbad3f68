//go:build windows

package hotkeys

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	modAlt      uint32 = 0x0001
	modControl  uint32 = 0x0002
	modShift    uint32 = 0x0004
	modWin      uint32 = 0x0008
	modNoRepeat uint32 = 0x4000
)

var win32NamedKeys = map[string]uint32{
	"Space":  0x20,
	"Tab":    0x09,
	"Enter":  0x0D,
	"Esc":    0x1B,
	"Delete": 0x2E,
	"Left":   0x25,
	"Up":     0x26,
	"Right":  0x27,
	"Down":   0x28,
	"`":      0xC0, // VK_OEM_3 on US layouts
}

// win32Binding is a Binding translated to RegisterHotKey arguments.
type win32Binding struct {
	modifiers uint32
	key       uint32
}

func nativeBinding(b Binding) (win32Binding, error) {
	var mods uint32
	if b.modifiers&ModCtrl != 0 {
		mods |= modControl
	}
	if b.modifiers&ModAlt != 0 {
		mods |= modAlt
	}
	if b.modifiers&ModShift != 0 {
		mods |= modShift
	}
	if b.modifiers&ModSuper != 0 {
		mods |= modWin
	}

	vk, err := virtualKey(b.key)
	if err != nil {
		return win32Binding{}, err
	}
	return win32Binding{modifiers: mods, key: vk}, nil
}

func virtualKey(key string) (uint32, error) {
	if len(key) == 1 {
		ch := key[0]
		// VK codes for letters and digits equal their ASCII values.
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return uint32(ch), nil
		}
	}
	if vk, ok := win32NamedKeys[key]; ok {
		return vk, nil
	}
	if strings.HasPrefix(key, "F") {
		if n, err := strconv.Atoi(key[1:]); err == nil && n >= 1 && n <= 24 {
			return 0x70 + uint32(n-1), nil
		}
	}
	return 0, fmt.Errorf("key %q has no virtual-key mapping", key)
}
