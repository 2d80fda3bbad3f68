package hotkeys

import "strings"

// Modifier is a portable modifier bitmask. Platform managers translate it to
// native modifier codes.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

// modifierOrder fixes the order modifiers appear in normalized bindings, so
// "Shift+Alt+S" and "alt+shift+s" normalize to the same string.
var modifierOrder = []Modifier{ModCtrl, ModAlt, ModShift, ModSuper}

func (m Modifier) String() string {
	var names []string
	for _, mod := range modifierOrder {
		if m&mod != 0 {
			names = append(names, modifierName(mod))
		}
	}
	return strings.Join(names, "+")
}

func modifierName(mod Modifier) string {
	switch mod {
	case ModCtrl:
		return "Ctrl"
	case ModAlt:
		return "Alt"
	case ModShift:
		return "Shift"
	case ModSuper:
		return "Super"
	default:
		return "Mod"
	}
}

// Binding describes a parsed global hotkey.
// Construct only via ParseBinding.
type Binding struct {
	modifiers  Modifier
	key        string
	normalized string
}

// Modifiers returns the modifier bitmask.
func (b Binding) Modifiers() Modifier { return b.modifiers }

// Key returns the canonical key token ("S", "F12", "Space", "`").
func (b Binding) Key() string { return b.key }

// Normalized returns the canonical human-readable binding string.
func (b Binding) Normalized() string { return b.normalized }

// State is the key transition carried by an Event.
type State int

const (
	Pressed State = iota
	Released
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Event is delivered to the Start callback each time the OS reports a
// transition of the registered chord.
type Event struct {
	Binding string
	State   State
}
