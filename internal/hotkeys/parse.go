package hotkeys

import (
	"fmt"
	"strings"
)

var modifierByName = map[string]Modifier{
	"CTRL":    ModCtrl,
	"CONTROL": ModCtrl,
	"ALT":     ModAlt,
	"OPTION":  ModAlt,
	"SHIFT":   ModShift,
	"WIN":     ModSuper,
	"SUPER":   ModSuper,
	"CMD":     ModSuper,
	"COMMAND": ModSuper,
	"META":    ModSuper,
}

var namedKeys = map[string]string{
	"SPACE":     "Space",
	"TAB":       "Tab",
	"ENTER":     "Enter",
	"RETURN":    "Enter",
	"ESC":       "Esc",
	"ESCAPE":    "Esc",
	"DELETE":    "Delete",
	"LEFT":      "Left",
	"RIGHT":     "Right",
	"UP":        "Up",
	"DOWN":      "Down",
	"`":         "`",
	"BACKQUOTE": "`",
	"GRAVE":     "`",
}

// ParseBinding parses a binding like "Alt+Shift+S". Tokens are matched
// case-insensitively and surrounding whitespace is ignored.
func ParseBinding(spec string) (Binding, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" {
		return Binding{}, fmt.Errorf("hotkey spec is empty")
	}

	parts := strings.Split(raw, "+")
	if len(parts) < 2 {
		return Binding{}, fmt.Errorf("hotkey must include modifiers and key: %s", raw)
	}

	var modifiers Modifier
	for _, token := range parts[:len(parts)-1] {
		name := strings.ToUpper(strings.TrimSpace(token))
		mod, ok := modifierByName[name]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q in hotkey %q", token, raw)
		}
		modifiers |= mod
	}

	key, err := parseKey(parts[len(parts)-1])
	if err != nil {
		return Binding{}, err
	}

	return Binding{
		modifiers:  modifiers,
		key:        key,
		normalized: modifiers.String() + "+" + key,
	}, nil
}

func parseKey(raw string) (string, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return "", fmt.Errorf("missing hotkey key token")
	}
	if len(token) == 1 {
		ch := token[0]
		if (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			return token, nil
		}
	}
	if name, ok := namedKeys[token]; ok {
		return name, nil
	}
	if isFunctionKey(token) {
		return token, nil
	}
	return "", fmt.Errorf("unknown key %q in hotkey spec", raw)
}

// isFunctionKey accepts F1 through F20.
func isFunctionKey(token string) bool {
	if len(token) < 2 || len(token) > 3 || token[0] != 'F' {
		return false
	}
	n := 0
	for _, ch := range token[1:] {
		if ch < '0' || ch > '9' {
			return false
		}
		n = n*10 + int(ch-'0')
	}
	if token[1] == '0' {
		return false
	}
	return n >= 1 && n <= 20
}

// SameBinding reports whether two specs describe the same chord. Comparison
// happens on the normalized form, so letter case and modifier order do not
// matter. Specs that fail to parse never match.
func SameBinding(a, b string) bool {
	left, err := ParseBinding(a)
	if err != nil {
		return false
	}
	right, err := ParseBinding(b)
	if err != nil {
		return false
	}
	return left.normalized == right.normalized
}
