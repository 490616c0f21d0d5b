package config

import (
	"fmt"
	"strconv"
	"strings"
)

// namedKeys maps the key names accepted in binding strings to the names
// Bubble Tea reports for them.
var namedKeys = map[string]string{
	"tab":       "tab",
	"enter":     "enter",
	"esc":       "esc",
	"escape":    "esc",
	"backspace": "backspace",
	"delete":    "delete",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
	"home":      "home",
	"end":       "end",
	"pageup":    "pgup",
	"pgup":      "pgup",
	"pagedown":  "pgdown",
	"pgdown":    "pgdown",
	"space":     " ",
}

// ctrlPunctuation lists the non-letter characters terminals can combine with
// ctrl.
const ctrlPunctuation = "@[]\\^_"

// NormalizeKey parses a binding string like "ctrl+r", "shift+g" or
// "alt+enter" and returns it in the exact form tea.KeyMsg.String produces, so
// the dispatcher can match bindings by comparing strings. Shifted letters
// become the uppercase rune and ctrl combinations drop shift, because that is
// how terminals report them.
func NormalizeKey(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("empty key string")
	}

	parts := strings.Split(trimmed, "+")
	var alt, ctrl, shift bool
	for _, part := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "alt":
			alt = true
		case "ctrl":
			ctrl = true
		case "shift":
			shift = true
		default:
			return "", fmt.Errorf("unknown modifier %q", part)
		}
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return "", fmt.Errorf("missing key after modifier")
	}
	lower := strings.ToLower(keyPart)

	var key string
	switch {
	case len([]rune(keyPart)) == 1:
		r := []rune(lower)[0]
		switch {
		case ctrl:
			if !(r >= 'a' && r <= 'z') && !strings.ContainsRune(ctrlPunctuation, r) {
				return "", fmt.Errorf("ctrl does not combine with %q", keyPart)
			}
			key = "ctrl+" + string(r)
		case shift:
			if r < 'a' || r > 'z' {
				return "", fmt.Errorf("shift does not combine with %q", keyPart)
			}
			key = strings.ToUpper(string(r))
		default:
			key = keyPart
		}
	case namedKeys[lower] != "":
		name := namedKeys[lower]
		switch {
		case ctrl && name == " ":
			// Terminals report ctrl+space as ctrl+@.
			key = "ctrl+@"
		case ctrl && shift:
			key = "ctrl+shift+" + name
		case ctrl:
			key = "ctrl+" + name
		case shift:
			key = "shift+" + name
		default:
			key = name
		}
	case isFunctionKey(lower):
		if ctrl || shift {
			return "", fmt.Errorf("function keys do not combine with ctrl or shift")
		}
		key = lower
	default:
		return "", fmt.Errorf("unknown key %q", keyPart)
	}

	if alt {
		key = "alt+" + key
	}
	return key, nil
}

func isFunctionKey(s string) bool {
	if len(s) < 2 || s[0] != 'f' {
		return false
	}
	n, err := strconv.Atoi(s[1:])
	return err == nil && n >= 1 && n <= 20
}
