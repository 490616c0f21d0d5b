package panes

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// keyToBytes translates a key event into the byte sequence a shell
// expects on its PTY. Returns nil for keys that have no terminal
// encoding.
func keyToBytes(msg tea.KeyMsg) []byte {
	key := msg.String()
	switch key {
	case "enter":
		return []byte{'\r'}
	case "tab":
		return []byte{'\t'}
	case "shift+tab":
		return []byte{0x1b, '[', 'Z'}
	case "backspace":
		return []byte{0x7f}
	case "esc":
		return []byte{0x1b}
	case "up":
		return []byte{0x1b, '[', 'A'}
	case "down":
		return []byte{0x1b, '[', 'B'}
	case "right":
		return []byte{0x1b, '[', 'C'}
	case "left":
		return []byte{0x1b, '[', 'D'}
	case "home":
		return []byte{0x1b, '[', 'H'}
	case "end":
		return []byte{0x1b, '[', 'F'}
	case "pgup":
		return []byte{0x1b, '[', '5', '~'}
	case "pgdown":
		return []byte{0x1b, '[', '6', '~'}
	case "delete":
		return []byte{0x1b, '[', '3', '~'}
	case "insert":
		return []byte{0x1b, '[', '2', '~'}
	case "f1":
		return []byte{0x1b, 'O', 'P'}
	case "f2":
		return []byte{0x1b, 'O', 'Q'}
	case "f3":
		return []byte{0x1b, 'O', 'R'}
	case "f4":
		return []byte{0x1b, 'O', 'S'}
	case "f5":
		return []byte{0x1b, '[', '1', '5', '~'}
	case "f6":
		return []byte{0x1b, '[', '1', '7', '~'}
	case "f7":
		return []byte{0x1b, '[', '1', '8', '~'}
	case "f8":
		return []byte{0x1b, '[', '1', '9', '~'}
	case "f9":
		return []byte{0x1b, '[', '2', '0', '~'}
	case "f10":
		return []byte{0x1b, '[', '2', '1', '~'}
	case "f11":
		return []byte{0x1b, '[', '2', '3', '~'}
	case "f12":
		return []byte{0x1b, '[', '2', '4', '~'}
	}

	// ctrl+a .. ctrl+z map onto control bytes 1..26
	if strings.HasPrefix(key, "ctrl+") && len(key) == 6 {
		c := key[5]
		if c >= 'a' && c <= 'z' {
			return []byte{c - 'a' + 1}
		}
	}

	// alt+x sends ESC followed by the character
	if strings.HasPrefix(key, "alt+") && len(key) == 5 {
		return []byte{0x1b, key[4]}
	}

	if msg.Type == tea.KeyRunes {
		return []byte(string(msg.Runes))
	}
	// Space reaches here as its single-character key string.
	if len(key) == 1 {
		return []byte(key)
	}
	return nil
}
