package common

import "strings"

// KeyCode is a virtual key code in GLFW numbering.
// Printable keys use their ASCII values.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type KeyCode uint32

// KeyNone means no hotkey is bound.
const KeyNone KeyCode = 0

const (
	KeySpace     KeyCode = 32
	KeyEsc       KeyCode = 256
	KeyEnter     KeyCode = 257
	KeyTab       KeyCode = 258
	KeyBackspace KeyCode = 259
	KeyInsert    KeyCode = 260
	KeyDelete    KeyCode = 261
	KeyHome      KeyCode = 268
	KeyEnd       KeyCode = 269
	KeyF1        KeyCode = 290

	KeyLeftShift  KeyCode = 340
	KeyLeftCtrl   KeyCode = 341
	KeyLeftAlt    KeyCode = 342
	KeyRightShift KeyCode = 344
)

var namedKeys = map[string]KeyCode{
	"space":     KeySpace,
	"esc":       KeyEsc,
	"escape":    KeyEsc,
	"enter":     KeyEnter,
	"tab":       KeyTab,
	"backspace": KeyBackspace,
	"insert":    KeyInsert,
	"delete":    KeyDelete,
	"home":      KeyHome,
	"end":       KeyEnd,
	"lshift":    KeyLeftShift,
	"rshift":    KeyRightShift,
	"lctrl":     KeyLeftCtrl,
	"lalt":      KeyLeftAlt,
}

// ParseKeyCode resolves a hotkey name such as "F12", "Home", "K" or "7" to its code.
// Names are case-insensitive. An empty name resolves to KeyNone.
//
// Parameters:
//   - name: the key name
//
// Returns:
//   - KeyCode: the resolved code
//   - bool: false if the name is not recognized
func ParseKeyCode(name string) (KeyCode, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return KeyNone, true
	}
	if k, ok := namedKeys[n]; ok {
		return k, true
	}
	if len(n) == 1 {
		c := n[0]
		switch {
		case c >= 'a' && c <= 'z':
			return KeyCode(c - 'a' + 'A'), true
		case c >= '0' && c <= '9':
			return KeyCode(c), true
		}
	}
	if n[0] == 'f' && len(n) <= 3 {
		num := 0
		for _, c := range n[1:] {
			if c < '0' || c > '9' {
				return KeyNone, false
			}
			num = num*10 + int(c-'0')
		}
		if num >= 1 && num <= 25 {
			return KeyF1 + KeyCode(num-1), true
		}
	}
	return KeyNone, false
}
