// internal/dispatch/keyboard.go
package dispatch

import "strings"

// keyAliases maps the loose key vocabulary the model emits onto DOM key
// names the browser layer understands.
var keyAliases = map[string]string{
	"ctrl":      "Control",
	"control":   "Control",
	"shift":     "Shift",
	"alt":       "Alt",
	"option":    "Alt",
	"cmd":       "Meta",
	"command":   "Meta",
	"meta":      "Meta",
	"win":       "Meta",
	"super":     "Meta",
	"enter":     "Enter",
	"return":    "Enter",
	"esc":       "Escape",
	"escape":    "Escape",
	"tab":       "Tab",
	"space":     " ",
	"backspace": "Backspace",
	"delete":    "Delete",
	"del":       "Delete",
	"insert":    "Insert",
	"home":      "Home",
	"end":       "End",
	"pageup":    "PageUp",
	"pgup":      "PageUp",
	"pagedown":  "PageDown",
	"pgdn":      "PageDown",
	"up":        "ArrowUp",
	"arrowup":   "ArrowUp",
	"down":      "ArrowDown",
	"arrowdown": "ArrowDown",
	"left":      "ArrowLeft",
	"arrowleft": "ArrowLeft",
	"right":      "ArrowRight",
	"arrowright": "ArrowRight",
}

// TransformHotkey splits a hotkey string like "ctrl c" or "ctrl+shift+t"
// into normalized DOM key names, pressed in order. Unknown single-character
// keys pass through unchanged; longer unknown names are title-cased so
// "f5"-style keys become "F5".
func TransformHotkey(combo string) []string {
	fields := strings.FieldsFunc(combo, func(r rune) bool {
		return r == ' ' || r == '+' || r == '-'
	})

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		lower := strings.ToLower(f)
		if mapped, ok := keyAliases[lower]; ok {
			keys = append(keys, mapped)
			continue
		}
		if len(f) == 1 {
			keys = append(keys, lower)
			continue
		}
		keys = append(keys, strings.ToUpper(lower[:1])+lower[1:])
	}
	return keys
}
