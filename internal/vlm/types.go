// internal/vlm/types.go
package vlm

import "strings"

// ActionInputs holds the named arguments recovered from a single parsed
// action. Every field is optional; which ones are populated depends on the
// action type. Region fields (StartBox, EndBox) hold a JSON-encoded
// rectangle of four floats in the 0-1 normalized range after parsing.
type ActionInputs struct {
	Content   string `json:"content,omitempty"`
	StartBox  string `json:"start_box,omitempty"`
	EndBox    string `json:"end_box,omitempty"`
	Key       string `json:"key,omitempty"`
	Hotkey    string `json:"hotkey,omitempty"`
	Direction string `json:"direction,omitempty"`

	// StartCoords and EndCoords hold the absolute pixel midpoint of the
	// corresponding region. They are populated only when the caller supplies
	// non-zero screen dimensions. A non-nil empty slice means the region's
	// numeric components were malformed and the absolute point could not be
	// computed.
	StartCoords []float64 `json:"start_coords,omitempty"`
	EndCoords   []float64 `json:"end_coords,omitempty"`
}

// set assigns a cleaned argument value to the field matching the argument
// name. Unknown names are ignored so new model vocabulary degrades gracefully.
func (in *ActionInputs) set(name, value string) {
	switch {
	case name == "content":
		in.Content = value
	case strings.Contains(name, "start_box"):
		in.StartBox = value
	case strings.Contains(name, "end_box"):
		in.EndBox = value
	case name == "key":
		in.Key = value
	case name == "hotkey":
		in.Hotkey = value
	case name == "direction":
		in.Direction = value
	}
}

// PredictionParsed is one fully parsed model instruction. A single response
// may yield several of these (multi-action responses); all records from one
// response share the same Thought and Reflection.
type PredictionParsed struct {
	// ActionType is the function name of the parsed action. Empty when the
	// action string did not match the function-call shape; dispatch must
	// reject such records.
	ActionType   string       `json:"action_type"`
	ActionInputs ActionInputs `json:"action_inputs"`
	Thought      string       `json:"thought,omitempty"`
	Reflection   string       `json:"reflection,omitempty"`
}

// ScreenContext carries the viewport size in pixels. It is required for
// absolute coordinate computation; the parser leaves the coordinate fields
// unset without it.
type ScreenContext struct {
	Width  float64
	Height float64
}

// valid reports whether both dimensions are usable.
func (s *ScreenContext) valid() bool {
	return s != nil && s.Width > 0 && s.Height > 0
}
