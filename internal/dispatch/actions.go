// internal/dispatch/actions.go
package dispatch

import (
	"context"

	"github.com/visor-ai/visor/internal/vlm"
)

// Kind is the closed enumeration of actions the model may request. The
// values match the function names the model emits.
type Kind string

const (
	KindClick    Kind = "click"
	KindDrag     Kind = "drag"
	KindType     Kind = "type"
	KindScroll   Kind = "scroll"
	KindHotkey   Kind = "hotkey"
	KindWait     Kind = "wait"
	KindFinished Kind = "finished"
)

// Requires declares up front which external context a handler consumes.
// Dispatch validates these before running the handler instead of inspecting
// anything at runtime.
type Requires struct {
	// Browser: the handler drives the browser session.
	Browser bool
	// RegionMemo: the handler may fall back to the caller's last known
	// region when the current action omits one.
	RegionMemo bool
	// SensitiveData: the handler changes its logging when the caller marks
	// the step as carrying secrets.
	SensitiveData bool
}

// handlerFunc executes one action kind against the session.
type handlerFunc func(d *Dispatcher, ctx context.Context, pred vlm.PredictionParsed, ex *ExecContext) (Result, error)

type handlerEntry struct {
	requires Requires
	run      handlerFunc
}

// handlers is the static dispatch table. Adding an action means adding a
// Kind constant and one entry here.
var handlers = map[Kind]handlerEntry{
	KindClick: {
		requires: Requires{Browser: true},
		run:      (*Dispatcher).click,
	},
	KindDrag: {
		requires: Requires{Browser: true},
		run:      (*Dispatcher).drag,
	},
	KindType: {
		requires: Requires{Browser: true, RegionMemo: true, SensitiveData: true},
		run:      (*Dispatcher).typeText,
	},
	KindScroll: {
		requires: Requires{Browser: true},
		run:      (*Dispatcher).scroll,
	},
	KindHotkey: {
		requires: Requires{Browser: true},
		run:      (*Dispatcher).hotkey,
	},
	KindWait: {
		requires: Requires{},
		run:      (*Dispatcher).wait,
	},
	KindFinished: {
		requires: Requires{},
		run:      (*Dispatcher).finished,
	},
}

// Memo carries the last known regions across actions. It is owned and
// threaded by the caller; the parser core never touches it.
type Memo struct {
	StartBox    string
	EndBox      string
	StartCoords []float64
	EndCoords   []float64
}

// Update records any regions present on the given inputs, leaving absent
// fields at their previous values.
func (m *Memo) Update(in vlm.ActionInputs) {
	if in.StartBox != "" {
		m.StartBox = in.StartBox
	}
	if in.EndBox != "" {
		m.EndBox = in.EndBox
	}
	if len(in.StartCoords) > 0 {
		m.StartCoords = in.StartCoords
	}
	if len(in.EndCoords) > 0 {
		m.EndCoords = in.EndCoords
	}
}

// ExecContext is the per-step external context threaded into Execute.
type ExecContext struct {
	Memo             *Memo
	HasSensitiveData bool
}

// Result is the outcome of one executed action.
type Result struct {
	// Content is a human-readable summary fed back into the agent history.
	Content string
	// Done marks a terminal action (finished).
	Done bool
}
