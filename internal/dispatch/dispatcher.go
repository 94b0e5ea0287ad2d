// internal/dispatch/dispatcher.go
//
// Turns parsed predictions into browser input. Dispatch is a static table
// over a closed set of action kinds; every handler declares the context it
// needs and gets it passed in explicitly.
package dispatch

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/visor-ai/visor/internal/browser"
	"github.com/visor-ai/visor/internal/grounding"
	"github.com/visor-ai/visor/internal/vlm"
)

// Session is the slice of the browser layer dispatch needs. *browser.Session
// satisfies it; tests substitute fakes.
type Session interface {
	Viewport(ctx context.Context) (width, height float64, err error)
	Candidates(ctx context.Context) ([]browser.Element, error)
	ClickAt(ctx context.Context, x, y float64) error
	TypeText(ctx context.Context, text string) error
	PressKeys(ctx context.Context, keys []string) error
	ScrollBy(ctx context.Context, x, y, deltaX, deltaY float64) error
	Drag(ctx context.Context, fromX, fromY, toX, toY float64) error
}

var _ Session = (*browser.Session)(nil)

const (
	// scrollFraction of the viewport moved per scroll action.
	scrollFraction = 0.7
	// waitDuration for the wait action.
	waitDuration = 3 * time.Second
)

// Dispatcher executes predictions against a browser session.
type Dispatcher struct {
	session Session
	logger  *zap.Logger
}

// NewDispatcher wires a dispatcher to a session. A nil session is allowed;
// actions that require the browser then fail with MISSING_CONTEXT.
func NewDispatcher(session Session, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		session: session,
		logger:  logger.Named("dispatch"),
	}
}

// Execute runs one parsed prediction. Records with an empty or unknown
// action type (including failed parses) are rejected here with
// UNKNOWN_ACTION_TYPE. The caller's memo is updated with any regions the
// prediction carries before the handler runs, so a later action that omits
// its region can fall back to it.
func (d *Dispatcher) Execute(ctx context.Context, pred vlm.PredictionParsed, ex ExecContext) (Result, error) {
	entry, ok := handlers[Kind(pred.ActionType)]
	if !ok {
		return Result{}, newError(ErrCodeUnknownAction, "action %q is not recognized", pred.ActionType)
	}
	if entry.requires.Browser && d.session == nil {
		return Result{}, newError(ErrCodeMissingContext, "action %q requires a browser session", pred.ActionType)
	}
	if entry.requires.RegionMemo && ex.Memo == nil {
		ex.Memo = &Memo{}
	}

	if ex.Memo != nil {
		ex.Memo.Update(pred.ActionInputs)
	}

	d.logger.Debug("Executing action",
		zap.String("action", pred.ActionType),
		zap.String("thought", pred.Thought))
	return entry.run(d, ctx, pred, &ex)
}

// locate resolves a region descriptor to a concrete element on the current
// page.
func (d *Dispatcher) locate(ctx context.Context, region string) (browser.Element, error) {
	if region == "" {
		return browser.Element{}, newError(ErrCodeInvalidParameters, "no region provided")
	}
	width, height, err := d.session.Viewport(ctx)
	if err != nil {
		return browser.Element{}, wrapError(ErrCodeExecutionFailure, err, "viewport lookup failed")
	}
	candidates, err := d.session.Candidates(ctx)
	if err != nil {
		return browser.Element{}, wrapError(ErrCodeExecutionFailure, err, "element snapshot failed")
	}
	elem, found, err := grounding.Locate(region, width, height, candidates)
	if err != nil {
		return browser.Element{}, wrapError(ErrCodeInvalidParameters, err, "region %q", region)
	}
	if !found {
		return browser.Element{}, newError(ErrCodeElementNotFound, "no element contains region %q", region)
	}
	return elem, nil
}

// point converts a region descriptor into an absolute screen point.
func (d *Dispatcher) point(ctx context.Context, region string) (x, y float64, err error) {
	if region == "" {
		return 0, 0, newError(ErrCodeInvalidParameters, "no region provided")
	}
	width, height, err := d.session.Viewport(ctx)
	if err != nil {
		return 0, 0, wrapError(ErrCodeExecutionFailure, err, "viewport lookup failed")
	}
	x, y, err = grounding.ScreenPoint(region, width, height)
	if err != nil {
		return 0, 0, wrapError(ErrCodeInvalidParameters, err, "region %q", region)
	}
	return x, y, nil
}

func (d *Dispatcher) click(ctx context.Context, pred vlm.PredictionParsed, _ *ExecContext) (Result, error) {
	elem, err := d.locate(ctx, pred.ActionInputs.StartBox)
	if err != nil {
		return Result{}, err
	}
	rect := elem.ViewportRect()
	cx, cy := rect.X+rect.Width/2, rect.Y+rect.Height/2
	if err := d.session.ClickAt(ctx, cx, cy); err != nil {
		return Result{}, wrapError(ErrCodeExecutionFailure, err, "click failed")
	}
	msg := "Clicked " + elem.String()
	d.logger.Info(msg)
	return Result{Content: msg}, nil
}

func (d *Dispatcher) drag(ctx context.Context, pred vlm.PredictionParsed, _ *ExecContext) (Result, error) {
	fromX, fromY, err := d.point(ctx, pred.ActionInputs.StartBox)
	if err != nil {
		return Result{}, err
	}
	toX, toY, err := d.point(ctx, pred.ActionInputs.EndBox)
	if err != nil {
		return Result{}, err
	}
	if err := d.session.Drag(ctx, fromX, fromY, toX, toY); err != nil {
		return Result{}, wrapError(ErrCodeExecutionFailure, err, "drag failed")
	}
	msg := "Dragged"
	d.logger.Info(msg,
		zap.Float64("from_x", fromX), zap.Float64("from_y", fromY),
		zap.Float64("to_x", toX), zap.Float64("to_y", toY))
	return Result{Content: msg}, nil
}

func (d *Dispatcher) typeText(ctx context.Context, pred vlm.PredictionParsed, ex *ExecContext) (Result, error) {
	region := pred.ActionInputs.StartBox
	if region == "" {
		region = ex.Memo.StartBox
	}
	elem, err := d.locate(ctx, region)
	if err != nil {
		return Result{}, err
	}
	rect := elem.ViewportRect()
	if err := d.session.ClickAt(ctx, rect.X+rect.Width/2, rect.Y+rect.Height/2); err != nil {
		return Result{}, wrapError(ErrCodeExecutionFailure, err, "focus click failed")
	}

	// The parser escapes literal newlines inside action strings; restore
	// them before typing.
	content := strings.ReplaceAll(pred.ActionInputs.Content, `\n`, "\n")
	if err := d.session.TypeText(ctx, content); err != nil {
		return Result{}, wrapError(ErrCodeExecutionFailure, err, "typing failed")
	}

	if ex.HasSensitiveData {
		msg := "Typed sensitive data into " + elem.String()
		d.logger.Info(msg)
		return Result{Content: msg}, nil
	}
	msg := "Typed " + quoteContent(content) + " into " + elem.String()
	d.logger.Info(msg)
	return Result{Content: msg}, nil
}

func (d *Dispatcher) scroll(ctx context.Context, pred vlm.PredictionParsed, _ *ExecContext) (Result, error) {
	x, y, err := d.point(ctx, pred.ActionInputs.StartBox)
	if err != nil {
		return Result{}, err
	}
	direction := pred.ActionInputs.Direction
	if direction == "" {
		return Result{}, newError(ErrCodeInvalidParameters, "scroll has no direction")
	}
	width, height, err := d.session.Viewport(ctx)
	if err != nil {
		return Result{}, wrapError(ErrCodeExecutionFailure, err, "viewport lookup failed")
	}

	var deltaX, deltaY float64
	switch direction {
	case "down":
		deltaY = height * scrollFraction
	case "up":
		deltaY = -height * scrollFraction
	case "right":
		deltaX = width * scrollFraction
	case "left":
		deltaX = -width * scrollFraction
	default:
		return Result{}, newError(ErrCodeInvalidParameters, "unknown scroll direction %q", direction)
	}
	if err := d.session.ScrollBy(ctx, x, y, deltaX, deltaY); err != nil {
		return Result{}, wrapError(ErrCodeExecutionFailure, err, "scroll failed")
	}
	msg := "Scrolled " + direction
	d.logger.Info(msg)
	return Result{Content: msg}, nil
}

func (d *Dispatcher) hotkey(ctx context.Context, pred vlm.PredictionParsed, _ *ExecContext) (Result, error) {
	combo := pred.ActionInputs.Key
	if combo == "" {
		combo = pred.ActionInputs.Hotkey
	}
	if combo == "" {
		return Result{}, newError(ErrCodeInvalidParameters, "hotkey has no key")
	}
	keys := TransformHotkey(combo)
	if err := d.session.PressKeys(ctx, keys); err != nil {
		return Result{}, wrapError(ErrCodeExecutionFailure, err, "key press failed")
	}
	msg := "Sent keys: " + strings.Join(keys, "+")
	d.logger.Info(msg)
	return Result{Content: msg}, nil
}

func (d *Dispatcher) wait(ctx context.Context, _ vlm.PredictionParsed, _ *ExecContext) (Result, error) {
	select {
	case <-time.After(waitDuration):
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	return Result{Content: "Waited"}, nil
}

func (d *Dispatcher) finished(_ context.Context, pred vlm.PredictionParsed, _ *ExecContext) (Result, error) {
	return Result{Content: pred.Thought, Done: true}, nil
}

func quoteContent(s string) string {
	if len(s) > 80 {
		s = s[:80] + "..."
	}
	return "\"" + s + "\""
}
