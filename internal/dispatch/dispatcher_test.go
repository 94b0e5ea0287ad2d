// internal/dispatch/dispatcher_test.go
package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/visor-ai/visor/internal/browser"
	"github.com/visor-ai/visor/internal/grounding"
	"github.com/visor-ai/visor/internal/vlm"
)

// fakeSession records the input calls a handler makes.
type fakeSession struct {
	width, height float64
	elements      []browser.Element

	clicks  [][2]float64
	typed   []string
	pressed [][]string
	scrolls [][4]float64
	drags   [][4]float64
}

func (f *fakeSession) Viewport(ctx context.Context) (float64, float64, error) {
	return f.width, f.height, nil
}

func (f *fakeSession) Candidates(ctx context.Context) ([]browser.Element, error) {
	return f.elements, nil
}

func (f *fakeSession) ClickAt(ctx context.Context, x, y float64) error {
	f.clicks = append(f.clicks, [2]float64{x, y})
	return nil
}

func (f *fakeSession) TypeText(ctx context.Context, text string) error {
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeSession) PressKeys(ctx context.Context, keys []string) error {
	f.pressed = append(f.pressed, keys)
	return nil
}

func (f *fakeSession) ScrollBy(ctx context.Context, x, y, deltaX, deltaY float64) error {
	f.scrolls = append(f.scrolls, [4]float64{x, y, deltaX, deltaY})
	return nil
}

func (f *fakeSession) Drag(ctx context.Context, fromX, fromY, toX, toY float64) error {
	f.drags = append(f.drags, [4]float64{fromX, fromY, toX, toY})
	return nil
}

func newTestSession() *fakeSession {
	return &fakeSession{
		width:  1000,
		height: 800,
		elements: []browser.Element{
			{Tag: "body", Rect: grounding.Rect{X: 0, Y: 0, Width: 1000, Height: 800}},
			{Tag: "button", Text: "Submit", Rect: grounding.Rect{X: 480, Y: 380, Width: 40, Height: 40}},
		},
	}
}

func clickPrediction(box string) vlm.PredictionParsed {
	return vlm.PredictionParsed{
		ActionType:   "click",
		ActionInputs: vlm.ActionInputs{StartBox: box},
	}
}

func TestExecute_ClickResolvesSmallestElement(t *testing.T) {
	session := newTestSession()
	d := NewDispatcher(session, zap.NewNop())

	result, err := d.Execute(context.Background(), clickPrediction("[0.5,0.5,0.5,0.5]"), ExecContext{})
	require.NoError(t, err)
	assert.False(t, result.Done)
	assert.Contains(t, result.Content, "button")

	// Center of the 40x40 button at (480,380).
	require.Len(t, session.clicks, 1)
	assert.Equal(t, [2]float64{500, 400}, session.clicks[0])
}

func TestExecute_ClickNoElement(t *testing.T) {
	session := newTestSession()
	session.elements = nil
	d := NewDispatcher(session, zap.NewNop())

	_, err := d.Execute(context.Background(), clickPrediction("[0.5,0.5,0.5,0.5]"), ExecContext{})
	var dispatchErr *Error
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, ErrCodeElementNotFound, dispatchErr.Code)
}

func TestExecute_UnknownActionRejected(t *testing.T) {
	d := NewDispatcher(newTestSession(), zap.NewNop())

	// A failed parse surfaces as an empty action type; dispatch must reject
	// it rather than execute anything.
	_, err := d.Execute(context.Background(), vlm.PredictionParsed{ActionType: ""}, ExecContext{})
	var dispatchErr *Error
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, ErrCodeUnknownAction, dispatchErr.Code)

	_, err = d.Execute(context.Background(), vlm.PredictionParsed{ActionType: "teleport"}, ExecContext{})
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, ErrCodeUnknownAction, dispatchErr.Code)
}

func TestExecute_BrowserActionsNeedSession(t *testing.T) {
	d := NewDispatcher(nil, zap.NewNop())

	_, err := d.Execute(context.Background(), clickPrediction("[0.5,0.5,0.5,0.5]"), ExecContext{})
	var dispatchErr *Error
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, ErrCodeMissingContext, dispatchErr.Code)
}

func TestExecute_TypeFallsBackToMemo(t *testing.T) {
	session := newTestSession()
	d := NewDispatcher(session, zap.NewNop())
	memo := &Memo{StartBox: "[0.5,0.5,0.5,0.5]"}

	pred := vlm.PredictionParsed{
		ActionType:   "type",
		ActionInputs: vlm.ActionInputs{Content: `hello\nworld`},
	}
	_, err := d.Execute(context.Background(), pred, ExecContext{Memo: memo})
	require.NoError(t, err)

	// Focus click on the memoized region, then the text with its escaped
	// newline restored.
	require.Len(t, session.clicks, 1)
	require.Len(t, session.typed, 1)
	assert.Equal(t, "hello\nworld", session.typed[0])
}

func TestExecute_TypeSensitiveDataRedacted(t *testing.T) {
	session := newTestSession()
	d := NewDispatcher(session, zap.NewNop())

	pred := vlm.PredictionParsed{
		ActionType: "type",
		ActionInputs: vlm.ActionInputs{
			StartBox: "[0.5,0.5,0.5,0.5]",
			Content:  "hunter2",
		},
	}
	result, err := d.Execute(context.Background(), pred, ExecContext{HasSensitiveData: true})
	require.NoError(t, err)
	assert.NotContains(t, result.Content, "hunter2")
}

func TestExecute_MemoUpdatedFromPrediction(t *testing.T) {
	session := newTestSession()
	d := NewDispatcher(session, zap.NewNop())
	memo := &Memo{}

	_, err := d.Execute(context.Background(), clickPrediction("[0.5,0.5,0.5,0.5]"), ExecContext{Memo: memo})
	require.NoError(t, err)
	assert.Equal(t, "[0.5,0.5,0.5,0.5]", memo.StartBox)
}

func TestExecute_ScrollDirections(t *testing.T) {
	testCases := []struct {
		direction      string
		deltaX, deltaY float64
	}{
		{"down", 0, 560},
		{"up", 0, -560},
		{"right", 700, 0},
		{"left", -700, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.direction, func(t *testing.T) {
			session := newTestSession()
			d := NewDispatcher(session, zap.NewNop())

			pred := vlm.PredictionParsed{
				ActionType: "scroll",
				ActionInputs: vlm.ActionInputs{
					StartBox:  "[0.5,0.5,0.5,0.5]",
					Direction: tc.direction,
				},
			}
			_, err := d.Execute(context.Background(), pred, ExecContext{})
			require.NoError(t, err)
			require.Len(t, session.scrolls, 1)
			assert.InDelta(t, 500, session.scrolls[0][0], 0.001)
			assert.InDelta(t, 400, session.scrolls[0][1], 0.001)
			assert.InDelta(t, tc.deltaX, session.scrolls[0][2], 0.001)
			assert.InDelta(t, tc.deltaY, session.scrolls[0][3], 0.001)
		})
	}
}

func TestExecute_ScrollWithoutDirection(t *testing.T) {
	d := NewDispatcher(newTestSession(), zap.NewNop())

	pred := vlm.PredictionParsed{
		ActionType:   "scroll",
		ActionInputs: vlm.ActionInputs{StartBox: "[0.5,0.5,0.5,0.5]"},
	}
	_, err := d.Execute(context.Background(), pred, ExecContext{})
	var dispatchErr *Error
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, ErrCodeInvalidParameters, dispatchErr.Code)
}

func TestExecute_Drag(t *testing.T) {
	session := newTestSession()
	d := NewDispatcher(session, zap.NewNop())

	pred := vlm.PredictionParsed{
		ActionType: "drag",
		ActionInputs: vlm.ActionInputs{
			StartBox: "[0.1,0.1,0.1,0.1]",
			EndBox:   "[0.9,0.9,0.9,0.9]",
		},
	}
	_, err := d.Execute(context.Background(), pred, ExecContext{})
	require.NoError(t, err)
	require.Len(t, session.drags, 1)
	assert.InDelta(t, 100, session.drags[0][0], 0.001)
	assert.InDelta(t, 80, session.drags[0][1], 0.001)
	assert.InDelta(t, 900, session.drags[0][2], 0.001)
	assert.InDelta(t, 720, session.drags[0][3], 0.001)
}

func TestExecute_Hotkey(t *testing.T) {
	session := newTestSession()
	d := NewDispatcher(session, zap.NewNop())

	pred := vlm.PredictionParsed{
		ActionType:   "hotkey",
		ActionInputs: vlm.ActionInputs{Key: "ctrl c"},
	}
	_, err := d.Execute(context.Background(), pred, ExecContext{})
	require.NoError(t, err)
	require.Len(t, session.pressed, 1)
	assert.Equal(t, []string{"Control", "c"}, session.pressed[0])
}

func TestExecute_Finished(t *testing.T) {
	d := NewDispatcher(nil, zap.NewNop())

	pred := vlm.PredictionParsed{ActionType: "finished", Thought: "all done"}
	result, err := d.Execute(context.Background(), pred, ExecContext{})
	require.NoError(t, err)
	assert.True(t, result.Done)
	assert.Equal(t, "all done", result.Content)
}

func TestExecute_WaitHonorsCancellation(t *testing.T) {
	d := NewDispatcher(nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Execute(ctx, vlm.PredictionParsed{ActionType: "wait"}, ExecContext{})
	assert.True(t, errors.Is(err, context.Canceled))
}
