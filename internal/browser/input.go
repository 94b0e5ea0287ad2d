// internal/browser/input.go
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	// dragSteps is the number of intermediate mouse moves during a drag, so
	// dragover handlers fire along the path.
	dragSteps   = 10
	dragStepGap = 5 * time.Millisecond
)

// ClickAt dispatches a full left-click at the given viewport coordinates.
func (s *Session) ClickAt(ctx context.Context, x, y float64) error {
	s.logger.Debug("Click", zap.Float64("x", x), zap.Float64("y", y))
	if err := s.run(ctx, chromedp.MouseClickXY(x, y)); err != nil {
		return fmt.Errorf("browser: click at (%.0f,%.0f) failed: %w", x, y, err)
	}
	return nil
}

// TypeText inserts text at the current focus, the way an IME commit does.
// Focus the target (e.g. via ClickAt) first.
func (s *Session) TypeText(ctx context.Context, text string) error {
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.InsertText(text).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("browser: typing failed: %w", err)
	}
	return nil
}

// PressKeys presses each named key in order. Key names follow the DOM
// convention ("Control", "Enter", "a").
func (s *Session) PressKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			if err := input.DispatchKeyEvent(input.KeyRawDown).WithKey(key).Do(ctx); err != nil {
				return err
			}
			return input.DispatchKeyEvent(input.KeyUp).WithKey(key).Do(ctx)
		}))
		if err != nil {
			return fmt.Errorf("browser: key press %q failed: %w", key, err)
		}
	}
	return nil
}

// ScrollBy dispatches a wheel event at the given point with the given deltas.
func (s *Session) ScrollBy(ctx context.Context, x, y, deltaX, deltaY float64) error {
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseWheel, x, y).
			WithDeltaX(deltaX).
			WithDeltaY(deltaY).
			Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("browser: scroll failed: %w", err)
	}
	return nil
}

// Drag presses at the source point, walks the pointer to the target in
// intermediate steps, and releases. The target move is dispatched twice so
// dragover listeners settle before the drop.
func (s *Session) Drag(ctx context.Context, fromX, fromY, toX, toY float64) error {
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		move := func(x, y float64) error {
			return input.DispatchMouseEvent(input.MouseMoved, x, y).
				WithButtons(1).
				Do(ctx)
		}
		if err := input.DispatchMouseEvent(input.MouseMoved, fromX, fromY).Do(ctx); err != nil {
			return err
		}
		if err := input.DispatchMouseEvent(input.MousePressed, fromX, fromY).
			WithButton(input.Left).
			WithClickCount(1).
			Do(ctx); err != nil {
			return err
		}
		for i := 1; i <= dragSteps; i++ {
			ratio := float64(i) / dragSteps
			if err := move(fromX+(toX-fromX)*ratio, fromY+(toY-fromY)*ratio); err != nil {
				return err
			}
			select {
			case <-time.After(dragStepGap):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := move(toX, toY); err != nil {
			return err
		}
		return input.DispatchMouseEvent(input.MouseReleased, toX, toY).
			WithButton(input.Left).
			WithClickCount(1).
			Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("browser: drag (%.0f,%.0f)->(%.0f,%.0f) failed: %w", fromX, fromY, toX, toY, err)
	}
	return nil
}
