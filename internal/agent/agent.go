// internal/agent/agent.go
//
// The agent loop: observe the page, ask the vision model for the next
// action, parse its prediction, ground the target, execute, repeat. The
// last-known-region memo lives here, not in the parser, and is threaded
// explicitly into every dispatch call.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visor-ai/visor/internal/config"
	"github.com/visor-ai/visor/internal/dispatch"
	"github.com/visor-ai/visor/internal/llmclient"
	"github.com/visor-ai/visor/internal/vlm"
)

// ErrStepBudgetExceeded reports that the loop hit its step limit before the
// model declared the task finished.
var ErrStepBudgetExceeded = errors.New("agent: step budget exceeded")

// Browser is the slice of the browser layer the agent observes through.
// *browser.Session satisfies it.
type Browser interface {
	dispatch.Session
	Navigate(ctx context.Context, url string) error
	Screenshot(ctx context.Context) ([]byte, error)
}

// Task is one mission for the agent.
type Task struct {
	ID        string
	Objective string
	TargetURL string
}

// Step records one executed (or failed) action.
type Step struct {
	ID         string `json:"id"`
	Index      int    `json:"index"`
	ActionType string `json:"action_type"`
	Thought    string `json:"thought,omitempty"`
	Reflection string `json:"reflection,omitempty"`
	Content    string `json:"content,omitempty"`
	Err        string `json:"error,omitempty"`
}

// Agent drives one browser session from model predictions.
type Agent struct {
	cfg        config.AgentConfig
	model      llmclient.Client
	browser    Browser
	dispatcher *dispatch.Dispatcher
	parseOpts  func(width, height float64) vlm.Options
	logger     *zap.Logger

	// memo carries the last known regions across steps; dispatch consults it
	// when a later action omits its target.
	memo dispatch.Memo
}

// New assembles an agent. Model config supplies the coordinate factors the
// parser needs.
func New(cfg config.AgentConfig, modelCfg config.ModelConfig, model llmclient.Client, browser Browser, logger *zap.Logger) *Agent {
	return &Agent{
		cfg:        cfg,
		model:      model,
		browser:    browser,
		dispatcher: dispatch.NewDispatcher(browser, logger),
		parseOpts: func(width, height float64) vlm.Options {
			return vlm.Options{
				Factors:     [2]float64{modelCfg.WidthFactor, modelCfg.HeightFactor},
				Screen:      &vlm.ScreenContext{Width: width, Height: height},
				ScaleFactor: modelCfg.ScaleFactor,
			}
		},
		logger: logger.Named("agent"),
	}
}

// Run executes the task until the model declares it finished or the step
// budget runs out. It returns the step records either way.
func (a *Agent) Run(ctx context.Context, task Task) ([]Step, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	logger := a.logger.With(zap.String("task_id", task.ID))
	logger.Info("Starting task", zap.String("objective", task.Objective), zap.String("url", task.TargetURL))

	if task.TargetURL != "" {
		if err := a.browser.Navigate(ctx, task.TargetURL); err != nil {
			return nil, err
		}
	}

	var history []Step
	for stepIndex := 0; stepIndex < a.cfg.MaxSteps; stepIndex++ {
		if err := ctx.Err(); err != nil {
			return history, err
		}

		shot, err := a.browser.Screenshot(ctx)
		if err != nil {
			return history, err
		}
		text, err := a.model.Predict(ctx, buildPrompt(task.Objective, history), shot)
		if err != nil {
			return history, err
		}
		width, height, err := a.browser.Viewport(ctx)
		if err != nil {
			return history, err
		}

		predictions := vlm.ParsePrediction(llmclient.CleanResponse(text), a.parseOpts(width, height))
		done, steps := a.executeAll(ctx, predictions, stepIndex, logger)
		history = append(history, steps...)
		if done {
			logger.Info("Task finished", zap.Int("steps", len(history)))
			return history, nil
		}
	}
	return history, fmt.Errorf("%w after %d steps", ErrStepBudgetExceeded, a.cfg.MaxSteps)
}

// executeAll dispatches every prediction from one model response in order.
// A failed action is recorded and ends the batch so the model sees the error
// on the next observation.
func (a *Agent) executeAll(ctx context.Context, predictions []vlm.PredictionParsed, stepIndex int, logger *zap.Logger) (done bool, steps []Step) {
	for _, pred := range predictions {
		step := Step{
			ID:         uuid.NewString(),
			Index:      stepIndex,
			ActionType: pred.ActionType,
			Thought:    pred.Thought,
			Reflection: pred.Reflection,
		}

		actionCtx := ctx
		if a.cfg.ActionTimeout > 0 {
			var cancel context.CancelFunc
			actionCtx, cancel = context.WithTimeout(ctx, a.cfg.ActionTimeout)
			defer cancel()
		}

		result, err := a.dispatcher.Execute(actionCtx, pred, dispatch.ExecContext{Memo: &a.memo})
		if err != nil {
			step.Err = err.Error()
			logger.Warn("Action failed", zap.String("action", pred.ActionType), zap.Error(err))
			steps = append(steps, step)
			return false, steps
		}

		step.Content = result.Content
		steps = append(steps, step)
		if result.Done {
			return true, steps
		}
	}
	return false, steps
}
