// internal/agent/prompt.go
package agent

import (
	"fmt"
	"strings"
)

// promptTemplate instructs the model to answer in the textual protocol the
// vlm package parses: an optional Thought, then an Action line holding a
// function call with box coordinates on a 0-1000 grid.
const promptTemplate = `You are a GUI agent operating a web browser. You are given a task and a
screenshot of the current page. Decide the single next action.

Output format:
Thought: one short paragraph of reasoning
Action: action_call

Action space:
click(start_box='(x,y)')
drag(start_box='(x1,y1)', end_box='(x2,y2)')
type(content='text to type')
scroll(start_box='(x,y)', direction='down or up or left or right')
hotkey(key='key combo, e.g. ctrl c')
wait()
finished()

Coordinates are integers on a 1000x1000 grid over the screenshot.
Use finished() when the task is complete.

Task: %s
`

// buildPrompt renders the instruction prompt, appending the outcome of prior
// steps so the model can see what it already tried.
func buildPrompt(objective string, history []Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptTemplate, objective)

	if len(history) > 0 {
		b.WriteString("\nPrevious steps:\n")
		for _, step := range history {
			outcome := step.Content
			if step.Err != "" {
				outcome = "ERROR: " + step.Err
			}
			fmt.Fprintf(&b, "%d. %s -> %s\n", step.Index+1, step.ActionType, outcome)
		}
	}
	return b.String()
}
