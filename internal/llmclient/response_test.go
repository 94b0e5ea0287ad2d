// internal/llmclient/response_test.go
package llmclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanResponse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare response untouched",
			input:    "Thought: click it\nAction: click(start_box='(1,2)')",
			expected: "Thought: click it\nAction: click(start_box='(1,2)')",
		},
		{
			name:     "fenced response unwrapped",
			input:    "```\nThought: click it\nAction: wait()\n```",
			expected: "Thought: click it\nAction: wait()",
		},
		{
			name:     "fence with language tag",
			input:    "```text\nAction: wait()\n```",
			expected: "Action: wait()",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  \nAction: wait()\n  ",
			expected: "Action: wait()",
		},
		{
			name:     "inner backticks kept when not a full fence",
			input:    "Thought: press the `run` button\nAction: wait()",
			expected: "Thought: press the `run` button\nAction: wait()",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanResponse(tc.input))
		})
	}
}
