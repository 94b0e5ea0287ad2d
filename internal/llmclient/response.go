// internal/llmclient/response.go
package llmclient

import (
	"regexp"
	"strings"
)

// Regex uses \x60 for backticks because Go raw strings cannot contain them.
var fencedBlockRe = regexp.MustCompile("(?s)^\x60\x60\x60[a-zA-Z]*\\s*(.*?)\\s*\x60\x60\x60$")

// CleanResponse strips the markdown code fence some models wrap their answer
// in, so the prediction parser sees the bare Thought/Action text. Unfenced
// responses pass through untouched apart from surrounding whitespace.
func CleanResponse(response string) string {
	response = strings.TrimSpace(response)
	if matches := fencedBlockRe.FindStringSubmatch(response); len(matches) > 1 {
		return matches[1]
	}
	return response
}
