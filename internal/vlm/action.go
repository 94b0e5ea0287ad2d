// internal/vlm/action.go
package vlm

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNotFunctionCall reports that an action string does not match the
// identifier(...) shape. The caller decides whether to drop the single action
// or abort the batch.
var ErrNotFunctionCall = errors.New("vlm: action is not a function call")

// ActionArg is a cleaned name/value pair, order preserved.
type ActionArg struct {
	Name  string
	Value string
}

// ActionCall is a single parsed action: a function name and its arguments in
// source order.
type ActionCall struct {
	Name string
	Args []ActionArg
}

// Get returns the value of the first argument with the given name.
func (c *ActionCall) Get(name string) (string, bool) {
	for _, a := range c.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

var callShapeRe = regexp.MustCompile(`^(\w+)\((.*)\)$`)

// ParseActionCall parses one action string of the shape
// identifier(arg1=val1, arg2=val2, ...). Input that does not match the outer
// shape returns ErrNotFunctionCall rather than panicking.
func ParseActionCall(actionStr string) (*ActionCall, error) {
	m := callShapeRe.FindStringSubmatch(strings.TrimSpace(actionStr))
	if m == nil {
		return nil, ErrNotFunctionCall
	}

	call := &ActionCall{Name: m[1]}
	if strings.TrimSpace(m[2]) == "" {
		return call, nil
	}

	for _, arg := range SplitArgs(m[2]) {
		key := strings.TrimSpace(arg.Name)
		if key == "" {
			continue
		}
		call.Args = append(call.Args, ActionArg{Name: key, Value: cleanValue(arg.Value)})
	}
	return call, nil
}

// cleanValue trims an argument value and strips one layer of surrounding
// quote characters. Values carrying <bbox> markers are rewritten into a
// tuple literal, e.g. "<bbox>12 34 56 78</bbox>" becomes "(12,34,56,78)".
func cleanValue(v ArgValue) string {
	value := strings.Trim(strings.TrimSpace(v.Text), `'"`)

	if strings.Contains(value, "<bbox>") {
		value = strings.ReplaceAll(value, "<bbox>", "")
		value = strings.ReplaceAll(value, "</bbox>", "")
		value = strings.ReplaceAll(value, " ", ",")
		value = "(" + value + ")"
	}
	return value
}
