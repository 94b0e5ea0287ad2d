// internal/vlm/parser.go
//
// Parses a raw vision model response into structured prediction records.
// The model speaks in a loose textual protocol:
//
//	Thought: reasoning...
//	Action: click(start_box='(100,200)')
//
// with optional Reflection/Action_Summary framings and multi-action
// responses separated by a blank line. Coordinates arrive in the model's
// integer scale (1000x1000 by default) and are normalized to the 0-1 range,
// plus an absolute pixel midpoint when the viewport size is known.
package vlm

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	json "github.com/json-iterator/go"
)

// DefaultFactor is the integer scale the model emits raw box coordinates in
// before they are divided down to the 0-1 range.
const DefaultFactor = 1000.0

// Options control coordinate normalization during parsing. The zero value is
// usable: factors default to 1000x1000, the scale factor to 1, and absolute
// coordinates are skipped without screen context.
type Options struct {
	// Factors are the per-axis divisors (width, height).
	Factors [2]float64
	// Screen enables absolute pixel coordinate computation.
	Screen *ScreenContext
	// ScaleFactor multiplies absolute coordinates, for scaled displays.
	ScaleFactor float64
}

func (o Options) factors() (float64, float64) {
	w, h := o.Factors[0], o.Factors[1]
	if w <= 0 {
		w = DefaultFactor
	}
	if h <= 0 {
		h = DefaultFactor
	}
	return w, h
}

func (o Options) scale() float64 {
	if o.ScaleFactor <= 0 {
		return 1
	}
	return o.ScaleFactor
}

var (
	thoughtRe    = regexp.MustCompile(`Thought: ([\s\S]+?)(?:\s*Action:|$)`)
	reflectionRe = regexp.MustCompile(`Reflection: ([\s\S]+?)Action_Summary: ([\s\S]+?)(?:\s*Action:|$)`)
	summaryRe    = regexp.MustCompile(`Action_Summary: (.+?)(?:\s*Action:|$)`)

	bracketRe = regexp.MustCompile(`[()\[\]]`)
)

// ParsePrediction splits a full model response into reflection, thought and
// one or more actions, and normalizes any region arguments. It always returns
// at least one record; an action string that fails structural parsing yields
// a record with an empty ActionType, which dispatch must reject. The function
// is pure: the same input always produces the same output.
func ParsePrediction(text string, opts Options) []PredictionParsed {
	var reflection, thought string

	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "Thought:"):
		if m := thoughtRe.FindStringSubmatch(text); m != nil {
			thought = strings.TrimSpace(m[1])
		}
	case strings.HasPrefix(text, "Reflection:"):
		if m := reflectionRe.FindStringSubmatch(text); m != nil {
			reflection = strings.TrimSpace(m[1])
			thought = strings.TrimSpace(m[2])
		}
	case strings.HasPrefix(text, "Action_Summary:"):
		if m := summaryRe.FindStringSubmatch(text); m != nil {
			thought = strings.TrimSpace(m[1])
		}
	}

	// Everything after the last action marker is the action portion. A
	// response with no marker at all is treated as one action string, which
	// may legitimately fail to parse.
	actionStr := text
	if strings.Contains(text, "Action:") {
		parts := strings.Split(text, "Action:")
		actionStr = parts[len(parts)-1]
	}

	var predictions []PredictionParsed
	for _, rawStr := range strings.Split(actionStr, "\n\n") {
		rawStr = strings.TrimLeft(strings.ReplaceAll(rawStr, "\n", `\n`), " \t")

		pred := PredictionParsed{Thought: thought, Reflection: reflection}
		if call, err := ParseActionCall(rawStr); err == nil {
			pred.ActionType = call.Name
			applyInputs(&pred.ActionInputs, call.Args, opts)
		}
		predictions = append(predictions, pred)
	}
	return predictions
}

// applyInputs copies cleaned argument values onto the inputs record and
// normalizes region-bearing arguments.
func applyInputs(inputs *ActionInputs, args []ActionArg, opts Options) {
	for _, arg := range args {
		if arg.Value == "" {
			continue
		}
		trimmed := strings.TrimSpace(arg.Value)
		inputs.set(arg.Name, trimmed)

		if strings.Contains(arg.Name, "start_box") || strings.Contains(arg.Name, "end_box") {
			normalizeRegion(inputs, arg.Name, trimmed, opts)
		}
	}
}

// normalizeRegion converts a raw region descriptor into a normalized 0-1
// rectangle stored back onto the region field, and, when screen context is
// available, an absolute pixel midpoint on the matching coords field.
func normalizeRegion(inputs *ActionInputs, name, raw string, opts Options) {
	widthFactor, heightFactor := opts.factors()

	var (
		numbers    []float64
		nonNumeric bool
	)
	idx := 0
	for _, part := range strings.Split(bracketRe.ReplaceAllString(raw, ""), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseFloat(part, 64)
		if err != nil {
			nonNumeric = true
			idx++
			continue
		}
		factor := widthFactor
		if idx%2 == 1 {
			factor = heightFactor
		}
		numbers = append(numbers, n/factor)
		idx++
	}
	if len(numbers) == 0 && nonNumeric {
		// Nothing numeric to propagate; keep the raw descriptor and flag the
		// absolute coordinates as explicitly unresolvable.
		if opts.Screen.valid() {
			setCoords(inputs, name, []float64{})
		}
		return
	}

	// A bare point expands into a degenerate rectangle so downstream
	// geometry can always assume four components.
	if len(numbers) == 2 {
		numbers = append(numbers, numbers[0], numbers[1])
	}

	if encoded, err := json.Marshal(numbers); err == nil {
		inputs.set(name, string(encoded))
	}

	if !opts.Screen.valid() {
		return
	}
	if nonNumeric || len(numbers) < 4 {
		setCoords(inputs, name, []float64{})
		return
	}

	x1, y1, x2, y2 := numbers[0], numbers[1], numbers[2], numbers[3]
	// Round to the factor granularity before applying the display scale.
	x := math.Round(((x1+x2)/2)*opts.Screen.Width*widthFactor) / widthFactor * opts.scale()
	y := math.Round(((y1+y2)/2)*opts.Screen.Height*heightFactor) / heightFactor * opts.scale()
	setCoords(inputs, name, []float64{x, y})
}

func setCoords(inputs *ActionInputs, name string, coords []float64) {
	if strings.Contains(name, "start_box") {
		inputs.StartCoords = coords
	} else {
		inputs.EndCoords = coords
	}
}
