// internal/vlm/tokenizer.go
package vlm

import "regexp"

// ValueKind identifies which of the four argument value shapes matched.
type ValueKind int

const (
	// ValueSingleQuoted is text wrapped in single quotes.
	ValueSingleQuoted ValueKind = iota
	// ValueDoubleQuoted is text wrapped in double quotes.
	ValueDoubleQuoted
	// ValueTuple is a parenthesized group, kept opaque at this layer.
	ValueTuple
	// ValueBare is an unquoted run of non-comma, non-whitespace characters.
	ValueBare
)

// ArgValue is a tokenized argument value. Text holds the content without the
// surrounding quotes for quoted kinds and the raw matched text otherwise.
type ArgValue struct {
	Kind ValueKind
	Text string
}

// Arg is one name/value pair in source order.
type Arg struct {
	Name  string
	Value ArgValue
}

var (
	// Some models emit a corrupted literal like start_box='='\n(231,540),
	// where a quoted equals sign splits the real value off. The same quirk
	// appears with escaped quotes. Both variants are stripped before
	// scanning, including any trailing whitespace or escaped newlines.
	quotedEqualsRe        = regexp.MustCompile(`['"]=['"](\s|\\n)*`)
	escapedQuotedEqualsRe = regexp.MustCompile(`\\['"]=\\['"](\s|\\n)*`)

	// argPairRe matches name=value where value is single-quoted,
	// double-quoted, a parenthesized group, or a bare token.
	argPairRe = regexp.MustCompile(`(\w+)=(?:'([^']*)'|"([^"]*)"|(\(.*\))|([^,\s]+))`)
)

// SplitArgs tokenizes the raw text between the outer parentheses of a
// function-call string into ordered name/value pairs. Unrecognizable input
// yields an empty result, not an error; zero-argument actions are legal.
func SplitArgs(argsStr string) []Arg {
	argsStr = quotedEqualsRe.ReplaceAllString(argsStr, "")
	argsStr = escapedQuotedEqualsRe.ReplaceAllString(argsStr, "")

	var args []Arg
	for _, idx := range argPairRe.FindAllStringSubmatchIndex(argsStr, -1) {
		name := argsStr[idx[2]:idx[3]]
		// Group indices 2..5 correspond to the four value alternatives.
		// Submatch offsets are -1 for alternatives that did not participate,
		// which keeps a validly quoted empty string distinct from no match.
		var value ArgValue
		switch {
		case idx[4] >= 0:
			value = ArgValue{Kind: ValueSingleQuoted, Text: argsStr[idx[4]:idx[5]]}
		case idx[6] >= 0:
			value = ArgValue{Kind: ValueDoubleQuoted, Text: argsStr[idx[6]:idx[7]]}
		case idx[8] >= 0:
			value = ArgValue{Kind: ValueTuple, Text: argsStr[idx[8]:idx[9]]}
		case idx[10] >= 0:
			value = ArgValue{Kind: ValueBare, Text: argsStr[idx[10]:idx[11]]}
		default:
			continue
		}
		args = append(args, Arg{Name: name, Value: value})
	}
	return args
}
