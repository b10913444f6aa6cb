package serialize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNonSerializableFunction reports a host-implemented function with no
// extractable body. Under Silent it is downgraded to an undefined literal.
var ErrNonSerializableFunction = errors.New("serialize: cannot serialize native function")

// funcForm is the closed classification of function source text.
type funcForm uint8

const (
	funcFormNative    funcForm = iota // { [native code] }, unserializable
	funcFormPure                      // function keyword, valid standalone
	funcFormShorthand                 // method shorthand, needs rewriting
	funcFormArrow                     // arrow, valid standalone
)

// String returns the form name.
func (f funcForm) String() string {
	switch f {
	case funcFormNative:
		return "native"
	case funcFormPure:
		return "pure"
	case funcFormShorthand:
		return "shorthand"
	case funcFormArrow:
		return "arrow"
	default:
		return "unknown"
	}
}

var (
	nativeCodePattern   = regexp.MustCompile(`\{\s*\[native code\]\s*\}`)
	pureFunctionPattern = regexp.MustCompile(`function.*?\(`)
	arrowSpacingPattern = regexp.MustCompile(`\s*=>\s*`)
)

// header tokens that do not count as a method name
var reservedHeaderWords = map[string]bool{"*": true, "async": true}

// classifyFunctionSource decides which of the four forms the source text is.
// The header is everything before the first parenthesis: an empty header
// (or none at all, for paren-free single-argument arrows) means arrow, a
// header with any non-reserved word is a shorthand method.
func classifyFunctionSource(src string) funcForm {
	if nativeCodePattern.MatchString(src) {
		return funcFormNative
	}
	if pureFunctionPattern.MatchString(src) {
		return funcFormPure
	}
	argsStart := strings.Index(src, "(")
	if argsStart < 0 {
		if strings.Contains(src, "=>") {
			return funcFormArrow
		}
		return funcFormNative
	}
	for _, word := range strings.Fields(src[:argsStart]) {
		if !reservedHeaderWords[word] && !isGeneratorMarker(word) {
			return funcFormShorthand
		}
	}
	// a generator marker without a name still needs the shorthand rewrite:
	// `*(){}` is not a standalone expression either
	for _, word := range strings.Fields(src[:argsStart]) {
		if word != "async" {
			return funcFormShorthand
		}
	}
	return funcFormArrow
}

func isGeneratorMarker(word string) bool {
	return strings.Trim(word, "*") == "" && word != ""
}

// normalizeFunctionSource turns stored function source into a standalone
// expression. Pure function-keyword forms pass verbatim; shorthand methods
// are rewritten to anonymous function expressions preserving async and
// generator markers; arrows get their arrow-token whitespace normalized
// (spaced when pretty-printing, tight otherwise). Native functions fail.
func normalizeFunctionSource(src string, pretty bool) (string, error) {
	switch classifyFunctionSource(src) {
	case funcFormNative:
		return "", fmt.Errorf("%w: %q", ErrNonSerializableFunction, functionName(src))
	case funcFormPure:
		return src, nil
	case funcFormShorthand:
		return rewriteShorthand(src), nil
	default:
		return normalizeArrowSpacing(src, pretty), nil
	}
}

// rewriteShorthand converts `name(args) { body }` (optionally async and/or
// generator-marked) into `function(args) { body }`. The shorthand form is
// only legal inside an object or class body, so the name is dropped and the
// keyword restored.
func rewriteShorthand(src string) string {
	argsStart := strings.Index(src, "(")
	header := strings.Fields(src[:argsStart])

	prefix := ""
	keyword := "function"
	for _, word := range header {
		if word == "async" {
			prefix = "async "
		}
	}
	if strings.Contains(strings.Join(header, ""), "*") {
		keyword += "*"
	}
	return prefix + keyword + src[argsStart:]
}

// normalizeArrowSpacing adjusts whitespace around the first arrow token
// only; arrows inside the body are part of the source and stay untouched.
func normalizeArrowSpacing(src string, pretty bool) string {
	loc := arrowSpacingPattern.FindStringIndex(src)
	if loc == nil {
		return src
	}
	arrow := "=>"
	if pretty {
		arrow = " => "
	}
	return src[:loc[0]] + arrow + src[loc[1]:]
}

// functionName extracts a best-effort name from source text for error
// messages.
func functionName(src string) string {
	argsStart := strings.Index(src, "(")
	if argsStart < 0 {
		argsStart = len(src)
	}
	fields := strings.Fields(src[:argsStart])
	for i := len(fields) - 1; i >= 0; i-- {
		w := strings.TrimLeft(fields[i], "*")
		if w != "" && w != "function" && w != "async" && w != "get" && w != "set" {
			return w
		}
	}
	return "anonymous"
}
