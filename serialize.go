package serialize

import (
	"github.com/rs/zerolog"
)

// logger is a no-op unless the host application opts in via SetLogger.
var logger = zerolog.Nop()

// SetLogger installs a logger for debug-level tracing of serialization
// runs. Passing zerolog.Nop() turns tracing back off.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Serialize converts a value graph into the source text of a single
// JavaScript expression whose evaluation reproduces the value. The optional
// second argument is either an Options (see DefaultOptions) or, as a legacy
// shorthand, a bare number or string that sets the Space option and leaves
// everything else at its default.
//
// The input graph must be acyclic; there is no cycle detection.
func Serialize(value any, opts ...any) (string, error) {
	o, err := resolveOptions(opts...)
	if err != nil {
		return "", err
	}
	return serializeWith(value, o)
}

// MustSerialize is Serialize panicking on error. With the default Silent
// option the only errors are configuration mistakes.
func MustSerialize(value any, opts ...any) string {
	s, err := Serialize(value, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// serializeWith is one top-level pipeline invocation:
//
//	resolve → (fast path) → tag-and-encode → escape → reconstruct
//
// Nested invocations during reconstruction come back through here with the
// same options and an independent context.
func serializeWith(value any, o Options) (string, error) {
	indent, err := resolveIndent(o.Space)
	if err != nil {
		return "", err
	}

	if o.IsJSON {
		// no tagging, no sinks; input is promised to be plain JSON data
		switch value.(type) {
		case UndefinedValue, *Function, *Symbol:
			return "undefined", nil
		}
		text, err := encodeJSONFast(value, indent)
		if err != nil {
			return "", err
		}
		if !o.Unsafe {
			text = escapeUnsafe(text)
		}
		return text, nil
	}

	if !o.IncludeFunction {
		if _, isFn := value.(*Function); isFn {
			return "undefined", nil
		}
	}

	ctx := newRunContext(o, indent)
	node, keep := ctx.tagValue(value)
	if !keep {
		// a suppressed top-level value has no encoding at all
		return "undefined", nil
	}

	text, err := encodeTree(node, indent)
	if err != nil {
		return "", err
	}
	if !o.Unsafe {
		text = escapeUnsafe(text)
	}
	if ctx.empty() {
		return text, nil
	}

	logger.Debug().
		Str("run_id", ctx.runID).
		Int("tagged", ctx.tagged()).
		Msg("serialize: reconstructing placeholders")
	return ctx.reconstruct(text)
}
