package serialize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig reports an option that fails basic shape validation.
var ErrInvalidConfig = errors.New("serialize: invalid configuration")

// CompareFn orders two values for sorted reconstruction. Negative means
// a before b.
type CompareFn func(a, b any) int

// Options configures serialization. Start from DefaultOptions and override;
// the zero value disables behaviors that default to on (ArrayFrom,
// IncludeFunction, IncludeSymbols, Silent).
type Options struct {
	// ArrayFrom reconstructs sparse arrays with Array.from; when false,
	// Array.prototype.slice.call is used instead (which preserves holes as
	// true holes rather than undefined entries).
	ArrayFrom bool

	// IncludeFunction serializes function values. When false, function
	// properties are omitted and a top-level function yields "undefined".
	IncludeFunction bool

	// IncludeGetters emits accessor properties as getter source text when
	// available, instead of their resolved values.
	IncludeGetters bool

	// IncludeHidden includes non-enumerable properties.
	IncludeHidden bool

	// IncludeSymbols serializes symbol values; when false the owning
	// property is omitted.
	IncludeSymbols bool

	// IsJSON bypasses the tagging traversal entirely. Fast path: input must
	// already be plain JSON data.
	IsJSON bool

	// LiteralBigInt emits 10n instead of BigInt("10").
	LiteralBigInt bool

	// LiteralRegExp emits /source/flags instead of new RegExp(...).
	LiteralRegExp bool

	// Silent swallows per-value errors (native function sources become
	// undefined) instead of failing the whole serialization.
	Silent bool

	// Sorted reorders Map entries (by key) and Set values before
	// reconstruction using a stable natural ordering.
	Sorted bool

	// SortCompareFn overrides the default ordering; when set it is used
	// whether or not Sorted is true.
	SortCompareFn CompareFn

	// Space controls indentation like JSON.stringify: an int (clamped to
	// 0..8) counts spaces per level, a string (truncated to 10 characters)
	// is used verbatim.
	Space any

	// StrAbbreviateSize is accepted for compatibility but not implemented.
	StrAbbreviateSize int

	// Unsafe disables the HTML/line-terminator escaping of the encoded
	// output.
	Unsafe bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		ArrayFrom:       true,
		IncludeFunction: true,
		IncludeSymbols:  true,
		Silent:          true,
	}
}

// resolveOptions merges the caller's argument over the defaults. It accepts
// nothing, an Options (or *Options), or the legacy shorthand: a bare int or
// string meaning "set Space, keep everything else default".
func resolveOptions(opts ...any) (Options, error) {
	o := DefaultOptions()
	switch len(opts) {
	case 0:
		return o, nil
	case 1:
	default:
		return o, fmt.Errorf("%w: expected at most one options argument, got %d", ErrInvalidConfig, len(opts))
	}

	switch v := opts[0].(type) {
	case nil:
	case Options:
		o = v
	case *Options:
		if v != nil {
			o = *v
		}
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float64, string:
		o.Space = v
	default:
		return o, fmt.Errorf("%w: unsupported options argument %T", ErrInvalidConfig, opts[0])
	}

	if _, err := resolveIndent(o.Space); err != nil {
		return o, err
	}
	return o, nil
}

// resolveIndent turns the Space option into the per-level indent string.
// Numeric values are clamped to 0..8, strings truncated to 10 characters,
// matching JSON.stringify.
func resolveIndent(space any) (string, error) {
	switch v := space.(type) {
	case nil:
		return "", nil
	case string:
		if len(v) > 10 {
			v = v[:10]
		}
		return v, nil
	case int:
		return spacesIndent(v), nil
	case int8:
		return spacesIndent(int(v)), nil
	case int16:
		return spacesIndent(int(v)), nil
	case int32:
		return spacesIndent(int(v)), nil
	case int64:
		return spacesIndent(int(v)), nil
	case uint:
		return spacesIndent(int(v)), nil
	case uint8:
		return spacesIndent(int(v)), nil
	case uint16:
		return spacesIndent(int(v)), nil
	case uint32:
		return spacesIndent(int(v)), nil
	case uint64:
		return spacesIndent(int(v)), nil
	case float64:
		return spacesIndent(int(v)), nil
	default:
		return "", fmt.Errorf("%w: space must be a string or a number, got %T", ErrInvalidConfig, space)
	}
}

func spacesIndent(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 8 {
		n = 8
	}
	return strings.Repeat(" ", n)
}
