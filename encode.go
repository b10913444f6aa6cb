package serialize

import (
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
)

// encodeTree runs the tagged tree through the generic JSON encoder. The
// encoder owns string escaping, number formatting and indentation; this
// walk only drives structure. HTML escaping is off here because the unsafe
// escaper is its own pipeline stage.
func encodeTree(node any, indent string) (string, error) {
	step := 0
	rewrite := false
	if indent != "" {
		if strings.Trim(indent, " ") == "" {
			step = len(indent)
		} else {
			// jsoniter only indents with spaces; encode one space per level
			// and rewrite to the requested string afterwards
			step = 1
			rewrite = true
		}
	}

	cfg := jsoniter.Config{
		IndentionStep: step,
		EscapeHTML:    false,
		SortMapKeys:   true,
	}.Froze()
	stream := cfg.BorrowStream(nil)
	defer cfg.ReturnStream(stream)

	writeNode(stream, node)
	if stream.Error != nil {
		return "", fmt.Errorf("serialize: encode: %w", stream.Error)
	}
	text := string(stream.Buffer())
	if rewrite {
		text = rewriteIndent(text, indent)
	}
	return text, nil
}

func writeNode(s *jsoniter.Stream, v any) {
	switch val := v.(type) {
	case nil:
		s.WriteNil()
	case *objectNode:
		if len(val.entries) == 0 {
			s.WriteEmptyObject()
			return
		}
		s.WriteObjectStart()
		for i, e := range val.entries {
			if i > 0 {
				s.WriteMore()
			}
			s.WriteObjectField(e.key)
			writeNode(s, e.value)
		}
		s.WriteObjectEnd()
	case []any:
		if len(val) == 0 {
			s.WriteEmptyArray()
			return
		}
		s.WriteArrayStart()
		for i, e := range val {
			if i > 0 {
				s.WriteMore()
			}
			writeNode(s, e)
		}
		s.WriteArrayEnd()
	case string:
		s.WriteString(val)
	case bool:
		s.WriteBool(val)
	case int:
		s.WriteInt64(int64(val))
	case int8:
		s.WriteInt64(int64(val))
	case int16:
		s.WriteInt64(int64(val))
	case int32:
		s.WriteInt64(int64(val))
	case int64:
		s.WriteInt64(val)
	case uint:
		s.WriteUint64(uint64(val))
	case uint8:
		s.WriteUint64(uint64(val))
	case uint16:
		s.WriteUint64(uint64(val))
	case uint32:
		s.WriteUint64(uint64(val))
	case uint64:
		s.WriteUint64(val)
	case float32:
		s.WriteFloat32(val)
	case float64:
		s.WriteFloat64(val)
	default:
		// structs, json.Marshaler values, remaining leaves
		s.WriteVal(val)
	}
}

// rewriteIndent replaces the one-space-per-level structural indentation with
// the caller's indent string. Safe on encoded JSON: string contents never
// contain raw newlines, so every physical line break is structural.
func rewriteIndent(text, indent string) string {
	if indent == " " || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		n := 0
		for n < len(line) && line[n] == ' ' {
			n++
		}
		if n > 0 {
			b.WriteString(strings.Repeat(indent, n))
		}
		b.WriteString(line[n:])
	}
	return b.String()
}

// ============================================================
// Unsafe-Character Escaper
// ============================================================

// unsafeReplacer maps HTML-sensitive characters and the JS line terminators
// to numeric escapes. It runs on the encoded text, strictly before
// reconstruction, so reconstructed literal syntax (regex slashes, arrows)
// is never touched.
var unsafeReplacer = strings.NewReplacer(
	"<", `\u003C`,
	">", `\u003E`,
	"/", `\u002F`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

func escapeUnsafe(text string) string {
	return unsafeReplacer.Replace(text)
}

// ============================================================
// IsJSON Fast Path
// ============================================================

// encodeJSONFast encodes a plain-JSON value graph directly, with no tagging
// traversal and no sinks.
func encodeJSONFast(v any, indent string) (string, error) {
	var (
		b   []byte
		err error
	)
	if indent == "" {
		b, err = gojson.MarshalWithOption(v, gojson.DisableHTMLEscape())
	} else {
		b, err = gojson.MarshalIndentWithOption(v, "", indent, gojson.DisableHTMLEscape())
	}
	if err != nil {
		return "", fmt.Errorf("serialize: encode: %w", err)
	}
	return string(b), nil
}
