package serialize

import (
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/emirpasic/gods/sets/linkedhashset"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// objectNode is the plain-object node of the tagged tree handed to the
// generic encoder: string keys in a fixed order, already-tagged values.
type objectNode struct {
	entries []objectEntry
}

type objectEntry struct {
	key   string
	value any
}

func (n *objectNode) add(key string, value any) {
	n.entries = append(n.entries, objectEntry{key: key, value: value})
}

// getterHeaderPattern recognizes the opening of a getter definition, up to
// and including the body's opening brace.
var getterHeaderPattern = regexp.MustCompile(`^get\b[^(]*\(\s*\)\s*\{`)

// isSingleGetterSource reports whether src is exactly one getter
// definition: a get header followed by one brace-balanced body with nothing
// after it. Anything else (two getters, trailing text, a truncated body)
// falls back to serializing the resolved value.
func isSingleGetterSource(src string) bool {
	src = strings.TrimSpace(src)
	loc := getterHeaderPattern.FindStringIndex(src)
	if loc == nil {
		return false
	}
	depth := 1
	for i := loc[1]; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(src[i+1:]) == ""
			}
		}
	}
	return false
}

// tagValue is the tagging traversal: it rebuilds v as a plain tree the
// generic encoder understands, replacing every categorized value with a
// placeholder token and parking the original in the matching sink.
//
// The second result is false when the value must be omitted from its
// container (suppressed symbols); object walks drop the property, array
// walks substitute null.
func (c *runContext) tagValue(v any) (any, bool) {
	if v == nil {
		return nil, true
	}

	if obj, ok := v.(*Object); ok && obj != nil {
		return c.tagObject(obj), true
	}

	switch cat := Classify(v); cat {
	case CategoryNone:
		// fall through to the plain walk below
	case CategorySymbol:
		if !c.opts.IncludeSymbols {
			return nil, false
		}
		return c.sink(CategorySymbol, c.symbolKey(v.(*Symbol))), true
	case CategoryDate:
		return c.sink(CategoryDate, derefTime(v)), true
	case CategoryInfinity:
		if f, ok := v.(float32); ok {
			return c.sink(CategoryInfinity, float64(f)), true
		}
		return c.sink(CategoryInfinity, v), true
	default:
		return c.sink(cat, v), true
	}

	switch val := v.(type) {
	case map[string]any:
		return c.tagStringMap(val), true
	case []any:
		return c.tagSlice(val), true
	case *orderedmap.OrderedMap[any, any]:
		// non-empty instances were classified above; empty ones encode as {}
		return &objectNode{}, true
	case *linkedhashset.Set:
		return &objectNode{}, true
	case *SparseArray:
		// dense or empty: ordinary array walk in index order
		out := make([]any, 0, val.Len())
		for _, i := range val.Indices() {
			el, _ := val.Get(i)
			out = append(out, el)
		}
		return c.tagSlice(out), true
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return val, true
	}

	return c.tagReflect(v)
}

// tagObject walks an Object's property descriptors: enumerable filtering,
// accessor resolution, function stripping, then the ordinary tagging of each
// surviving value.
func (c *runContext) tagObject(o *Object) any {
	node := &objectNode{}
	for pair := o.props.Oldest(); pair != nil; pair = pair.Next() {
		key, p := pair.Key, pair.Value

		if p.Hidden && !c.opts.IncludeHidden {
			continue
		}

		if p.Get != nil {
			resolved, ok := resolveGetter(p.Get)
			if !ok {
				// classification and tagging never throw: a getter that
				// panics fails open to property omission
				continue
			}
			if !c.opts.IncludeGetters {
				if tagged, keep := c.tagValue(resolved); keep {
					node.add(key, tagged)
				}
				continue
			}
			source := ""
			if isSingleGetterSource(p.GetSource) {
				source = p.GetSource
			}
			node.add(key, c.sink(CategoryGetter, &getterEntry{key: key, source: source, resolved: resolved}))
			continue
		}

		if !c.opts.IncludeFunction {
			if _, isFn := p.Value.(*Function); isFn {
				continue
			}
		}
		if tagged, keep := c.tagValue(p.Value); keep {
			node.add(key, tagged)
		}
	}
	return node
}

func (c *runContext) tagStringMap(m map[string]any) any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := &objectNode{}
	for _, k := range keys {
		v := m[k]
		if !c.opts.IncludeFunction {
			if _, isFn := v.(*Function); isFn {
				continue
			}
		}
		if tagged, keep := c.tagValue(v); keep {
			node.add(k, tagged)
		}
	}
	return node
}

func (c *runContext) tagSlice(s []any) any {
	out := make([]any, len(s))
	for i, el := range s {
		if !c.opts.IncludeFunction {
			if _, isFn := el.(*Function); isFn {
				continue // leaves null
			}
		}
		tagged, keep := c.tagValue(el)
		if !keep {
			tagged = nil
		}
		out[i] = tagged
	}
	return out
}

// tagReflect extends the walk to other string-keyed maps and slices so
// special values nested in e.g. map[string]time.Time are still classified.
// Everything else is a leaf the generic encoder handles on its own.
func (c *runContext) tagReflect(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v, true
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return c.tagStringMap(m), true
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v, true // []byte stays base64, as encoding/json would
		}
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = rv.Index(i).Interface()
		}
		return c.tagSlice(s), true
	default:
		return v, true
	}
}

// symbolKey resolves the durable key a symbol is addressed by: its
// registered global key, else its description, else a generated name. The
// fresh global symbol itself is only created at evaluation time.
func (c *runContext) symbolKey(s *Symbol) string {
	if key, ok := s.GlobalKey(); ok && key != "" {
		return key
	}
	if s.Description() != "" {
		return s.Description()
	}
	return "symbol-" + strconv.Itoa(len(c.sinks[CategorySymbol]))
}

// derefTime normalizes time.Time and *time.Time to time.Time.
func derefTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		return *t
	}
	return time.Time{}
}

// resolveGetter calls an accessor, converting a panic into omission.
func resolveGetter(get func() any) (v any, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = nil, false
		}
	}()
	return get(), true
}
