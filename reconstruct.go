package serialize

import (
	"fmt"
	"math"
	"math/big"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/maruel/natural"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// isoMillis is the Date.prototype.toISOString layout (UTC, milliseconds).
const isoMillis = "2006-01-02T15:04:05.000Z"

// reconstruct scans the escaped text for this run's placeholder tokens and
// replaces each quoted token (quotes included) with literal source text. A
// token preceded by an unescaped backslash is user string content that
// happens to match the pattern and is left alone.
func (c *runContext) reconstruct(text string) (string, error) {
	pattern := regexp.MustCompile(`(\\)?"@__([A-Z])-` + c.runID + `-(\d+)__@"`)
	matches := pattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if m[2] >= 0 {
			// escaped: literal user content
			b.WriteString(text[last:end])
			last = end
			continue
		}
		cat := categoryForTag(text[m[4]])
		idx, err := strconv.Atoi(text[m[6]:m[7]])
		if err != nil || cat == CategoryNone || idx >= len(c.sinks[cat]) {
			b.WriteString(text[last:end])
			last = end
			continue
		}

		repl, wholeProperty, err := c.reconstructValue(cat, idx)
		if err != nil {
			return "", err
		}

		from := start
		if wholeProperty {
			if ks := keyPrefixStart(text, start); ks >= 0 {
				from = ks
			}
		}
		b.WriteString(text[last:from])
		b.WriteString(reindent(repl, lineIndent(text, from)))
		last = end
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// reconstructValue produces the literal source replacement for one sink
// entry. wholeProperty is true when the replacement is a full property
// (getter syntax) and must also consume the synthesized "key": prefix the
// key/value encoding produced.
func (c *runContext) reconstructValue(cat Category, idx int) (repl string, wholeProperty bool, err error) {
	v := c.sinks[cat][idx]

	switch cat {
	case CategoryDate:
		t := v.(time.Time)
		return `new Date("` + t.UTC().Format(isoMillis) + `")`, false, nil

	case CategoryRegExp:
		re := v.(*RegExp)
		flags := normalizeRegExpFlags(re.Flags)
		if c.opts.LiteralRegExp {
			src := re.Source
			if src == "" {
				src = "(?:)"
			}
			return "/" + src + "/" + flags, false, nil
		}
		quoted, err := c.quote(re.Source)
		if err != nil {
			return "", false, err
		}
		return "new RegExp(" + quoted + `, "` + flags + `")`, false, nil

	case CategoryMap:
		pairs := mapPairs(v.(*orderedmap.OrderedMap[any, any]))
		c.sortPairs(pairs)
		nested, err := c.nested(pairs)
		if err != nil {
			return "", false, err
		}
		return "new Map(" + nested + ")", false, nil

	case CategorySet:
		values := setValues(v.(*linkedhashset.Set))
		c.sortValues(values)
		nested, err := c.nested(values)
		if err != nil {
			return "", false, err
		}
		return "new Set(" + nested + ")", false, nil

	case CategoryArray:
		arr := v.(*SparseArray)
		nested, err := c.nested(arrayLike(arr))
		if err != nil {
			return "", false, err
		}
		if c.opts.ArrayFrom {
			return "Array.from(" + nested + ")", false, nil
		}
		return "Array.prototype.slice.call(" + nested + ")", false, nil

	case CategoryUndefined:
		return "undefined", false, nil

	case CategoryInfinity:
		f := v.(float64)
		switch {
		case math.IsNaN(f):
			return "NaN", false, nil
		case math.IsInf(f, -1):
			return "-Infinity", false, nil
		default:
			return "Infinity", false, nil
		}

	case CategoryBigInt:
		n := v.(*big.Int)
		if c.opts.LiteralBigInt {
			return n.String() + "n", false, nil
		}
		return `BigInt("` + n.String() + `")`, false, nil

	case CategoryURL:
		u := v.(*url.URL)
		quoted, err := c.quote(u.String())
		if err != nil {
			return "", false, err
		}
		return "new URL(" + quoted + ")", false, nil

	case CategorySymbol:
		quoted, err := c.quote(v.(string))
		if err != nil {
			return "", false, err
		}
		return "Symbol.for(" + quoted + ")", false, nil

	case CategoryFunction:
		fn := v.(*Function)
		src, err := normalizeFunctionSource(fn.Source(), c.pretty())
		if err != nil {
			if c.opts.Silent {
				return "undefined", false, nil
			}
			return "", false, err
		}
		return src, false, nil

	case CategoryGetter:
		g := v.(*getterEntry)
		if c.opts.IncludeGetters && g.source != "" {
			return g.source, true, nil
		}
		nested, err := c.nested(g.resolved)
		if err != nil {
			return "", false, err
		}
		return nested, false, nil
	}

	return "", false, fmt.Errorf("serialize: unknown sink category %s", cat)
}

// nested runs the whole pipeline again for container contents, with an
// independent context (fresh sinks, fresh run ID). The unsafe escaper
// already ran on the surrounding text, strictly before reconstruction; it
// must not run a second time over reconstructed literal text.
func (c *runContext) nested(v any) (string, error) {
	opts := c.opts
	opts.Unsafe = true
	return serializeWith(v, opts)
}

// quote reconstructs a string value as a quoted literal by sending it
// through the pipeline like any other nested value.
func (c *runContext) quote(s string) (string, error) {
	return c.nested(s)
}

// ============================================================
// Container Flattening
// ============================================================

func mapPairs(m *orderedmap.OrderedMap[any, any]) []any {
	pairs := make([]any, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		pairs = append(pairs, []any{pair.Key, pair.Value})
	}
	return pairs
}

func setValues(s *linkedhashset.Set) []any {
	values := make([]any, 0, s.Size())
	values = append(values, s.Values()...)
	return values
}

// arrayLike builds the {index: element, length: n} object whose explicit
// length preserves holes past the last defined index.
func arrayLike(arr *SparseArray) *Object {
	obj := NewObject()
	for _, i := range arr.Indices() {
		el, _ := arr.Get(i)
		obj.Set(strconv.Itoa(i), el)
	}
	obj.Set("length", arr.Len())
	return obj
}

// ============================================================
// Sort Policy
// ============================================================

// sortEnabled reports whether container entries get reordered: an explicit
// comparator always wins, else Sorted turns on the default ordering.
func (c *runContext) sortEnabled() bool {
	return c.opts.SortCompareFn != nil || c.opts.Sorted
}

func (c *runContext) compare(a, b any) int {
	if c.opts.SortCompareFn != nil {
		return c.opts.SortCompareFn(a, b)
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	if as == bs {
		return 0
	}
	if natural.Less(as, bs) {
		return -1
	}
	return 1
}

// sortPairs orders Map [key, value] pairs by key.
func (c *runContext) sortPairs(pairs []any) {
	if !c.sortEnabled() {
		return
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return c.compare(pairs[i].([]any)[0], pairs[j].([]any)[0]) < 0
	})
}

// sortValues orders Set values.
func (c *runContext) sortValues(values []any) {
	if !c.sortEnabled() {
		return
	}
	sort.SliceStable(values, func(i, j int) bool {
		return c.compare(values[i], values[j]) < 0
	})
}

// ============================================================
// Text Fixups
// ============================================================

// keyPrefixStart finds the start of the `"key":` token immediately before a
// whole-property replacement, or -1 when the text does not look like a
// property position.
func keyPrefixStart(text string, pos int) int {
	i := pos - 1
	for i >= 0 && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n') {
		i--
	}
	if i < 0 || text[i] != ':' {
		return -1
	}
	i--
	for i >= 0 && (text[i] == ' ' || text[i] == '\t') {
		i--
	}
	if i < 0 || text[i] != '"' {
		return -1
	}
	for j := i - 1; j >= 0; j-- {
		if text[j] != '"' {
			continue
		}
		backslashes := 0
		for k := j - 1; k >= 0 && text[k] == '\\'; k-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return j
		}
	}
	return -1
}

// lineIndent returns the leading whitespace of the line containing pos.
func lineIndent(text string, pos int) string {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	i := start
	for i < pos && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	return text[start:i]
}

// reindent shifts a multi-line nested reconstruction to the embedding
// depth by prefixing every continuation line with the token's line indent.
func reindent(repl, indent string) string {
	if indent == "" || !strings.Contains(repl, "\n") {
		return repl
	}
	return strings.ReplaceAll(repl, "\n", "\n"+indent)
}
