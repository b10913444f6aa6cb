package serialize

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/dop251/goja"
)

// urlShim stands in for the WHATWG URL constructor, which the bare runtime
// does not ship.
const urlShim = `function URL(href) { this.href = String(href); }`

// assertJS evaluates the serialized text as `v` in a fresh runtime and
// checks the given predicate against it.
func assertJS(t *testing.T, src, predicate string) {
	t.Helper()
	vm := goja.New()
	if _, err := vm.RunString(urlShim); err != nil {
		t.Fatalf("shim failed: %v", err)
	}
	if _, err := vm.RunString("var v = (" + src + ");"); err != nil {
		t.Fatalf("serialized text does not evaluate: %v\n%s", err, src)
	}
	res, err := vm.RunString(predicate)
	if err != nil {
		t.Fatalf("predicate failed: %v", err)
	}
	if !res.ToBoolean() {
		t.Errorf("predicate %s is false for:\n%s", predicate, src)
	}
}

func TestEval_Date(t *testing.T) {
	when := time.Date(2024, 1, 2, 3, 4, 5, 6e6, time.UTC)
	src := mustSerialize(t, when)
	assertJS(t, src, fmt.Sprintf("v instanceof Date && v.getTime() === %d", when.UnixMilli()))
}

func TestEval_MapPreservesOrder(t *testing.T) {
	m := NewMap()
	m.Set("b", 2)
	m.Set("a", 1)
	src := mustSerialize(t, m)
	assertJS(t, src, `v instanceof Map && v.get("b") === 2 && Array.from(v.keys()).join(",") === "b,a"`)
}

func TestEval_SetSorted(t *testing.T) {
	opts := DefaultOptions()
	opts.Sorted = true
	src := mustSerialize(t, NewSet(10, 2, 1), opts)
	assertJS(t, src, `v instanceof Set && Array.from(v).join(",") === "1,2,10"`)
}

func TestEval_SparseArrayKeepsLength(t *testing.T) {
	sparse := NewSparseArray(3)
	sparse.Set(0, 1)
	sparse.Set(2, 3)

	// Array.from fills the gap with an undefined-valued entry
	src := mustSerialize(t, sparse)
	assertJS(t, src, `Array.isArray(v) && v.length === 3 && v[0] === 1 && (1 in v) && v[1] === undefined && v[2] === 3`)

	// slice.call keeps it a true hole
	opts := DefaultOptions()
	opts.ArrayFrom = false
	src = mustSerialize(t, sparse, opts)
	assertJS(t, src, `Array.isArray(v) && v.length === 3 && v[0] === 1 && !(1 in v) && v[2] === 3`)
}

func TestEval_RegExp(t *testing.T) {
	src := mustSerialize(t, NewRegExp("a+", "gi"))
	assertJS(t, src, `v instanceof RegExp && v.source === "a+" && v.flags === "gi" && v.test("AAA")`)

	opts := DefaultOptions()
	opts.LiteralRegExp = true
	src = mustSerialize(t, NewRegExp("a+", "gi"), opts)
	assertJS(t, src, `v instanceof RegExp && v.flags === "gi"`)
}

func TestEval_SymbolIdentity(t *testing.T) {
	src := mustSerialize(t, SymbolFor("app.token"))
	assertJS(t, src, `typeof v === "symbol" && v === Symbol.for("app.token")`)
}

func TestEval_FunctionRuns(t *testing.T) {
	src := mustSerialize(t, map[string]any{"add": Func("(a, b) => a + b")})
	assertJS(t, src, `v.add(2, 3) === 5`)

	src = mustSerialize(t, map[string]any{"add": Func("add(a, b) { return a + b }")})
	assertJS(t, src, `v.add(2, 3) === 5`)
}

func TestEval_NonFinite(t *testing.T) {
	src := mustSerialize(t, []any{posInf(), -posInf(), nan()})
	assertJS(t, src, `v[0] === Infinity && v[1] === -Infinity && Number.isNaN(v[2])`)
}

func TestEval_Undefined(t *testing.T) {
	src := mustSerialize(t, Undefined)
	assertJS(t, src, `v === undefined`)
}

func TestEval_URL(t *testing.T) {
	src := mustSerialize(t, map[string]any{"home": mustURL(t, "https://example.com/")})
	assertJS(t, src, `v.home instanceof URL && v.home.href === "https://example.com/"`)
}

func TestEval_Getter(t *testing.T) {
	o := NewObject()
	o.Getter("name", func() any { return "Bob" }, `get name() { return "Bob" }`)

	opts := DefaultOptions()
	opts.IncludeGetters = true
	src := mustSerialize(t, o, opts)
	assertJS(t, src, `v.name === "Bob"`)
}

func TestEval_EscapedTextStillEvaluates(t *testing.T) {
	src := mustSerialize(t, map[string]any{"x": "</script>", "y": "line\u2028sep"})
	assertJS(t, src, `v.x === "</script>" && v.y.charCodeAt(4) === 8232`)
}

func TestEval_PrettyOutputEvaluates(t *testing.T) {
	m := NewMap()
	m.Set("k", []any{1, Undefined})
	src := mustSerialize(t, map[string]any{"m": m, "f": Func("(x) => x * 2")}, 2)
	assertJS(t, src, `v.m.get("k")[1] === undefined && v.f(4) === 8`)
}

func TestDeserialize(t *testing.T) {
	v, err := Deserialize(`{"a": 1, "b": [true, "x"]}`)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("Deserialize returned %T", v)
	}
	if m["a"] != int64(1) {
		t.Errorf("a = %v", m["a"])
	}
	b := m["b"].([]any)
	if b[0] != true || b[1] != "x" {
		t.Errorf("b = %v", b)
	}
}

func TestDeserialize_RoundTrip(t *testing.T) {
	src := mustSerialize(t, map[string]any{"n": 7, "s": "hi"})
	v, err := Deserialize(src)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	m := v.(map[string]any)
	if m["n"] != int64(7) || m["s"] != "hi" {
		t.Errorf("round trip = %v", m)
	}
}

func TestDeserialize_Invalid(t *testing.T) {
	if _, err := Deserialize("{"); err == nil {
		t.Error("expected error for invalid source")
	}
}

func nan() float64 {
	return posInf() - posInf()
}

func mustURL(t *testing.T, raw string) any {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %s: %v", raw, err)
	}
	return u
}
