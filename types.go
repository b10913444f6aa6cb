package serialize

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/emirpasic/gods/sets/linkedhashset"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// UndefinedValue is the absence-of-value marker. It is distinct from nil,
// which serializes as JSON null.
type UndefinedValue struct{}

// Undefined serializes as the literal `undefined`.
var Undefined = UndefinedValue{}

// String returns the literal form.
func (UndefinedValue) String() string { return "undefined" }

// ============================================================
// RegExp
// ============================================================

// RegExp is a regular expression as source text plus flags. The source is
// carried verbatim; flags are normalized to the canonical dgimsuy set at
// reconstruction time.
type RegExp struct {
	Source string
	Flags  string
}

// NewRegExp creates a regular expression value.
func NewRegExp(source, flags string) *RegExp {
	return &RegExp{Source: source, Flags: flags}
}

// String returns the literal form.
func (r *RegExp) String() string {
	src := r.Source
	if src == "" {
		src = "(?:)"
	}
	return "/" + src + "/" + normalizeRegExpFlags(r.Flags)
}

// normalizeRegExpFlags keeps only the canonical flag letters, each at most
// once, preserving first-seen order.
func normalizeRegExpFlags(flags string) string {
	var b strings.Builder
	for _, r := range flags {
		if !strings.ContainsRune("dgimsuy", r) {
			continue
		}
		if strings.ContainsRune(b.String(), r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ============================================================
// Symbol
// ============================================================

// Symbol is an interned symbolic token. Symbols created with SymbolFor live
// in a process-wide registry keyed by string; symbols created with NewSymbol
// carry only a description. Serialization addresses every symbol by a
// resolved string key (registered key, else description, else a generated
// name), so object identity does not survive a round trip.
type Symbol struct {
	description string
	key         string
	registered  bool
}

var (
	symbolRegistryMu sync.Mutex
	symbolRegistry   = map[string]*Symbol{}
)

// NewSymbol creates a fresh, unregistered symbol.
func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

// SymbolFor returns the process-wide symbol for key, creating it on first
// use.
func SymbolFor(key string) *Symbol {
	symbolRegistryMu.Lock()
	defer symbolRegistryMu.Unlock()
	if s, ok := symbolRegistry[key]; ok {
		return s
	}
	s := &Symbol{description: key, key: key, registered: true}
	symbolRegistry[key] = s
	return s
}

// Description returns the symbol's description text.
func (s *Symbol) Description() string { return s.description }

// GlobalKey returns the registered key, if the symbol came from SymbolFor.
func (s *Symbol) GlobalKey() (string, bool) { return s.key, s.registered }

// String returns the display form.
func (s *Symbol) String() string {
	return "Symbol(" + s.description + ")"
}

// ============================================================
// Function
// ============================================================

// Function carries the source text of a function. Only the text survives
// serialization: captured variables do not. Source containing a
// "[native code]" body is non-serializable.
type Function struct {
	source string
}

// Func creates a function value from source text.
func Func(source string) *Function {
	return &Function{source: source}
}

// Source returns the stored source text.
func (f *Function) Source() string { return f.source }

// String returns the stored source text.
func (f *Function) String() string { return f.source }

// ============================================================
// SparseArray
// ============================================================

// SparseArray is an array with an explicit length and possibly absent
// indices (holes). Dense instances serialize as plain JSON arrays; only
// sparse ones take the special reconstruction path, which preserves hole
// positions.
type SparseArray struct {
	length int
	elems  map[int]any
}

// NewSparseArray creates an array of the given length with every index
// absent.
func NewSparseArray(length int) *SparseArray {
	if length < 0 {
		length = 0
	}
	return &SparseArray{length: length, elems: map[int]any{}}
}

// Set defines the element at index i, growing the array if needed.
func (a *SparseArray) Set(i int, v any) *SparseArray {
	if i < 0 {
		return a
	}
	if i >= a.length {
		a.length = i + 1
	}
	a.elems[i] = v
	return a
}

// Get returns the element at index i and whether it is defined.
func (a *SparseArray) Get(i int) (any, bool) {
	v, ok := a.elems[i]
	return v, ok
}

// Len returns the array length, holes included.
func (a *SparseArray) Len() int { return a.length }

// IsSparse reports whether any index in [0, Len) is absent.
func (a *SparseArray) IsSparse() bool {
	return len(a.elems) < a.length
}

// Indices returns the defined indices in ascending order.
func (a *SparseArray) Indices() []int {
	idx := make([]int, 0, len(a.elems))
	for i := range a.elems {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// String returns a short display form.
func (a *SparseArray) String() string {
	return fmt.Sprintf("SparseArray(len=%d, defined=%d)", a.length, len(a.elems))
}

// ============================================================
// Object
// ============================================================

// Property is a property descriptor: either a data property (Value) or an
// accessor (Get, with optional source text). Hidden marks the property
// non-enumerable; hidden properties are skipped unless IncludeHidden is set.
type Property struct {
	Value     any
	Get       func() any
	GetSource string
	Hidden    bool
}

// Object is an insertion-ordered plain object whose properties carry full
// descriptors. Use it when accessor or non-enumerable properties matter;
// for plain data, map[string]any works just as well (keys sort like
// encoding/json).
type Object struct {
	props *orderedmap.OrderedMap[string, *Property]
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{props: orderedmap.New[string, *Property]()}
}

// Set defines an enumerable data property.
func (o *Object) Set(key string, value any) *Object {
	return o.Define(key, Property{Value: value})
}

// SetHidden defines a non-enumerable data property.
func (o *Object) SetHidden(key string, value any) *Object {
	return o.Define(key, Property{Value: value, Hidden: true})
}

// Getter defines an enumerable accessor property. source is the accessor's
// own source text (may be empty; the resolved value is used instead).
func (o *Object) Getter(key string, get func() any, source string) *Object {
	return o.Define(key, Property{Get: get, GetSource: source})
}

// Define sets a property with a full descriptor.
func (o *Object) Define(key string, p Property) *Object {
	prop := p
	o.props.Set(key, &prop)
	return o
}

// Get returns the resolved value of a property (calling the getter for
// accessors) and whether the property exists.
func (o *Object) Get(key string) (any, bool) {
	p, ok := o.props.Get(key)
	if !ok {
		return nil, false
	}
	if p.Get != nil {
		return p.Get(), true
	}
	return p.Value, true
}

// Len returns the number of properties, hidden ones included.
func (o *Object) Len() int { return o.props.Len() }

// ============================================================
// Container Constructors
// ============================================================

// NewMap creates an empty insertion-ordered map for use as a Map value.
func NewMap() *orderedmap.OrderedMap[any, any] {
	return orderedmap.New[any, any]()
}

// NewSet creates an insertion-ordered set for use as a Set value.
func NewSet(values ...any) *linkedhashset.Set {
	return linkedhashset.New(values...)
}
