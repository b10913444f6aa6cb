package serialize

import (
	"math"
	"math/big"
	"net/url"
	"testing"
	"time"
)

func TestClassify_Categories(t *testing.T) {
	u, _ := url.Parse("https://example.com/a")
	now := time.Now()

	tests := []struct {
		name     string
		value    any
		expected Category
	}{
		{"nil", nil, CategoryNone},
		{"bool", true, CategoryNone},
		{"string", "hi", CategoryNone},
		{"int", 42, CategoryNone},
		{"finite float", 1.5, CategoryNone},
		{"plain map", map[string]any{"a": 1}, CategoryNone},
		{"plain slice", []any{1, 2}, CategoryNone},

		{"time", now, CategoryDate},
		{"time pointer", &now, CategoryDate},
		{"regexp", NewRegExp("a+", "g"), CategoryRegExp},
		{"url", u, CategoryURL},
		{"bigint", big.NewInt(10), CategoryBigInt},
		{"symbol", NewSymbol("s"), CategorySymbol},
		{"function", Func("() => 1"), CategoryFunction},
		{"undefined", Undefined, CategoryUndefined},
		{"positive infinity", math.Inf(1), CategoryInfinity},
		{"negative infinity", math.Inf(-1), CategoryInfinity},
		{"nan", math.NaN(), CategoryInfinity},
		{"float32 infinity", float32(math.Inf(1)), CategoryInfinity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value); got != tt.expected {
				t.Errorf("Classify(%v) = %s, want %s", tt.value, got, tt.expected)
			}
		})
	}
}

func TestClassify_NonEmptyRule(t *testing.T) {
	emptyMap := NewMap()
	fullMap := NewMap()
	fullMap.Set("a", 1)

	if got := Classify(emptyMap); got != CategoryNone {
		t.Errorf("empty map classified as %s, want none", got)
	}
	if got := Classify(fullMap); got != CategoryMap {
		t.Errorf("non-empty map classified as %s, want map", got)
	}

	if got := Classify(NewSet()); got != CategoryNone {
		t.Errorf("empty set classified as %s, want none", got)
	}
	if got := Classify(NewSet(1)); got != CategorySet {
		t.Errorf("non-empty set classified as %s, want set", got)
	}
}

func TestClassify_SparseOnlyArrays(t *testing.T) {
	dense := NewSparseArray(2)
	dense.Set(0, "a")
	dense.Set(1, "b")
	if got := Classify(dense); got != CategoryNone {
		t.Errorf("dense array classified as %s, want none", got)
	}

	sparse := NewSparseArray(3)
	sparse.Set(0, 1)
	sparse.Set(2, 3)
	if got := Classify(sparse); got != CategoryArray {
		t.Errorf("sparse array classified as %s, want array", got)
	}

	if got := Classify(NewSparseArray(0)); got != CategoryNone {
		t.Errorf("empty array classified as %s, want none", got)
	}
}

func TestCategory_TagRoundTrip(t *testing.T) {
	for c := CategoryURL; c <= CategoryUndefined; c++ {
		tag := c.tag()
		if tag == 0 {
			t.Fatalf("category %s has no tag", c)
		}
		if got := categoryForTag(tag); got != c {
			t.Errorf("categoryForTag(%c) = %s, want %s", tag, got, c)
		}
	}
	if got := categoryForTag('Z'); got != CategoryNone {
		t.Errorf("categoryForTag('Z') = %s, want none", got)
	}
}
