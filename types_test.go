package serialize

import "testing"

func TestNormalizeRegExpFlags(t *testing.T) {
	tests := []struct {
		flags    string
		expected string
	}{
		{"", ""},
		{"gi", "gi"},
		{"ig", "ig"},
		{"ggg", "g"},
		{"gxqi", "gi"},
		{"dgimsuy", "dgimsuy"},
	}
	for _, tt := range tests {
		if got := normalizeRegExpFlags(tt.flags); got != tt.expected {
			t.Errorf("normalizeRegExpFlags(%q) = %q, want %q", tt.flags, got, tt.expected)
		}
	}
}

func TestRegExp_String(t *testing.T) {
	if got := NewRegExp("a+", "gg").String(); got != "/a+/g" {
		t.Errorf("String = %s", got)
	}
	if got := NewRegExp("", "g").String(); got != "/(?:)/g" {
		t.Errorf("empty source String = %s", got)
	}
}

func TestSymbol_Registry(t *testing.T) {
	a := SymbolFor("reg.key")
	b := SymbolFor("reg.key")
	if a != b {
		t.Error("SymbolFor must intern by key")
	}
	if key, ok := a.GlobalKey(); !ok || key != "reg.key" {
		t.Errorf("GlobalKey = %s, %v", key, ok)
	}

	c := NewSymbol("desc")
	d := NewSymbol("desc")
	if c == d {
		t.Error("NewSymbol must create distinct symbols")
	}
	if _, ok := c.GlobalKey(); ok {
		t.Error("fresh symbol must not report a global key")
	}
	if c.Description() != "desc" {
		t.Errorf("Description = %s", c.Description())
	}
}

func TestSparseArray(t *testing.T) {
	a := NewSparseArray(3)
	if a.Len() != 3 || !a.IsSparse() {
		t.Errorf("fresh array: len=%d sparse=%v", a.Len(), a.IsSparse())
	}

	a.Set(0, "x")
	a.Set(2, "y")
	if got := a.Indices(); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("Indices = %v", got)
	}
	if _, ok := a.Get(1); ok {
		t.Error("hole reported as defined")
	}

	// setting past the end grows the array
	a.Set(5, "z")
	if a.Len() != 6 {
		t.Errorf("Len after growth = %d", a.Len())
	}

	a.Set(1, 1).Set(3, 1).Set(4, 1)
	if a.IsSparse() {
		t.Error("fully defined array reported sparse")
	}

	if NewSparseArray(-2).Len() != 0 {
		t.Error("negative length not clamped")
	}
}

func TestObject(t *testing.T) {
	o := NewObject()
	o.Set("a", 1)
	o.SetHidden("b", 2)
	o.Getter("c", func() any { return 3 }, "")

	if o.Len() != 3 {
		t.Errorf("Len = %d", o.Len())
	}
	if v, ok := o.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if v, ok := o.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %v, %v", v, ok)
	}
	// Get resolves accessors
	if v, ok := o.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %v, %v", v, ok)
	}
	if _, ok := o.Get("missing"); ok {
		t.Error("missing key reported present")
	}

	// redefining replaces in place, order kept
	o.Set("a", 9)
	if v, _ := o.Get("a"); v != 9 {
		t.Errorf("redefined Get(a) = %v", v)
	}
	if o.Len() != 3 {
		t.Errorf("Len after redefine = %d", o.Len())
	}
}
