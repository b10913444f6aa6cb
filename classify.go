package serialize

import (
	"math"
	"math/big"
	"net/url"
	"time"

	"github.com/emirpasic/gods/sets/linkedhashset"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Category identifies the special value kinds that need literal
// reconstruction. Everything else passes through to plain JSON encoding.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryURL
	CategoryMap
	CategorySet
	CategoryDate
	CategoryArray // sparse arrays only; dense arrays are plain JSON
	CategoryBigInt
	CategorySymbol
	CategoryRegExp
	CategoryFunction
	CategoryGetter
	CategoryInfinity
	CategoryUndefined

	numCategories = int(CategoryUndefined) + 1
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryURL:
		return "url"
	case CategoryMap:
		return "map"
	case CategorySet:
		return "set"
	case CategoryDate:
		return "date"
	case CategoryArray:
		return "array"
	case CategoryBigInt:
		return "bigint"
	case CategorySymbol:
		return "symbol"
	case CategoryRegExp:
		return "regexp"
	case CategoryFunction:
		return "function"
	case CategoryGetter:
		return "getter"
	case CategoryInfinity:
		return "infinity"
	case CategoryUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// tag returns the single-letter code embedded in placeholder tokens.
func (c Category) tag() byte {
	switch c {
	case CategoryURL:
		return 'L'
	case CategoryMap:
		return 'M'
	case CategorySet:
		return 'S'
	case CategoryDate:
		return 'D'
	case CategoryArray:
		return 'A'
	case CategoryBigInt:
		return 'B'
	case CategorySymbol:
		return 'Y'
	case CategoryRegExp:
		return 'R'
	case CategoryFunction:
		return 'F'
	case CategoryGetter:
		return 'G'
	case CategoryInfinity:
		return 'I'
	case CategoryUndefined:
		return 'U'
	default:
		return 0
	}
}

// categoryForTag is the inverse of Category.tag. Unknown bytes map to
// CategoryNone.
func categoryForTag(b byte) Category {
	switch b {
	case 'L':
		return CategoryURL
	case 'M':
		return CategoryMap
	case 'S':
		return CategorySet
	case 'D':
		return CategoryDate
	case 'A':
		return CategoryArray
	case 'B':
		return CategoryBigInt
	case 'Y':
		return CategorySymbol
	case 'R':
		return CategoryRegExp
	case 'F':
		return CategoryFunction
	case 'G':
		return CategoryGetter
	case 'I':
		return CategoryInfinity
	case 'U':
		return CategoryUndefined
	default:
		return CategoryNone
	}
}

// Classify routes a value to its special category, or CategoryNone for
// anything plain JSON handles. It never panics; ambiguous or unrecognized
// values fall through to CategoryNone. nil is never classified.
//
// Empty maps and sets, and dense or empty arrays, are deliberately
// CategoryNone: they round-trip fine as ordinary JSON.
func Classify(v any) Category {
	switch val := v.(type) {
	case nil:
		return CategoryNone
	case *RegExp:
		if val != nil {
			return CategoryRegExp
		}
	case time.Time:
		return CategoryDate
	case *time.Time:
		if val != nil {
			return CategoryDate
		}
	case *orderedmap.OrderedMap[any, any]:
		if val != nil && val.Len() > 0 {
			return CategoryMap
		}
	case *linkedhashset.Set:
		if val != nil && val.Size() > 0 {
			return CategorySet
		}
	case *SparseArray:
		if val != nil && val.Len() > 0 && val.IsSparse() {
			return CategoryArray
		}
	case *url.URL:
		if val != nil {
			return CategoryURL
		}
	case *Function:
		if val != nil {
			return CategoryFunction
		}
	case UndefinedValue:
		return CategoryUndefined
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return CategoryInfinity
		}
	case float32:
		f := float64(val)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return CategoryInfinity
		}
	case *big.Int:
		if val != nil {
			return CategoryBigInt
		}
	case *Symbol:
		if val != nil {
			return CategorySymbol
		}
	}
	return CategoryNone
}
