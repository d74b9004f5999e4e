package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the value types an episode record cell can hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
)

// Value is a tagged scalar: Null, Bool, Number or String. Episode records are
// flat maps of dotted column names to Values; a missing cell reads as Null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
}

func Null() Value         { return Value{kind: KindNull} }
func Bool(b bool) Value   { return Value{kind: KindBool, b: b} }
func Num(n float64) Value { return Value{kind: KindNumber, n: n} }
func Str(s string) Value  { return Value{kind: KindString, s: s} }

// FromJSON converts a decoded JSON value into a Value. Unknown types fall
// back to their string rendering.
func FromJSON(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case float64:
		return Num(x)
	case int:
		return Num(float64(x))
	case int64:
		return Num(float64(x))
	case string:
		return Str(x)
	default:
		return Str(fmt.Sprint(x))
	}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric value and whether the Value is a defined number.
// A NaN number counts as undefined.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber || math.IsNaN(v.n) {
		return math.NaN(), false
	}
	return v.n, true
}

// Bool returns the boolean value and whether the Value is a Bool.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Text returns the string payload of a String value.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// String renders the value for display. Nulls render as "None", the same
// marker index coercion uses, so a coerced key and a displayed null agree.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "None"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		if math.IsNaN(v.n) {
			return "nan"
		}
		return strconv.FormatFloat(v.n, 'g', -1, 64)
	default:
		return v.s
	}
}

// Equal reports whether two values are identical. Two NaN numbers are equal
// so that column classification counts them as one distinct value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if math.IsNaN(v.n) && math.IsNaN(o.n) {
			return true
		}
		return v.n == o.n
	default:
		return v.s == o.s
	}
}

// Compare orders values for key sorting: Null < Bool < Number < String, then
// by value within a kind (false < true, numeric order, lexicographic).
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		if v.kind < o.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		switch {
		case v.b == o.b:
			return 0
		case !v.b:
			return -1
		default:
			return 1
		}
	case KindNumber:
		a, b := v.n, o.n
		switch {
		case math.IsNaN(a) && math.IsNaN(b):
			return 0
		case math.IsNaN(a):
			return -1
		case math.IsNaN(b):
			return 1
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	default:
		return strings.Compare(v.s, o.s)
	}
}

// CompareKeys orders two key tuples lexicographically. Shorter tuples sort
// before longer ones with an equal prefix.
func CompareKeys(a, b []Value) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// KeysEqual reports whether two key tuples are identical.
func KeysEqual(a, b []Value) bool {
	return CompareKeys(a, b) == 0
}
