package lang

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the tag of a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindCallable
	KindObject
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindCallable:
		return "callable"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is an immutable runtime value. The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
	fn   Function
	ns   Namespace
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number returns a number value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Boolean returns a boolean value.
func Boolean(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.num = 1
	}

	return v
}

// Callable returns a value wrapping fn. A nil fn yields null.
func Callable(fn Function) Value {
	if fn == nil {
		return Null()
	}

	return Value{kind: KindCallable, fn: fn}
}

// Object returns a value wrapping the namespace ns. A nil ns yields null.
func Object(ns Namespace) Value {
	if ns == nil {
		return Null()
	}

	return Value{kind: KindObject, ns: ns}
}

// ValueOf converts a host value. Supported inputs are nil, [Value], bool,
// string, the built-in integer and floating-point types, [Function],
// [Namespace], map[string]any and map[string]Value (as objects).
// Anything else converts to null.
func ValueOf(x any) Value {
	switch x := x.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Boolean(x)
	case string:
		return String(x)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int8:
		return Number(float64(x))
	case int16:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case Function:
		return Callable(x)
	case func(*Evaluator, []Argument) (Value, error):
		return Callable(FunctionFunc(x))
	case Namespace:
		return Object(x)
	case map[string]Value:
		return Object(Members(x))
	case map[string]any:
		m := make(Members, len(x))
		for k, v := range x {
			m[k] = ValueOf(v)
		}

		return Object(m)
	}

	return Null()
}

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Function returns the wrapped function of a callable value.
func (v Value) Function() (Function, bool) { return v.fn, v.kind == KindCallable }

// Namespace returns the wrapped namespace of an object value.
func (v Value) Namespace() (Namespace, bool) { return v.ns, v.kind == KindObject }

// AsDouble converts v to a number.
//
// Booleans are 1 or 0. Strings are parsed as decimal floating-point text and
// yield 0 when they do not parse to a finite number. Every other kind is 0.
func (v Value) AsDouble() float64 {
	switch v.kind {
	case KindNumber, KindBoolean:
		return v.num
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0
		}

		return n
	}

	return 0
}

// AsBoolean converts v to a boolean: a boolean is itself, anything else is
// true exactly when [Value.AsDouble] is non-zero.
func (v Value) AsBoolean() bool {
	if v.kind == KindBoolean {
		return v.num != 0
	}

	return v.AsDouble() != 0
}

// AsString converts v to a string. Numbers use the shortest decimal form
// that round-trips ("76", "0.5"), booleans are "true" or "false", and null,
// callables and objects are empty.
func (v Value) AsString() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindBoolean:
		return strconv.FormatBool(v.num != 0)
	case KindString:
		return v.str
	}

	return ""
}

// Any converts v to a host value: float64, string, bool, [Function],
// [Namespace], or nil for null.
func (v Value) Any() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBoolean:
		return v.num != 0
	case KindCallable:
		return v.fn
	case KindObject:
		return v.ns
	}

	return nil
}

// String renders v for display. Unlike [Value.AsString], strings are quoted
// and null, callables and objects are named.
func (v Value) String() string {
	switch v.kind {
	case KindNumber, KindBoolean:
		return v.AsString()
	case KindString:
		return strconv.Quote(v.str)
	case KindCallable:
		return "<callable>"
	case KindObject:
		return "<object>"
	}

	return "null"
}

// Equal reports whether two values compare equal under the == operator:
// strings compare as text when both sides are strings, everything else
// compares numerically.
func (v Value) Equal(w Value) bool {
	if v.kind == KindString && w.kind == KindString {
		return v.str == w.str
	}

	return v.AsDouble() == w.AsDouble()
}
