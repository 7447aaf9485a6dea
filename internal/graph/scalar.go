package graph

import (
	"fmt"
	"strconv"
)

// ScalarKind tags which alternative a Scalar currently holds.
//
// Exactly one of KindString, KindInt, KindFloat, or KindBool is active at
// a time; Scalar carries all four fields unconditionally so the type
// stays comparable with ==, and Kind is the only field callers should
// switch on to decide which of the others is meaningful.
type ScalarKind uint8

const (
	// KindString holds arbitrary UTF-8 text.
	KindString ScalarKind = iota
	// KindInt holds a signed 64-bit integer.
	KindInt
	// KindFloat holds a 64-bit float.
	KindFloat
	// KindBool holds a boolean.
	KindBool
)

// Scalar is the tagged variant used everywhere a property key, property
// value, or label name flows through the engine: exactly one of the four
// alternatives below is meaningful, selected by Kind. It is the single
// entry/exit point the codec serializes and the comparator logic reads,
// per the specification's REDESIGN FLAGS call for a variant scalar type.
//
// Construction:
//   - Use String, Int, Float, or Bool to build one directly.
//   - Use Promote to reconstruct one from a Dynamic-store string, which
//     picks the narrowest matching kind rather than always yielding a
//     string.
//
// Thread Safety:
// Scalar is an immutable value type (every field is a plain scalar, no
// pointers or slices); copies never alias, so passing one by value across
// goroutines is always safe.
type Scalar struct {
	Kind ScalarKind
	Str  string
	Int  int64
	Flt  float64
	Bool bool
}

// String constructs a string-valued Scalar.
//
// Parameters:
//   - s: the text to wrap.
//
// Returns:
//   - a Scalar with Kind == KindString and Str == s.
//
// Example:
//
//	key := graph.String("name")
func String(s string) Scalar { return Scalar{Kind: KindString, Str: s} }

// Int constructs an integer-valued Scalar.
//
// Parameters:
//   - i: the value to wrap.
//
// Returns:
//   - a Scalar with Kind == KindInt and Int == i.
func Int(i int64) Scalar { return Scalar{Kind: KindInt, Int: i} }

// Float constructs a float-valued Scalar.
//
// Parameters:
//   - f: the value to wrap.
//
// Returns:
//   - a Scalar with Kind == KindFloat and Flt == f.
func Float(f float64) Scalar { return Scalar{Kind: KindFloat, Flt: f} }

// Bool constructs a boolean-valued Scalar.
//
// Parameters:
//   - b: the value to wrap.
//
// Returns:
//   - a Scalar with Kind == KindBool and Bool == b.
func Bool(b bool) Scalar { return Scalar{Kind: KindBool, Bool: b} }

// Stringify renders the scalar as the UTF-8 text the Dynamic store
// persists, the inverse of Promote. Booleans render as the "True"/"False"
// literals the decode side promotes back from.
//
// Returns:
//   - the scalar's text representation, suitable for writing to a
//     Dynamic chain or for display.
//
// Thread Safety:
// Stateless and safe for concurrent use; it only reads the receiver.
//
// Example:
//
//	graph.Int(42).Stringify()     // "42"
//	graph.Bool(true).Stringify()  // "True"
func (s Scalar) Stringify() string {
	switch s.Kind {
	case KindBool:
		if s.Bool {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(s.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(s.Flt, 'g', -1, 64)
	default:
		return s.Str
	}
}

// Promote parses text reassembled from a Dynamic chain and promotes it to
// the narrowest supported scalar type in the specification's fixed order:
// bool literal ("True"/"False") first, then integer, then float, else the
// original string.
//
// Parameters:
//   - s: the raw text read back from a Dynamic payload chain.
//
// Returns:
//   - the narrowest Scalar kind that parses s without loss; falls back to
//     KindString when nothing else matches.
//
// Example:
//
//	graph.Promote("42")    // graph.Int(42)
//	graph.Promote("True")  // graph.Bool(true)
//	graph.Promote("hello") // graph.String("hello")
func Promote(s string) Scalar {
	switch s {
	case "True":
		return Bool(true)
	case "False":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return String(s)
}

// Equal reports whether two scalars carry the same kind and value. Used
// by the equality ("=") comparator and by the exact-match properties
// index, which keys on Scalar values directly (Scalar is comparable with
// ==, since every field is a plain value type).
//
// Parameters:
//   - other: the scalar to compare against.
//
// Returns:
//   - true only if Kind and every field match exactly; a KindInt(1) and a
//     KindFloat(1) are not equal.
func (s Scalar) Equal(other Scalar) bool {
	return s == other
}

// AsFloat64 returns the scalar's numeric value and true if it is
// numeric (KindInt or KindFloat), used by the range comparators
// ("<", ">", "<=", ">=") to promote both sides before comparing.
//
// Returns:
//   - the value as a float64 and true for KindInt/KindFloat;
//   - 0 and false for KindString/KindBool.
func (s Scalar) AsFloat64() (float64, bool) {
	switch s.Kind {
	case KindInt:
		return float64(s.Int), true
	case KindFloat:
		return s.Flt, true
	default:
		return 0, false
	}
}

// GoString renders the scalar for debugging (go-spew and %#v paths).
//
// Returns:
//   - a Go-expression-shaped string such as `graph.Int(42)`, matching the
//     constructor that would reproduce the value.
func (s Scalar) GoString() string {
	switch s.Kind {
	case KindString:
		return fmt.Sprintf("graph.String(%q)", s.Str)
	case KindInt:
		return fmt.Sprintf("graph.Int(%d)", s.Int)
	case KindFloat:
		return fmt.Sprintf("graph.Float(%v)", s.Flt)
	case KindBool:
		return fmt.Sprintf("graph.Bool(%v)", s.Bool)
	default:
		return "graph.Scalar{}"
	}
}
