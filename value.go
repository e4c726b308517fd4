package tally

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind int8

const (
	KindNothing Kind = iota
	KindInt
	KindFloat
	KindString
	KindTuple
)

var kindNames = [...]string{"Nothing", "integer", "float", "string", "tuple"}

func (k Kind) String() string {
	if 0 <= int(k) && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a runtime value of the formula language: Int, Float, String,
// Tuple, or the Nothing sentinel. The set of variants is closed.
type Value interface {
	Kind() Kind
	// String formats the value the way a program would print it.
	String() string
	// Truthy reports whether the value counts as true. Nothing, zero
	// numbers, and empty strings and tuples are false.
	Truthy() bool
}

// Int is a 64-bit signed integer value.
type Int int64

func (Int) Kind() Kind { return KindInt }

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

func (i Int) Truthy() bool { return i != 0 }

// Float is an IEEE double value.
type Float float64

func (Float) Kind() Kind { return KindFloat }

func (f Float) String() string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, +1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		// Keep floats visibly distinct from integers in program output.
		s += ".0"
	}
	return s
}

func (f Float) Truthy() bool { return f != 0 }

// String is a text value.
type String string

func (String) Kind() Kind { return KindString }

func (s String) String() string { return `"` + escape(string(s)) + `"` }

func (s String) Truthy() bool { return s != "" }

func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tuple is an ordered, fixed-length sequence of values. Tuples are never
// mutated after construction.
type Tuple []Value

func (Tuple) Kind() Kind { return KindTuple }

func (t Tuple) String() string {
	if len(t) == 1 {
		return "(" + t[0].String() + ",)"
	}
	s := make([]string, len(t))
	for i, v := range t {
		s[i] = v.String()
	}
	return "(" + strings.Join(s, ", ") + ")"
}

func (t Tuple) Truthy() bool { return len(t) > 0 }

// NothingType is the type of the Nothing sentinel. All values of this type
// are the one Nothing; compare by Kind, never by constructing another.
type NothingType struct{}

// Nothing is the language's "no value" sentinel. It absorbs arithmetic,
// unary sign, and conversions, is falsy, and is equal only to itself.
var Nothing NothingType

func (NothingType) Kind() Kind { return KindNothing }

func (NothingType) String() string { return "Nothing" }

func (NothingType) Truthy() bool { return false }

// numeric returns the float64 reading of an Int or Float.
func numeric(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		return float64(v), true
	case Float:
		return float64(v), true
	}
	return 0, false
}

func isNothing(v Value) bool { return v.Kind() == KindNothing }

// bothInt returns the operands as int64 when both are Int.
func bothInt(l, r Value) (int64, int64, bool) {
	a, ok := l.(Int)
	if !ok {
		return 0, 0, false
	}
	b, ok := r.(Int)
	if !ok {
		return 0, 0, false
	}
	return int64(a), int64(b), true
}

// Add applies the + operator. Numbers add with float contagion; strings and
// tuples concatenate; Nothing absorbs.
func Add(l, r Value) (Value, error) {
	if isNothing(l) || isNothing(r) {
		return Nothing, nil
	}
	if a, b, ok := bothInt(l, r); ok {
		return Int(a + b), nil
	}
	if a, ok := numeric(l); ok {
		if b, ok := numeric(r); ok {
			return Float(a + b), nil
		}
	}
	if a, ok := l.(String); ok {
		if b, ok := r.(String); ok {
			return a + b, nil
		}
	}
	if a, ok := l.(Tuple); ok {
		if b, ok := r.(Tuple); ok {
			t := make(Tuple, 0, len(a)+len(b))
			t = append(t, a...)
			t = append(t, b...)
			return t, nil
		}
	}
	return nil, &OpError{Op: "+", Left: l.Kind(), Right: r.Kind()}
}

// Sub applies the - operator on numbers; Nothing absorbs.
func Sub(l, r Value) (Value, error) {
	if isNothing(l) || isNothing(r) {
		return Nothing, nil
	}
	if a, b, ok := bothInt(l, r); ok {
		return Int(a - b), nil
	}
	if a, ok := numeric(l); ok {
		if b, ok := numeric(r); ok {
			return Float(a - b), nil
		}
	}
	return nil, &OpError{Op: "-", Left: l.Kind(), Right: r.Kind()}
}

// Mul applies the * operator. Numbers multiply with float contagion; a
// string or tuple times an integer repeats (non-positive counts yield
// empty); Nothing absorbs.
func Mul(l, r Value) (Value, error) {
	if isNothing(l) || isNothing(r) {
		return Nothing, nil
	}
	if a, b, ok := bothInt(l, r); ok {
		return Int(a * b), nil
	}
	if a, ok := numeric(l); ok {
		if b, ok := numeric(r); ok {
			return Float(a * b), nil
		}
	}
	if n, ok := r.(Int); ok {
		if s, ok := l.(String); ok {
			return repeatString(s, n), nil
		}
		if t, ok := l.(Tuple); ok {
			return repeatTuple(t, n), nil
		}
	}
	if n, ok := l.(Int); ok {
		if s, ok := r.(String); ok {
			return repeatString(s, n), nil
		}
		if t, ok := r.(Tuple); ok {
			return repeatTuple(t, n), nil
		}
	}
	return nil, &OpError{Op: "*", Left: l.Kind(), Right: r.Kind()}
}

func repeatString(s String, n Int) String {
	if n <= 0 {
		return ""
	}
	return String(strings.Repeat(string(s), int(n)))
}

func repeatTuple(t Tuple, n Int) Tuple {
	if n <= 0 {
		return Tuple{}
	}
	r := make(Tuple, 0, len(t)*int(n))
	for i := Int(0); i < n; i++ {
		r = append(r, t...)
	}
	return r
}

// Div applies true division. The result is always a Float. Dividing by a
// numeric zero is a fatal fault; Nothing absorbs before the zero check.
func Div(l, r Value) (Value, error) {
	if isNothing(l) || isNothing(r) {
		return Nothing, nil
	}
	a, ok := numeric(l)
	if !ok {
		return nil, &OpError{Op: "/", Left: l.Kind(), Right: r.Kind()}
	}
	b, ok := numeric(r)
	if !ok {
		return nil, &OpError{Op: "/", Left: l.Kind(), Right: r.Kind()}
	}
	if b == 0 {
		return nil, &DivideByZeroError{Op: "/"}
	}
	return Float(a / b), nil
}

// FloorDiv applies floor division, truncating toward negative infinity.
// Two Ints yield an Int; otherwise the result is a Float. Dividing by a
// numeric zero is a fatal fault; Nothing absorbs before the zero check.
func FloorDiv(l, r Value) (Value, error) {
	if isNothing(l) || isNothing(r) {
		return Nothing, nil
	}
	if a, b, ok := bothInt(l, r); ok {
		if b == 0 {
			return nil, &DivideByZeroError{Op: "//"}
		}
		q := a / b
		if a%b != 0 && (a < 0) != (b < 0) {
			q--
		}
		return Int(q), nil
	}
	a, ok := numeric(l)
	if !ok {
		return nil, &OpError{Op: "//", Left: l.Kind(), Right: r.Kind()}
	}
	b, ok := numeric(r)
	if !ok {
		return nil, &OpError{Op: "//", Left: l.Kind(), Right: r.Kind()}
	}
	if b == 0 {
		return nil, &DivideByZeroError{Op: "//"}
	}
	return Float(math.Floor(a / b)), nil
}

// Neg applies unary minus on numbers; Nothing absorbs.
func Neg(v Value) (Value, error) {
	switch v := v.(type) {
	case NothingType:
		return Nothing, nil
	case Int:
		return -v, nil
	case Float:
		return -v, nil
	}
	return nil, &OpError{Op: "-", Left: v.Kind(), Unary: true}
}

// Pos applies unary plus, the identity; Nothing absorbs.
func Pos(v Value) (Value, error) {
	if isNothing(v) {
		return Nothing, nil
	}
	return v, nil
}

// Equal reports value equality. Int and Float compare numerically; tuples
// compare elementwise; Nothing equals only Nothing; values of otherwise
// different kinds are unequal.
func Equal(l, r Value) bool {
	if isNothing(l) || isNothing(r) {
		return l.Kind() == r.Kind()
	}
	if a, b, ok := bothInt(l, r); ok {
		return a == b
	}
	if a, ok := numeric(l); ok {
		if b, ok := numeric(r); ok {
			return a == b
		}
	}
	if a, ok := l.(String); ok {
		if b, ok := r.(String); ok {
			return a == b
		}
	}
	if a, ok := l.(Tuple); ok {
		if b, ok := r.(Tuple); ok {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if !Equal(a[i], b[i]) {
					return false
				}
			}
			return true
		}
	}
	return false
}

// Less reports natural ordering within a kind: numeric order across Int and
// Float, lexicographic order for strings and tuples. Nothing and values of
// unordered kind pairs are never less.
func Less(l, r Value) bool {
	if isNothing(l) || isNothing(r) {
		return false
	}
	if a, b, ok := bothInt(l, r); ok {
		return a < b
	}
	if a, ok := numeric(l); ok {
		if b, ok := numeric(r); ok {
			return a < b
		}
	}
	if a, ok := l.(String); ok {
		if b, ok := r.(String); ok {
			return a < b
		}
	}
	if a, ok := l.(Tuple); ok {
		if b, ok := r.(Tuple); ok {
			for i := 0; i < len(a) && i < len(b); i++ {
				if !Equal(a[i], b[i]) {
					return Less(a[i], b[i])
				}
			}
			return len(a) < len(b)
		}
	}
	return false
}

// ToInt converts to Int, truncating floats toward zero. Nothing stays
// Nothing; other kinds are a fault.
func ToInt(v Value) (Value, error) {
	switch v := v.(type) {
	case NothingType:
		return Nothing, nil
	case Int:
		return v, nil
	case Float:
		return Int(int64(v)), nil
	}
	return nil, &OpError{Op: "int", Left: v.Kind(), Unary: true}
}

// ToFloat converts to Float. Nothing stays Nothing; other kinds are a
// fault.
func ToFloat(v Value) (Value, error) {
	switch v := v.(type) {
	case NothingType:
		return Nothing, nil
	case Int:
		return Float(v), nil
	case Float:
		return v, nil
	}
	return nil, &OpError{Op: "float", Left: v.Kind(), Unary: true}
}

// ToString converts to String. Strings pass through unquoted; Nothing stays
// Nothing; everything else formats as it would print.
func ToString(v Value) (Value, error) {
	switch v := v.(type) {
	case NothingType:
		return Nothing, nil
	case String:
		return v, nil
	}
	return String(v.String()), nil
}

// OpError indicates an operator or conversion applied to operand kinds it
// is not defined for.
type OpError struct {
	// Op is the operator or conversion name.
	Op string
	// Left and Right are the operand kinds. Right is unused when Unary.
	Left  Kind
	Right Kind
	// Unary is whether the operation takes a single operand.
	Unary bool
}

func (err *OpError) Error() string {
	if err.Unary {
		return "cannot apply " + err.Op + " to " + err.Left.String()
	}
	return "cannot apply " + err.Op + " to " + err.Left.String() + " and " + err.Right.String()
}

// DivideByZeroError indicates division or floor division by a numeric zero.
type DivideByZeroError struct {
	// Op is "/" or "//".
	Op string
}

func (err *DivideByZeroError) Error() string {
	return "division by zero in " + err.Op
}
