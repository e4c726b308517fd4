package tally

import (
	"math"
	"math/rand"
)

// Func is a callable exposed to programs. The evaluator resolves a call's
// name in the context's registry, evaluates the arguments left-to-right,
// and invokes Call with them. Returning a nil Value means "no value" at
// the host boundary; the evaluator maps it to Nothing.
type Func interface {
	// Call evaluates the function on already-evaluated arguments. len(args)
	// is a length for which CanCall returned true. Functions receiving
	// Nothing where their math needs a number must pass it through rather
	// than fail.
	Call(ctx *Context, args []Value) (Value, error)

	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"ceil":  Monadic(ceil),
	"floor": Monadic(floor),
	"max":   Variadic(1, maxOf),
	"min":   Variadic(1, minOf),
	"round": roundFunc{},
	"avg":   Variadic(1, avg),
	"score": Monadic(score),

	// Conversions dispatch through the value algebra, which is where the
	// Nothing pass-through lives.
	"int":   Monadic(ToInt),
	"float": Monadic(ToFloat),
	"str":   Monadic(ToString),
}

// DefaultFuncs returns a copy of the default function registry, the set a
// NewContext starts from.
func DefaultFuncs() map[string]Func {
	m := make(map[string]Func, len(globalfuncs))
	for k, v := range globalfuncs {
		m[k] = v
	}
	return m
}

type monadic struct {
	f func(Value) (Value, error)
}

func (m monadic) Call(ctx *Context, args []Value) (Value, error) {
	return m.f(args[0])
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one value into a Func.
func Monadic(f func(Value) (Value, error)) Func {
	return monadic{f}
}

type variadic struct {
	f   func([]Value) (Value, error)
	min int
}

func (v variadic) Call(ctx *Context, args []Value) (Value, error) {
	return v.f(args)
}

func (v variadic) CanCall(n int) bool {
	return n >= v.min
}

// Variadic wraps a function of at least min values into a Func.
func Variadic(min int, f func([]Value) (Value, error)) Func {
	return variadic{f, min}
}

func ceil(v Value) (Value, error) {
	switch v := v.(type) {
	case NothingType:
		return Nothing, nil
	case Int:
		return v, nil
	case Float:
		return Int(int64(math.Ceil(float64(v)))), nil
	}
	return nil, &OpError{Op: "ceil", Left: v.Kind(), Unary: true}
}

func floor(v Value) (Value, error) {
	switch v := v.(type) {
	case NothingType:
		return Nothing, nil
	case Int:
		return v, nil
	case Float:
		return Int(int64(math.Floor(float64(v)))), nil
	}
	return nil, &OpError{Op: "floor", Left: v.Kind(), Unary: true}
}

// maxOf keeps the leftmost of any values that do not order against the
// current best; any Nothing argument makes the whole result Nothing.
func maxOf(args []Value) (Value, error) {
	best := args[0]
	for _, v := range args {
		if isNothing(v) {
			return Nothing, nil
		}
		if Less(best, v) {
			best = v
		}
	}
	return best, nil
}

func minOf(args []Value) (Value, error) {
	best := args[0]
	for _, v := range args {
		if isNothing(v) {
			return Nothing, nil
		}
		if Less(v, best) {
			best = v
		}
	}
	return best, nil
}

// roundFunc is round(x) or round(x, place). Halves round away from zero,
// not to even. With place 0 the result is an Int, otherwise a Float.
type roundFunc struct{}

func (roundFunc) CanCall(n int) bool {
	return n == 1 || n == 2
}

func (roundFunc) Call(ctx *Context, args []Value) (Value, error) {
	place := 0
	if len(args) == 2 {
		switch p := args[1].(type) {
		case NothingType:
			return Nothing, nil
		case Int:
			place = int(p)
		default:
			return nil, &OpError{Op: "round", Left: args[0].Kind(), Right: args[1].Kind()}
		}
	}
	switch v := args[0].(type) {
	case NothingType:
		return Nothing, nil
	case Int:
		if place == 0 {
			return v, nil
		}
		return roundTo(float64(v), place), nil
	case Float:
		return roundTo(float64(v), place), nil
	}
	return nil, &OpError{Op: "round", Left: args[0].Kind(), Unary: true}
}

func roundTo(v float64, place int) Value {
	// math.Round rounds halves away from zero.
	if place == 0 {
		return Int(int64(math.Round(v)))
	}
	scale := math.Pow(10, float64(place))
	return Float(math.Round(v*scale) / scale)
}

// avg computes a weighted mean. Each argument is either a bare value with
// weight 1 or a (score, weight) pair. Nothing scores are skipped; if every
// score is skipped the result is Nothing. The accumulation runs through
// the value algebra, so a Nothing weight absorbs the denominator and the
// result collapses to Nothing as well.
func avg(args []Value) (Value, error) {
	var num Value = Int(0)
	var den Value = Int(0)
	for _, arg := range args {
		score, weight := arg, Value(Int(1))
		if t, ok := arg.(Tuple); ok && len(t) == 2 {
			score, weight = t[0], t[1]
		}
		if isNothing(score) {
			continue
		}
		w, err := Mul(score, weight)
		if err != nil {
			return nil, err
		}
		num, err = Add(num, w)
		if err != nil {
			return nil, err
		}
		den, err = Add(den, weight)
		if err != nil {
			return nil, err
		}
	}
	if !den.Truthy() {
		return Nothing, nil
	}
	return Div(num, den)
}

// score is a stand-in generator: it ignores its key and produces a random
// value in [0, 1] with two decimal places.
func score(Value) (Value, error) {
	return Float(math.Round(rand.Float64()*100) / 100), nil
}
