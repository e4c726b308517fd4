package tally

import (
	"strconv"
	"strings"
)

// Context is one evaluation session: a symbol table threaded through the
// statements of a program, plus the function registry consulted for calls.
// It is not safe to use a Context concurrently; independent sessions each
// get their own.
type Context struct {
	names map[string]Value
	funcs map[string]Func
}

// ContextOption is an option used when creating or cloning a context.
type ContextOption interface {
	ctxOption(*Context)
}

type (
	varopt struct {
		name string
		val  Value
	}
	varsopt map[string]Value
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
)

func (o varopt) ctxOption(ctx *Context) { ctx.names[o.name] = o.val }

func (o varsopt) ctxOption(ctx *Context) {
	for k, v := range o {
		ctx.names[k] = v
	}
}

func (o funcopt) ctxOption(ctx *Context) {
	if o.fn == nil {
		delete(ctx.funcs, o.name)
		return
	}
	ctx.funcs[o.name] = o.fn
}

func (o funcsopt) ctxOption(ctx *Context) {
	for k, v := range o {
		if v == nil {
			delete(ctx.funcs, k)
			continue
		}
		ctx.funcs[k] = v
	}
}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val Value) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]Value) ContextOption {
	return varsopt(vars)
}

// WithFunc sets a registry function. Passing nil for fn removes the entry.
func WithFunc(name string, fn Func) ContextOption {
	return funcopt{name, fn}
}

// WithFuncs sets a group of registry functions. Nil entries remove.
func WithFuncs(fns map[string]Func) ContextOption {
	return funcsopt(fns)
}

// NewContext creates an evaluation context with an empty symbol table and
// the default function registry, then applies the given options in order.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{
		names: make(map[string]Value),
		funcs: make(map[string]Func, len(globalfuncs)),
	}
	for k, v := range globalfuncs {
		ctx.funcs[k] = v
	}
	for _, opt := range opts {
		opt.ctxOption(ctx)
	}
	return ctx
}

// Clone creates a copy of a context and applies options to it. The clone
// shares nothing with the original, so the two can evaluate independent
// programs.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := &Context{
		names: make(map[string]Value, len(ctx.names)),
		funcs: make(map[string]Func, len(ctx.funcs)),
	}
	for k, v := range ctx.names {
		n.names[k] = v
	}
	for k, v := range ctx.funcs {
		n.funcs[k] = v
	}
	for _, opt := range opts {
		opt.ctxOption(n)
	}
	return n
}

// Set binds a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value Value) *Context {
	ctx.names[name] = value
	return ctx
}

// Lookup returns the value of a variable. The result is nil if and only if
// the name was never assigned; a name bound to Nothing returns the Nothing
// sentinel, so the two cases stay distinguishable.
func (ctx *Context) Lookup(name string) Value {
	return ctx.names[name]
}

// Symbols returns a snapshot of the symbol table.
func (ctx *Context) Symbols() map[string]Value {
	m := make(map[string]Value, len(ctx.names))
	for k, v := range ctx.names {
		m[k] = v
	}
	return m
}

// Eval evaluates a program, threading the context's symbol table through
// its statements in order, and returns the final table. Any evaluation
// error aborts the whole run.
func (ctx *Context) Eval(p *Program) (map[string]Value, error) {
	for _, s := range p.stmts {
		if _, err := s.eval(ctx); err != nil {
			return nil, err
		}
	}
	return ctx.Symbols(), nil
}

// EvalStmt evaluates a single statement against the context and returns
// its value. A bare expression statement evaluates to its own value, not a
// truth value.
func (ctx *Context) EvalStmt(s *Stmt) (Value, error) {
	return s.n.eval(ctx)
}

// EvalString is a shortcut to parse and evaluate a whole program and
// return its symbol table.
func EvalString(src string, opts ...ContextOption) (map[string]Value, error) {
	p, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	return NewContext(opts...).Eval(p)
}

// eval produces the node's value, evaluating children bottom-up and
// left-to-right.
func (n *node) eval(ctx *Context) (Value, error) {
	switch n.kind {
	case nodeNum:
		return litNum(n.name), nil
	case nodeStr:
		return String(n.str), nil
	case nodeNothing:
		return Nothing, nil
	case nodeName:
		v, ok := ctx.names[n.name]
		if !ok {
			return nil, &NameError{Name: n.name}
		}
		return v, nil
	case nodeCall:
		args := make([]Value, len(n.list))
		for i, a := range n.list {
			v, err := a.eval(ctx)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		fn := ctx.funcs[n.name]
		if fn == nil {
			return nil, &UnknownFuncError{Func: n.name}
		}
		if !fn.CanCall(len(args)) {
			return nil, &CallError{Func: n.name, Len: len(args)}
		}
		v, err := fn.Call(ctx, args)
		if err != nil {
			return nil, err
		}
		if v == nil {
			// A registry function that produced no value yields Nothing.
			return Nothing, nil
		}
		return v, nil
	case nodeTuple:
		t := make(Tuple, len(n.list))
		for i, e := range n.list {
			v, err := e.eval(ctx)
			if err != nil {
				return nil, err
			}
			t[i] = v
		}
		return t, nil
	case nodeNeg:
		v, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		return Neg(v)
	case nodePos:
		v, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		return Pos(v)
	case nodeFold:
		acc, err := n.list[0].eval(ctx)
		if err != nil {
			return nil, err
		}
		for i, op := range n.ops {
			r, err := n.list[i+1].eval(ctx)
			if err != nil {
				return nil, err
			}
			acc, err = applyBinary(op, acc, r)
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	case nodeCompare:
		vals := make([]Value, len(n.list))
		for i, o := range n.list {
			v, err := o.eval(ctx)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		// Transitive chaining: a < b < c holds when a < b and b < c, as
		// in mathematical notation. The first failing adjacent pair
		// settles the chain.
		for i, op := range n.ops {
			if !holds(op, vals[i], vals[i+1]) {
				return Int(0), nil
			}
		}
		return Int(1), nil
	case nodeAssign:
		v, err := n.left.eval(ctx)
		if err != nil {
			return nil, err
		}
		if n.name != "" {
			if n.name == "Nothing" {
				return nil, &ReservedNameError{Name: n.name}
			}
			ctx.names[n.name] = v
		}
		return v, nil
	default:
		panic("tally: invalid AST node " + n.kind.String())
	}
}

// litNum converts a number literal's text to a value: Int when the text
// has no decimal point, Float otherwise. Integer literals too large for
// 64 bits fall back to Float.
func litNum(text string) Value {
	if !strings.ContainsRune(text, '.') {
		i, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return Int(i)
		}
	}
	f, _ := strconv.ParseFloat(text, 64)
	return Float(f)
}

func applyBinary(op string, l, r Value) (Value, error) {
	switch op {
	case "+":
		return Add(l, r)
	case "-":
		return Sub(l, r)
	case "*":
		return Mul(l, r)
	case "/":
		return Div(l, r)
	case "//":
		return FloorDiv(l, r)
	default:
		panic("tally: invalid binary operator " + strconv.Quote(op))
	}
}

// holds tests one comparison operator. All operators are derived from
// Equal and Less, which encode the Nothing rules: not-less, not-greater,
// equal only to Nothing.
func holds(op string, l, r Value) bool {
	switch op {
	case "<":
		return Less(l, r)
	case ">":
		return Less(r, l)
	case "==":
		return Equal(l, r)
	case "!=":
		return !Equal(l, r)
	case "<=":
		return Equal(l, r) || Less(l, r)
	case ">=":
		return Equal(l, r) || Less(r, l)
	default:
		panic("tally: invalid comparison operator " + strconv.Quote(op))
	}
}

// NameError is an error from a lookup for a variable that has not been
// assigned.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// UnknownFuncError is an error from a call to a name absent from the
// function registry.
type UnknownFuncError struct {
	// Func is the name that was called.
	Func string
}

func (err *UnknownFuncError) Error() string {
	return "unknown function: " + strconv.Quote(err.Func)
}

// CallError is an error indicating a function call with the wrong number
// of arguments.
type CallError struct {
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the call supplied.
	Len int
}

func (err *CallError) Error() string {
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments"
}

// ReservedNameError is an error from an assignment to a reserved literal
// name.
type ReservedNameError struct {
	// Name is the reserved name.
	Name string
}

func (err *ReservedNameError) Error() string {
	return "cannot assign to reserved name " + strconv.Quote(err.Name)
}
