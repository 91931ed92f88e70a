package calc

import (
	"fmt"
	"io"
	"strings"
)

// Context is a context for evaluating expressions. A Context holds only
// limits; it is never modified after it is created, so it is safe to use
// concurrently.
type Context struct {
	maxDepth   int
	maxArgs    int
	maxIntBits int
}

// NewContext creates a new evaluation context. Limits not set by options
// take their default values.
func NewContext(opts ...Option) *Context {
	ctx := Context{
		maxDepth:   DefaultMaxDepth,
		maxArgs:    DefaultMaxArgs,
		maxIntBits: DefaultMaxIntBits,
	}
	return ctx.Clone(opts...)
}

// Clone creates a copy of the context with additional options applied.
func (ctx *Context) Clone(opts ...Option) *Context {
	r := *ctx
	for _, opt := range opts {
		opt.ctxOption(&r)
	}
	return &r
}

// Eval evaluates an expression.
func (ctx *Context) Eval(e *Expr) (Value, error) {
	return ctx.EvalNode(e.n)
}

// EvalNode evaluates an expression tree, which need not come from Parse.
// Invalid trees produce errors rather than panics.
func (ctx *Context) EvalNode(n Node) (Value, error) {
	return ctx.eval(n, 1)
}

// eval evaluates n at the given depth. Depth counts the same nesting the
// parser does: the left operand of a binary operator and the elements of a
// tuple are at the same depth as their parent.
func (ctx *Context) eval(n Node, depth int) (Value, error) {
	if ctx.maxDepth > 0 && depth > ctx.maxDepth {
		return Value{}, &LimitError{Limit: LimitDepth, Max: ctx.maxDepth}
	}
	if isnil(n) {
		return Value{}, &OperatorError{Op: "missing operand"}
	}
	switch n := n.(type) {
	case *Num:
		switch n.Val.kind {
		case KindInt:
			return ctx.checkint(n.Val.i)
		case KindReal, KindTuple:
			return n.Val, nil
		default:
			return Value{}, &OperatorError{Op: "invalid number"}
		}
	case *Unary:
		x, err := ctx.eval(n.X, depth+1)
		if err != nil {
			return Value{}, err
		}
		f := lookupUnop(n.Op)
		if f == nil {
			return Value{}, &OperatorError{Op: n.Op.String()}
		}
		if x.kind == KindTuple {
			return Value{}, &OperatorError{Op: "unary " + n.Op.String(), Operand: x.kind.String()}
		}
		return f(ctx, x)
	case *Binary:
		return ctx.evalBinary(n, depth)
	case *Ident:
		if v, ok := constants[n.Name]; ok {
			return v, nil
		}
		if funcs[n.Name] != nil {
			return Value{}, &NotAValueError{Name: n.Name}
		}
		return Value{}, &NameError{Name: n.Name}
	case *Call:
		fn := funcs[n.Name]
		if fn == nil {
			return Value{}, &FuncError{Name: n.Name}
		}
		if ctx.maxArgs > 0 && len(n.Args) > ctx.maxArgs {
			return Value{}, &LimitError{Limit: LimitArgs, Max: ctx.maxArgs}
		}
		args := make([]Value, len(n.Args))
		for i, arg := range n.Args {
			v, err := ctx.eval(arg, depth+1)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		if !fn.canCall(len(args)) {
			return Value{}, &ArityError{Func: fn.name, Min: fn.min, Max: fn.max, Got: len(args)}
		}
		return fn.call(ctx, args)
	case *Tuple:
		elems := make([]Value, len(n.Elems))
		for i, e := range n.Elems {
			v, err := ctx.eval(e, depth)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Value{kind: KindTuple, t: elems}, nil
	default:
		return Value{}, &OperatorError{Op: fmt.Sprintf("%T", n)}
	}
}

// evalBinary evaluates a binary operator. Left operands do not add depth, so
// chains like 1+2+3+... can be arbitrarily long; the left spine is walked
// iteratively rather than recursively.
func (ctx *Context) evalBinary(n *Binary, depth int) (Value, error) {
	spine := []*Binary{n}
	for {
		l, ok := spine[len(spine)-1].Left.(*Binary)
		if !ok || l == nil {
			break
		}
		spine = append(spine, l)
	}
	x, err := ctx.eval(spine[len(spine)-1].Left, depth)
	if err != nil {
		return Value{}, err
	}
	for i := len(spine) - 1; i >= 0; i-- {
		m := spine[i]
		y, err := ctx.eval(m.Right, depth+1)
		if err != nil {
			return Value{}, err
		}
		f := lookupBinop(m.Op)
		if f == nil {
			return Value{}, &OperatorError{Op: m.Op.String()}
		}
		switch {
		case x.kind == KindTuple:
			return Value{}, &OperatorError{Op: m.Op.String(), Operand: x.kind.String()}
		case y.kind == KindTuple:
			return Value{}, &OperatorError{Op: m.Op.String(), Operand: y.kind.String()}
		}
		x, err = f(ctx, x, y)
		if err != nil {
			return Value{}, err
		}
	}
	return x, nil
}

// Eval parses and evaluates an expression with a new context. The options
// apply to both.
func Eval(src io.RuneScanner, opts ...Option) (Value, error) {
	e, err := Parse(src, opts...)
	if err != nil {
		return Value{}, err
	}
	return NewContext(opts...).Eval(e)
}

// EvalString is a shortcut to parse and evaluate an expression from a string.
func EvalString(src string, opts ...Option) (Value, error) {
	return Eval(strings.NewReader(src), opts...)
}

// NameError is an error returned when an expression refers to a name that is
// neither a constant nor a function.
type NameError struct {
	// Name is the unknown name.
	Name string
}

func (err *NameError) Error() string {
	return "name " + quote(err.Name) + " is not allowed"
}

// NotAValueError is an error returned when an expression uses a function name
// as a value, e.g. "sin + 1".
type NotAValueError struct {
	// Name is the function name.
	Name string
}

func (err *NotAValueError) Error() string {
	return quote(err.Name) + " is a function, not a value"
}

// FuncError is an error returned when an expression calls a name that is not
// a whitelisted function, including constants.
type FuncError struct {
	// Name is the called name.
	Name string
}

func (err *FuncError) Error() string {
	if IsConst(err.Name) {
		return quote(err.Name) + " is a constant, not a function"
	}
	return "function " + quote(err.Name) + " is not allowed"
}

// OperatorError is an error returned when evaluating an operator that is not
// whitelisted or that does not apply to its operands. Trees that did not come
// from Parse may produce it for invalid nodes.
type OperatorError struct {
	// Op describes the operator.
	Op string
	// Operand is the kind of the offending operand, if any.
	Operand string
}

func (err *OperatorError) Error() string {
	if err.Operand == "" {
		return "unsupported operator " + quote(err.Op)
	}
	return "unsupported operand type for " + err.Op + ": " + quote(err.Operand)
}
