package calc

import (
	"math"
	"math/big"
	"slices"
	"strconv"
	"sync"

	"github.com/zephyrtronium/bigfloat"
)

// function is a whitelisted function.
type function struct {
	name string
	// min and max bound the number of arguments. max < 0 means no upper
	// bound.
	min, max int
	// call evaluates the function. args has a length for which canCall
	// returned true.
	call func(c *Context, args []Value) (Value, error)
}

func (f *function) canCall(n int) bool {
	return n >= f.min && (f.max < 0 || n <= f.max)
}

var funcs = map[string]*function{
	"sin":  monadic("sin", math.Sin, false),
	"cos":  monadic("cos", math.Cos, false),
	"tan":  monadic("tan", math.Tan, false),
	"asin": monadic("asin", math.Asin, false),
	"acos": monadic("acos", math.Acos, false),
	"atan": monadic("atan", math.Atan, false),
	"sinh": monadic("sinh", math.Sinh, true),
	"cosh": monadic("cosh", math.Cosh, true),
	"tanh": monadic("tanh", math.Tanh, false),
	"sqrt": monadic("sqrt", math.Sqrt, false),
	"exp":  monadic("exp", math.Exp, true),

	// Angle conversions are plain multiplications and may overflow.
	"degrees": scaled("degrees", degPerRad),
	"radians": scaled("radians", radPerDeg),

	"atan2":     {name: "atan2", min: 2, max: 2, call: atan2},
	"pow":       {name: "pow", min: 2, max: 2, call: mathpow},
	"log":       {name: "log", min: 1, max: 2, call: logf},
	"log10":     {name: "log10", min: 1, max: 1, call: log10f},
	"hypot":     {name: "hypot", min: 0, max: -1, call: hypot},
	"factorial": {name: "factorial", min: 1, max: 1, call: factorial},
	"abs":       {name: "abs", min: 1, max: 1, call: abs},
	"round":     {name: "round", min: 1, max: 2, call: round},
}

// The conversion factors are computed in float64 arithmetic, not from the
// exact constant, so that degrees(pi) is exactly 180.
var (
	pi        = math.Pi
	degPerRad = 180 / pi
	radPerDeg = pi / 180
)

var constants = map[string]Value{
	"pi":  RealValue(math.Pi),
	"e":   RealValue(math.E),
	"tau": RealValue(2 * math.Pi),
	"inf": RealValue(math.Inf(1)),
	"nan": RealValue(math.NaN()),
}

// Names returns the sorted names of all functions and constants available to
// expressions.
func Names() []string {
	r := make([]string, 0, len(funcs)+len(constants))
	for k := range funcs {
		r = append(r, k)
	}
	for k := range constants {
		r = append(r, k)
	}
	slices.Sort(r)
	return r
}

// IsFunc reports whether name is a function available to expressions.
func IsFunc(name string) bool {
	return funcs[name] != nil
}

// IsConst reports whether name is a constant available to expressions.
func IsConst(name string) bool {
	_, ok := constants[name]
	return ok
}

// monadic wraps a real function of one argument. overflows indicates that an
// infinite result from a finite argument is a range error rather than a
// domain error.
func monadic(name string, f func(float64) float64, overflows bool) *function {
	call := func(c *Context, args []Value) (Value, error) {
		x, err := realarg(name, args, 0)
		if err != nil {
			return Value{}, err
		}
		return mathresult(name, f(x), overflows, x)
	}
	return &function{name: name, min: 1, max: 1, call: call}
}

func scaled(name string, k float64) *function {
	call := func(c *Context, args []Value) (Value, error) {
		x, err := realarg(name, args, 0)
		if err != nil {
			return Value{}, err
		}
		return RealValue(x * k), nil
	}
	return &function{name: name, min: 1, max: 1, call: call}
}

// mathresult checks the result of a math library function the way a C
// library reports errors: NaN from non-NaN arguments is a domain error, and
// an infinite result from finite arguments is a range error if the function
// can overflow or a domain error if it has a pole.
func mathresult(name string, r float64, overflows bool, args ...float64) (Value, error) {
	switch {
	case math.IsNaN(r):
		for _, x := range args {
			if math.IsNaN(x) {
				return RealValue(r), nil
			}
		}
		return Value{}, &DomainError{Func: name, Msg: "math domain error"}
	case math.IsInf(r, 0):
		for _, x := range args {
			if math.IsInf(x, 0) || math.IsNaN(x) {
				return RealValue(r), nil
			}
		}
		if overflows {
			return Value{}, &DomainError{Func: name, Msg: "math range error"}
		}
		return Value{}, &DomainError{Func: name, Msg: "math domain error"}
	}
	return RealValue(r), nil
}

// numarg checks that args[i] is a number.
func numarg(name string, args []Value, i int) (Value, error) {
	x := args[i]
	if x.kind != KindInt && x.kind != KindReal {
		return Value{}, &ArgumentError{Func: name, Arg: i + 1, Msg: "must be a number, not " + x.kind.String()}
	}
	return x, nil
}

// realarg converts args[i] to a real.
func realarg(name string, args []Value, i int) (float64, error) {
	x, err := numarg(name, args, i)
	if err != nil {
		return 0, err
	}
	f, err := x.real()
	if err != nil {
		return 0, &DomainError{Func: name, Msg: "int too large to convert to float"}
	}
	return f, nil
}

func atan2(c *Context, args []Value) (Value, error) {
	y, err := realarg("atan2", args, 0)
	if err != nil {
		return Value{}, err
	}
	x, err := realarg("atan2", args, 1)
	if err != nil {
		return Value{}, err
	}
	return RealValue(math.Atan2(y, x)), nil
}

// mathpow is the pow function, which differs from the ** operator in that it
// always produces a real and has no special case for 0**-1.
func mathpow(c *Context, args []Value) (Value, error) {
	x, err := realarg("pow", args, 0)
	if err != nil {
		return Value{}, err
	}
	y, err := realarg("pow", args, 1)
	if err != nil {
		return Value{}, err
	}
	r := math.Pow(x, y)
	if math.IsInf(r, 0) && x == 0 && !math.IsInf(y, 0) {
		// Pole rather than overflow.
		return Value{}, &DomainError{Func: "pow", Msg: "math domain error"}
	}
	return mathresult("pow", r, true, x, y)
}

func hypot(c *Context, args []Value) (Value, error) {
	var r float64
	for i := range args {
		x, err := realarg("hypot", args, i)
		if err != nil {
			return Value{}, err
		}
		r = math.Hypot(r, x)
	}
	return RealValue(r), nil
}

// logprec is the precision for logarithms computed with big floats. It leaves
// enough guard bits that results round correctly to float64.
const logprec = 96

// ln10 is ln(10) at logprec.
var ln10 = sync.OnceValue(func() *big.Float {
	ten := new(big.Float).SetPrec(logprec).SetInt64(10)
	return bigfloat.Log(new(big.Float).SetPrec(logprec), ten)
})

// bigln computes the natural logarithm of a positive x at logprec.
func bigln(x *big.Float) *big.Float {
	x = new(big.Float).SetPrec(logprec).Set(x)
	return bigfloat.Log(new(big.Float).SetPrec(logprec), x)
}

// lnarg computes the natural logarithm of args[i]. Integers too large to
// convert to float64 are handled exactly.
func lnarg(name string, args []Value, i int) (float64, error) {
	x, err := numarg(name, args, i)
	if err != nil {
		return 0, err
	}
	if x.kind == KindInt {
		if x.i.Sign() <= 0 {
			return 0, &DomainError{Func: name, Msg: "math domain error"}
		}
		if f, err := x.real(); err == nil {
			return math.Log(f), nil
		}
		r, _ := bigln(new(big.Float).SetInt(x.i)).Float64()
		return r, nil
	}
	switch {
	case math.IsNaN(x.f):
		return x.f, nil
	case x.f <= 0:
		return 0, &DomainError{Func: name, Msg: "math domain error"}
	}
	return math.Log(x.f), nil
}

func logf(c *Context, args []Value) (Value, error) {
	num, err := lnarg("log", args, 0)
	if err != nil {
		return Value{}, err
	}
	if len(args) == 1 {
		return RealValue(num), nil
	}
	den, err := lnarg("log", args, 1)
	if err != nil {
		return Value{}, err
	}
	if den == 0 {
		return Value{}, &DomainError{Func: "log", Msg: "division by zero"}
	}
	return RealValue(num / den), nil
}

// log10f computes the common logarithm through big floats so that exact powers
// of ten give exact results.
func log10f(c *Context, args []Value) (Value, error) {
	x, err := numarg("log10", args, 0)
	if err != nil {
		return Value{}, err
	}
	var b *big.Float
	if x.kind == KindInt {
		if x.i.Sign() <= 0 {
			return Value{}, &DomainError{Func: "log10", Msg: "math domain error"}
		}
		b = new(big.Float).SetInt(x.i)
	} else {
		switch {
		case math.IsNaN(x.f), math.IsInf(x.f, 1):
			return x, nil
		case x.f <= 0:
			return Value{}, &DomainError{Func: "log10", Msg: "math domain error"}
		case x.f == 1:
			return RealValue(0), nil
		}
		b = new(big.Float).SetFloat64(x.f)
	}
	l := bigln(b)
	r, _ := l.Quo(l, ln10()).Float64()
	return RealValue(r), nil
}

func factorial(c *Context, args []Value) (Value, error) {
	x, err := numarg("factorial", args, 0)
	if err != nil {
		return Value{}, err
	}
	var n *big.Int
	switch x.kind {
	case KindInt:
		n = x.i
	case KindReal:
		if math.IsInf(x.f, 0) || math.IsNaN(x.f) || x.f != math.Trunc(x.f) {
			return Value{}, &ArgumentError{Func: "factorial", Arg: 1, Msg: "must be a non-negative integer"}
		}
		n, _ = new(big.Float).SetFloat64(x.f).Int(nil)
	}
	if n.Sign() < 0 {
		return Value{}, &ArgumentError{Func: "factorial", Arg: 1, Msg: "must be a non-negative integer"}
	}
	if !n.IsInt64() {
		return Value{}, &DomainError{Func: "factorial", Msg: "argument too large"}
	}
	k := n.Int64()
	if c.maxIntBits > 0 {
		// log2(k!) estimated from the log gamma function, with some slack
		// for its rounding.
		lg, _ := math.Lgamma(float64(k) + 1)
		if bits := lg / math.Ln2; bits > float64(c.maxIntBits)+1 {
			return Value{}, &DomainError{Func: "factorial", Msg: "integer too large (limit " + strconv.Itoa(c.maxIntBits) + " bits)"}
		}
	}
	r, err := c.checkint(new(big.Int).MulRange(1, k))
	if err != nil {
		return Value{}, &DomainError{Func: "factorial", Msg: err.(*DomainError).Msg}
	}
	return r, nil
}

func abs(c *Context, args []Value) (Value, error) {
	x, err := numarg("abs", args, 0)
	if err != nil {
		return Value{}, err
	}
	if x.kind == KindInt {
		return Value{kind: KindInt, i: new(big.Int).Abs(x.i)}, nil
	}
	return RealValue(math.Abs(x.f)), nil
}

// Bounds on round's ndigits outside which rounding a float64 has no effect or
// always produces zero.
const (
	ndigitsMax = 323
	ndigitsMin = -308
)

func round(c *Context, args []Value) (Value, error) {
	x, err := numarg("round", args, 0)
	if err != nil {
		return Value{}, err
	}
	if len(args) == 1 {
		if x.kind == KindInt {
			return x, nil
		}
		switch {
		case math.IsInf(x.f, 0):
			return Value{}, &DomainError{Func: "round", Msg: "cannot convert float infinity to integer"}
		case math.IsNaN(x.f):
			return Value{}, &DomainError{Func: "round", Msg: "cannot convert float NaN to integer"}
		}
		r, _ := new(big.Float).SetFloat64(math.RoundToEven(x.f)).Int(nil)
		return c.checkint(r)
	}
	if args[1].kind != KindInt {
		return Value{}, &ArgumentError{Func: "round", Arg: 2, Msg: "must be an integer, not " + args[1].kind.String()}
	}
	nd := args[1].i
	if x.kind == KindInt {
		return roundint(x.i, nd), nil
	}
	return roundreal(x.f, nd)
}

// roundint rounds x half to even at the nd'th decimal place.
func roundint(x, nd *big.Int) Value {
	if nd.Sign() >= 0 {
		return Value{kind: KindInt, i: x}
	}
	// x has fewer than BitLen/3+1 decimal digits, so rounding at a place
	// beyond that gives zero.
	if !nd.IsInt64() || -nd.Int64() > int64(x.BitLen()/3+1) {
		return Value{kind: KindInt, i: new(big.Int)}
	}
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(-nd.Int64()), nil)
	q := roundhalfeven(x, p)
	return Value{kind: KindInt, i: q.Mul(q, p)}
}

// roundreal rounds x half to even at the nd'th decimal place using the exact
// binary value of x.
func roundreal(x float64, nd *big.Int) (Value, error) {
	switch {
	case math.IsInf(x, 0), math.IsNaN(x), x == 0:
		return RealValue(x), nil
	case !nd.IsInt64(), nd.Int64() > ndigitsMax, nd.Int64() < ndigitsMin:
		if nd.Sign() > 0 {
			return RealValue(x), nil
		}
		return RealValue(math.Copysign(0, x)), nil
	}
	n := nd.Int64()
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(max(n, -n)), nil)
	r := new(big.Rat).SetFloat64(x)
	if n >= 0 {
		r.Mul(r, new(big.Rat).SetInt(p))
	} else {
		r.Quo(r, new(big.Rat).SetInt(p))
	}
	q := roundhalfeven(r.Num(), r.Denom())
	r.SetInt(q)
	if n >= 0 {
		r.Quo(r, new(big.Rat).SetInt(p))
	} else {
		r.Mul(r, new(big.Rat).SetInt(p))
	}
	f, _ := r.Float64()
	switch {
	case math.IsInf(f, 0):
		return Value{}, &DomainError{Func: "round", Msg: "rounded value too large to represent"}
	case f == 0:
		f = math.Copysign(0, x)
	}
	return RealValue(f), nil
}

// roundhalfeven computes x/y rounded to the nearest integer, with ties going
// to the even neighbor. y must be positive.
func roundhalfeven(x, y *big.Int) *big.Int {
	q, m := intdivmod(x, y)
	m.Lsh(m, 1)
	switch m.Cmp(y) {
	case 1:
		q.Add(q, one)
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, one)
		}
	}
	return q
}

// ArityError is an error returned when a function is called with the wrong
// number of arguments.
type ArityError struct {
	// Func is the name of the function.
	Func string
	// Min and Max are the allowed numbers of arguments. Max is negative if
	// there is no upper bound.
	Min, Max int
	// Got is the number of arguments in the call.
	Got int
}

func (err *ArityError) Error() string {
	var want string
	switch {
	case err.Min == err.Max:
		want = "exactly " + plural(err.Min, "argument")
	case err.Max < 0:
		want = "at least " + plural(err.Min, "argument")
	case err.Got < err.Min:
		want = "at least " + plural(err.Min, "argument")
	default:
		want = "at most " + plural(err.Max, "argument")
	}
	return err.Func + "() takes " + want + " (" + strconv.Itoa(err.Got) + " given)"
}

func plural(n int, s string) string {
	if n == 1 {
		return "1 " + s
	}
	return strconv.Itoa(n) + " " + s + "s"
}

// ArgumentError is an error returned when an argument to a function has the
// wrong type or a value the function never accepts.
type ArgumentError struct {
	// Func is the name of the function.
	Func string
	// Arg is the 1-based index of the argument.
	Arg int
	// Msg describes the problem.
	Msg string
}

func (err *ArgumentError) Error() string {
	return err.Func + "() argument " + strconv.Itoa(err.Arg) + " " + err.Msg
}

// DomainError is an error returned when an operation has no finite result for
// its operands: division by zero, a function called outside its domain, or a
// result that overflows.
type DomainError struct {
	// Func is the name of the function, or empty for operators.
	Func string
	// Msg describes the problem.
	Msg string
}

func (err *DomainError) Error() string {
	if err.Func == "" {
		return err.Msg
	}
	return err.Func + "(): " + err.Msg
}
