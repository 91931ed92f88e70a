package calc

import (
	"math"
	"math/big"
	"strconv"
)

// BinaryOp is an infix arithmetic operator.
type BinaryOp uint8

const (
	OpAdd      BinaryOp = iota + 1 // +
	OpSub                          // -
	OpMul                          // *
	OpDiv                          // /
	OpFloorDiv                     // //
	OpMod                          // %
	OpPow                          // **
)

var binopNames = [...]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
}

func (op BinaryOp) String() string {
	if op == 0 || int(op) >= len(binopNames) {
		return "BinaryOp(" + strconv.Itoa(int(op)) + ")"
	}
	return binopNames[op]
}

func (op BinaryOp) prec() int8 {
	switch op {
	case OpAdd, OpSub:
		return precAdd
	case OpMul, OpDiv, OpFloorDiv, OpMod:
		return precMul
	case OpPow:
		return precPow
	default:
		return 0
	}
}

// UnaryOp is a prefix arithmetic operator.
type UnaryOp uint8

const (
	OpPlus  UnaryOp = iota + 1 // +
	OpMinus                    // -
)

func (op UnaryOp) String() string {
	switch op {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	default:
		return "UnaryOp(" + strconv.Itoa(int(op)) + ")"
	}
}

type (
	binopFunc func(c *Context, x, y Value) (Value, error)
	unopFunc  func(c *Context, x Value) (Value, error)
)

// binops and unops are the whitelisted operators. Both operands are always
// numbers, never tuples.
var (
	binops = [...]binopFunc{
		OpAdd:      add,
		OpSub:      sub,
		OpMul:      mul,
		OpDiv:      div,
		OpFloorDiv: floordiv,
		OpMod:      mod,
		OpPow:      pow,
	}
	unops = [...]unopFunc{
		OpPlus:  pos,
		OpMinus: neg,
	}
)

func lookupBinop(op BinaryOp) binopFunc {
	if int(op) >= len(binops) {
		return nil
	}
	return binops[op]
}

func lookupUnop(op UnaryOp) unopFunc {
	if int(op) >= len(unops) {
		return nil
	}
	return unops[op]
}

var one = big.NewInt(1)

// checkint wraps x as a value if it is within the integer size limit.
func (c *Context) checkint(x *big.Int) (Value, error) {
	if c.maxIntBits > 0 && x.BitLen() > c.maxIntBits {
		return Value{}, &DomainError{Msg: "integer too large (limit " + strconv.Itoa(c.maxIntBits) + " bits)"}
	}
	return Value{kind: KindInt, i: x}, nil
}

func bothint(x, y Value) bool {
	return x.kind == KindInt && y.kind == KindInt
}

func add(c *Context, x, y Value) (Value, error) {
	if bothint(x, y) {
		return c.checkint(new(big.Int).Add(x.i, y.i))
	}
	a, b, err := reals(x, y)
	if err != nil {
		return Value{}, err
	}
	return RealValue(a + b), nil
}

func sub(c *Context, x, y Value) (Value, error) {
	if bothint(x, y) {
		return c.checkint(new(big.Int).Sub(x.i, y.i))
	}
	a, b, err := reals(x, y)
	if err != nil {
		return Value{}, err
	}
	return RealValue(a - b), nil
}

func mul(c *Context, x, y Value) (Value, error) {
	if bothint(x, y) {
		// The product has at least this many bits unless it is zero.
		if n := x.i.BitLen() + y.i.BitLen() - 1; c.maxIntBits > 0 && n > c.maxIntBits && x.i.Sign() != 0 && y.i.Sign() != 0 {
			return Value{}, &DomainError{Msg: "integer too large (limit " + strconv.Itoa(c.maxIntBits) + " bits)"}
		}
		return c.checkint(new(big.Int).Mul(x.i, y.i))
	}
	a, b, err := reals(x, y)
	if err != nil {
		return Value{}, err
	}
	return RealValue(a * b), nil
}

func div(c *Context, x, y Value) (Value, error) {
	if bothint(x, y) {
		if y.i.Sign() == 0 {
			return Value{}, &DomainError{Msg: "division by zero"}
		}
		// Rat gives the correctly rounded quotient even when the operands
		// are not exactly representable.
		q, _ := new(big.Rat).SetFrac(x.i, y.i).Float64()
		if math.IsInf(q, 0) {
			return Value{}, &DomainError{Msg: "integer division result too large for a float"}
		}
		return RealValue(q), nil
	}
	a, b, err := reals(x, y)
	if err != nil {
		return Value{}, err
	}
	if b == 0 {
		return Value{}, &DomainError{Msg: "division by zero"}
	}
	return RealValue(a / b), nil
}

func floordiv(c *Context, x, y Value) (Value, error) {
	if bothint(x, y) {
		if y.i.Sign() == 0 {
			return Value{}, &DomainError{Msg: "integer division or modulo by zero"}
		}
		q, _ := intdivmod(x.i, y.i)
		return Value{kind: KindInt, i: q}, nil
	}
	a, b, err := reals(x, y)
	if err != nil {
		return Value{}, err
	}
	if b == 0 {
		return Value{}, &DomainError{Msg: "float floor division by zero"}
	}
	q, _ := fdivmod(a, b)
	return RealValue(q), nil
}

func mod(c *Context, x, y Value) (Value, error) {
	if bothint(x, y) {
		if y.i.Sign() == 0 {
			return Value{}, &DomainError{Msg: "integer division or modulo by zero"}
		}
		_, m := intdivmod(x.i, y.i)
		return Value{kind: KindInt, i: m}, nil
	}
	a, b, err := reals(x, y)
	if err != nil {
		return Value{}, err
	}
	if b == 0 {
		return Value{}, &DomainError{Msg: "float modulo by zero"}
	}
	_, m := fdivmod(a, b)
	return RealValue(m), nil
}

// intdivmod computes the floored quotient and the remainder with the sign of
// the divisor.
func intdivmod(x, y *big.Int) (q, m *big.Int) {
	q, m = new(big.Int).QuoRem(x, y, new(big.Int))
	if m.Sign() != 0 && (m.Sign() < 0) != (y.Sign() < 0) {
		q.Sub(q, one)
		m.Add(m, y)
	}
	return q, m
}

// fdivmod computes the floored quotient and the remainder with the sign of
// the divisor, both as reals. The quotient is exact when it is an integer
// representable in a float64, even if a/b is not.
func fdivmod(a, b float64) (q, m float64) {
	m = math.Mod(a, b)
	div := (a - m) / b
	if m != 0 {
		if (b < 0) != (m < 0) {
			m += b
			div -= 1
		}
	} else {
		m = math.Copysign(0, b)
	}
	if div != 0 {
		q = math.Floor(div)
		if div-q > 0.5 {
			q += 1
		}
	} else {
		q = math.Copysign(0, a/b)
	}
	return q, m
}

func pow(c *Context, x, y Value) (Value, error) {
	if bothint(x, y) && y.i.Sign() >= 0 {
		return c.intpow(x.i, y.i)
	}
	a, b, err := reals(x, y)
	if err != nil {
		return Value{}, err
	}
	return realpow(a, b)
}

// intpow raises x to a non-negative integer power, refusing results that would
// exceed the integer size limit before computing them.
func (c *Context) intpow(x, y *big.Int) (Value, error) {
	if x.Sign() == 0 || x.CmpAbs(one) == 0 {
		r := new(big.Int).Abs(x)
		switch {
		case y.Sign() == 0:
			r.SetInt64(1)
		case x.Sign() < 0 && y.Bit(0) == 1:
			r.Neg(r)
		}
		return Value{kind: KindInt, i: r}, nil
	}
	if !y.IsInt64() {
		return Value{}, &DomainError{Msg: "integer too large"}
	}
	if c.maxIntBits > 0 {
		// |x| >= 2, so each factor adds at least BitLen-1 bits.
		if y.Int64() > int64(c.maxIntBits)/int64(x.BitLen()-1) {
			return Value{}, &DomainError{Msg: "integer too large (limit " + strconv.Itoa(c.maxIntBits) + " bits)"}
		}
	}
	return c.checkint(new(big.Int).Exp(x, y, nil))
}

func realpow(a, b float64) (Value, error) {
	switch {
	case math.IsNaN(a), math.IsNaN(b), math.IsInf(a, 0), math.IsInf(b, 0), b == 0:
		return RealValue(math.Pow(a, b)), nil
	case a == 0 && b < 0:
		return Value{}, &DomainError{Msg: "0.0 cannot be raised to a negative power"}
	case a < 0 && b != math.Trunc(b):
		return Value{}, &DomainError{Msg: "negative number cannot be raised to a fractional power"}
	}
	r := math.Pow(a, b)
	if math.IsInf(r, 0) {
		return Value{}, &DomainError{Msg: "math range error"}
	}
	return RealValue(r), nil
}

func pos(c *Context, x Value) (Value, error) {
	return x, nil
}

func neg(c *Context, x Value) (Value, error) {
	if x.kind == KindInt {
		return Value{kind: KindInt, i: new(big.Int).Neg(x.i)}, nil
	}
	return RealValue(-x.f), nil
}
