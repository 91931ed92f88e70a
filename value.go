package calc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Kind is the kind of a Value.
type Kind uint8

const (
	// KindInt is an exact integer of arbitrary size.
	KindInt Kind = iota + 1
	// KindReal is an IEEE-754 binary64 real.
	KindReal
	// KindTuple is an ordered list of values.
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindTuple:
		return "tuple"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the result of evaluating an expression. The zero Value is invalid.
// Values are immutable.
type Value struct {
	kind Kind
	i    *big.Int
	f    float64
	t    []Value
}

// IntValue returns an integer value. x is copied.
func IntValue(x *big.Int) Value {
	return Value{kind: KindInt, i: new(big.Int).Set(x)}
}

// Int64Value returns an integer value.
func Int64Value(x int64) Value {
	return Value{kind: KindInt, i: big.NewInt(x)}
}

// RealValue returns a real value.
func RealValue(x float64) Value {
	return Value{kind: KindReal, f: x}
}

// TupleValue returns a tuple of the given values. The slice is copied.
func TupleValue(elems ...Value) Value {
	return Value{kind: KindTuple, t: append(make([]Value, 0, len(elems)), elems...)}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns a copy of the value of an integer. ok is false if the value is
// not an integer.
func (v Value) Int() (x *big.Int, ok bool) {
	if v.kind != KindInt {
		return nil, false
	}
	return new(big.Int).Set(v.i), true
}

// Float64 returns the value as a real. Integers are rounded to the nearest
// float64, which may be infinite. ok is false if the value is a tuple or
// invalid.
func (v Value) Float64() (f float64, ok bool) {
	switch v.kind {
	case KindInt:
		f, _ = new(big.Float).SetInt(v.i).Float64()
		return f, true
	case KindReal:
		return v.f, true
	default:
		return 0, false
	}
}

// Elems returns a copy of the elements of a tuple, or nil if the value is not
// a tuple.
func (v Value) Elems() []Value {
	if v.kind != KindTuple {
		return nil
	}
	return append(make([]Value, 0, len(v.t)), v.t...)
}

// Equal reports whether v and w are the same kind with the same value. Reals
// compare with ==, except that NaN equals NaN.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i.Cmp(w.i) == 0
	case KindReal:
		return v.f == w.f || math.IsNaN(v.f) && math.IsNaN(w.f)
	case KindTuple:
		if len(v.t) != len(w.t) {
			return false
		}
		for i := range v.t {
			if !v.t[i].Equal(w.t[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String formats the value for display. Integers are written in decimal.
// Reals use the shortest representation that reads back to the same value,
// always with a decimal point or exponent, switching to exponent form for
// magnitudes below 1e-4 or at least 1e16.
func (v Value) String() string {
	var b strings.Builder
	v.fmt(&b)
	return b.String()
}

func (v Value) fmt(b *strings.Builder) {
	switch v.kind {
	case KindInt:
		b.WriteString(v.i.String())
	case KindReal:
		b.WriteString(fmtreal(v.f))
	case KindTuple:
		b.WriteByte('(')
		for i, e := range v.t {
			if i > 0 {
				b.WriteString(", ")
			}
			e.fmt(b)
		}
		if len(v.t) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	default:
		b.WriteString("<invalid>")
	}
}

func fmtreal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	k := strings.LastIndexByte(s, 'e')
	exp, _ := strconv.Atoi(s[k+1:])
	if exp < -4 || exp >= 16 {
		return s
	}
	s = strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// signbit reports whether the value formats with a leading minus sign.
func (v Value) signbit() bool {
	switch v.kind {
	case KindInt:
		return v.i.Sign() < 0
	case KindReal:
		return math.Signbit(v.f) && !math.IsNaN(v.f)
	default:
		return false
	}
}

// real converts a number to float64 for mixed arithmetic.
func (v Value) real() (float64, error) {
	if v.kind == KindReal {
		return v.f, nil
	}
	f, _ := new(big.Float).SetInt(v.i).Float64()
	if math.IsInf(f, 0) {
		return 0, &DomainError{Msg: "int too large to convert to float"}
	}
	return f, nil
}

// reals converts two numbers to float64.
func reals(x, y Value) (float64, float64, error) {
	a, err := x.real()
	if err != nil {
		return 0, 0, err
	}
	b, err := y.real()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
