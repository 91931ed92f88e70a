package calc_test

import (
	"slices"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestNames(t *testing.T) {
	want := []string{
		"abs", "acos", "asin", "atan", "atan2", "cos", "cosh", "degrees",
		"e", "exp", "factorial", "hypot", "inf", "log", "log10", "nan", "pi",
		"pow", "radians", "round", "sin", "sinh", "sqrt", "tan", "tanh",
		"tau",
	}
	got := calc.Names()
	if !slices.Equal(got, want) {
		t.Errorf("wrong names:\nwant %q\ngot  %q", want, got)
	}
	got[0] = "os"
	if calc.Names()[0] != "abs" {
		t.Error("Names returned shared storage")
	}
	for _, name := range want {
		if calc.IsFunc(name) == calc.IsConst(name) {
			t.Errorf("%q: IsFunc %t, IsConst %t", name, calc.IsFunc(name), calc.IsConst(name))
		}
	}
}

func TestIsFunc(t *testing.T) {
	cases := map[string]bool{
		"sin":        true,
		"factorial":  true,
		"round":      true,
		"pi":         false,
		"inf":        false,
		"eval":       false,
		"__import__": false,
		"":           false,
	}
	for name, want := range cases {
		if got := calc.IsFunc(name); got != want {
			t.Errorf("IsFunc(%q): want %t, got %t", name, want, got)
		}
	}
}

func TestIsConst(t *testing.T) {
	cases := map[string]bool{
		"pi":  true,
		"e":   true,
		"tau": true,
		"inf": true,
		"nan": true,
		"sin": false,
		"E":   false,
		"x":   false,
	}
	for name, want := range cases {
		if got := calc.IsConst(name); got != want {
			t.Errorf("IsConst(%q): want %t, got %t", name, want, got)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1/0", "division by zero"},
		{"1//0", "integer division or modulo by zero"},
		{"1.0 % 0", "float modulo by zero"},
		{"2.0 // 0.0", "float floor division by zero"},
		{"0.0 ** -1", "0.0 cannot be raised to a negative power"},
		{"(-8) ** 0.5", "negative number cannot be raised to a fractional power"},
		{"10.0 ** 400", "math range error"},
		{"2**2**21", "integer too large (limit 1048576 bits)"},
		{"sqrt(-1)", "sqrt(): math domain error"},
		{"exp(1000)", "exp(): math range error"},
		{"sin(10**400)", "sin(): int too large to convert to float"},
		{"factorial(-1)", "factorial() argument 1 must be a non-negative integer"},
		{"factorial(2.5)", "factorial() argument 1 must be a non-negative integer"},
		{"factorial(10**20)", "factorial(): argument too large"},
		{"round(1, 2.0)", "round() argument 2 must be an integer, not real"},
		{"abs((1,))", "abs() argument 1 must be a number, not tuple"},
		{"sin()", "sin() takes exactly 1 argument (0 given)"},
		{"atan2(1)", "atan2() takes exactly 2 arguments (1 given)"},
		{"log()", "log() takes at least 1 argument (0 given)"},
		{"round(1, 2, 3)", "round() takes at most 2 arguments (3 given)"},
		{"x + 1", "name 'x' is not allowed"},
		{"sin", "'sin' is a function, not a value"},
		{"pi(2)", "'pi' is a constant, not a function"},
		{"system(1)", "function 'system' is not allowed"},
		{"(1, 2) * 3", "unsupported operand type for *: 'tuple'"},
		{"-()", "unsupported operand type for unary -: 'tuple'"},
		{"round(inf)", "round(): cannot convert float infinity to integer"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.src, func(t *testing.T) {
			_, err := calc.EvalString(c.src)
			if err == nil {
				t.Fatalf("no error evaluating %q", c.src)
			}
			if got := err.Error(); got != c.want {
				t.Errorf("wrong message for %q: want %q, got %q", c.src, c.want, got)
			}
		})
	}
}
