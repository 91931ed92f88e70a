//go:build go1.18
// +build go1.18

package calc_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/zephyrtronium/calc"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("2 + 3*4")
	f.Add("-2**-2**2")
	f.Add("round(1.25, 1), (), (1,)")
	f.Add("a.b[0]")
	f.Add("1e999 // 0x_ff")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := calc.Parse(strings.NewReader(s))
		if err != nil {
			var ie calc.InputError
			if !errors.As(err, &ie) {
				t.Fatalf("parsing %q: error %v (%T) is not an InputError", s, err, err)
			}
			return
		}
		// Formatting may add parentheses around a top-level tuple, so
		// reparse without the depth limit.
		src := e.String()
		re, err := calc.ParseString(src, calc.MaxDepth(0))
		if err != nil {
			t.Fatalf("parsing %q: formatted as %q which does not parse: %v", s, src, err)
		}
		if got := re.String(); got != src {
			t.Errorf("parsing %q: formatting is unstable: %q then %q", s, src, got)
		}
	})
}
