package calc

import (
	"math"
	"math/big"
	"testing"
)

func TestIntDivMod(t *testing.T) {
	cases := []struct {
		x, y, q, m int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -4, -1},
		{-7, -2, 3, -1},
		{6, -3, -2, 0},
		{0, 5, 0, 0},
		{1, 3, 0, 1},
		{-1, 3, -1, 2},
	}
	for _, c := range cases {
		q, m := intdivmod(big.NewInt(c.x), big.NewInt(c.y))
		if q.Int64() != c.q || m.Int64() != c.m {
			t.Errorf("divmod(%d, %d): want (%d, %d), got (%v, %v)", c.x, c.y, c.q, c.m, q, m)
		}
	}
}

func TestFDivMod(t *testing.T) {
	negz := math.Copysign(0, -1)
	cases := []struct {
		a, b, q, m float64
	}{
		{7.5, 2, 3, 1.5},
		{-7.5, 2, -4, 0.5},
		{7.5, -2, -4, -0.5},
		{-7.5, -2, 3, -1.5},
		{1, -3, -1, -2},
		{6, 3, 2, 0},
		{6, -3, -2, negz},
		{0, 3, 0, 0},
		{negz, 3, negz, 0},
	}
	for _, c := range cases {
		q, m := fdivmod(c.a, c.b)
		if q != c.q || m != c.m || math.Signbit(q) != math.Signbit(c.q) || math.Signbit(m) != math.Signbit(c.m) {
			t.Errorf("divmod(%v, %v): want (%v, %v), got (%v, %v)", c.a, c.b, c.q, c.m, q, m)
		}
	}
}

func TestRoundHalfEven(t *testing.T) {
	cases := []struct {
		x, y, want int64
	}{
		{5, 2, 2},
		{7, 2, 4},
		{-5, 2, -2},
		{-7, 2, -4},
		{1, 3, 0},
		{2, 3, 1},
		{-1, 3, 0},
		{-2, 3, -1},
		{250, 100, 2},
		{350, 100, 4},
		{251, 100, 3},
	}
	for _, c := range cases {
		got := roundhalfeven(big.NewInt(c.x), big.NewInt(c.y))
		if got.Int64() != c.want {
			t.Errorf("round(%d/%d): want %d, got %v", c.x, c.y, c.want, got)
		}
	}
}

func TestIntPowLimit(t *testing.T) {
	c := NewContext(MaxIntBits(100))
	cases := []struct {
		x, y int64
		ok   bool
	}{
		{2, 99, true},
		{2, 100, false},
		{3, 63, true},
		{3, 64, false},
		{-1, 1 << 62, true},
		{0, 1 << 62, true},
		{10, 1 << 40, false},
	}
	for _, p := range cases {
		_, err := c.intpow(big.NewInt(p.x), big.NewInt(p.y))
		if (err == nil) != p.ok {
			t.Errorf("%d**%d: want ok=%t, got error %v", p.x, p.y, p.ok, err)
		}
	}
}
