package calc

import (
	"strings"
)

// Node is a node in the abstract syntax tree of an expression. The node types
// are *Num, *Unary, *Binary, *Call, *Ident and *Tuple; the set is closed.
type Node interface {
	// String formats the node as source text which parses to an equivalent
	// tree, using as few parentheses as possible.
	String() string

	fmt(b *strings.Builder)
	// prec is how tightly the formatted node binds to its neighbors.
	prec() int8
}

// Num is a numeric literal.
type Num struct {
	Val Value
}

// Unary is a prefix operator applied to an operand.
type Unary struct {
	Op UnaryOp
	X  Node
}

// Binary is an infix operator applied to two operands.
type Binary struct {
	Op          BinaryOp
	Left, Right Node
}

// Call is a call of a named function.
type Call struct {
	Name string
	Args []Node
}

// Ident is a bare name.
type Ident struct {
	Name string
}

// Tuple is a parenthesized, comma-separated list, or a comma-separated list
// at the top level of an expression.
type Tuple struct {
	Elems []Node
}

// Binding strengths, shared by the parser and the formatter.
const (
	precAdd   int8 = 1
	precMul   int8 = 5
	precUnary int8 = 10
	precPow   int8 = 15
	precAtom  int8 = 127
)

func (n *Num) String() string    { return nodestring(n) }
func (n *Unary) String() string  { return nodestring(n) }
func (n *Binary) String() string { return nodestring(n) }
func (n *Call) String() string   { return nodestring(n) }
func (n *Ident) String() string  { return nodestring(n) }
func (n *Tuple) String() string  { return nodestring(n) }

func nodestring(n Node) string {
	var b strings.Builder
	fmtoperand(&b, n, false)
	return b.String()
}

// isnil reports whether n is nil or a nil pointer to a node.
func isnil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Num:
		return n == nil
	case *Unary:
		return n == nil
	case *Binary:
		return n == nil
	case *Call:
		return n == nil
	case *Ident:
		return n == nil
	case *Tuple:
		return n == nil
	}
	return false
}

func (n *Num) prec() int8 {
	if n.Val.signbit() {
		// -2 formats like a negation.
		return precUnary
	}
	return precAtom
}

func (n *Unary) prec() int8  { return precUnary }
func (n *Binary) prec() int8 { return n.Op.prec() }
func (n *Call) prec() int8   { return precAtom }
func (n *Ident) prec() int8  { return precAtom }
func (n *Tuple) prec() int8  { return precAtom }

func precof(n Node) int8 {
	if isnil(n) {
		return precAtom
	}
	return n.prec()
}

// fmtoperand formats n, in parentheses if paren is set.
func fmtoperand(b *strings.Builder, n Node, paren bool) {
	if isnil(n) {
		// Invalid trees use invalid characters.
		b.WriteString("$nil$")
		return
	}
	if paren {
		b.WriteByte('(')
		defer b.WriteByte(')')
	}
	n.fmt(b)
}

func (n *Num) fmt(b *strings.Builder) {
	b.WriteString(n.Val.String())
}

func (n *Unary) fmt(b *strings.Builder) {
	b.WriteString(n.Op.String())
	fmtoperand(b, n.X, precof(n.X) < precUnary)
}

// Chains like 1+2+3+... nest through left operands without any limit, so
// the left spine is formatted iteratively.
func (n *Binary) fmt(b *strings.Builder) {
	spine := []*Binary{n}
	for {
		m := spine[len(spine)-1]
		l, ok := m.Left.(*Binary)
		if !ok || l == nil || m.parenleft() {
			break
		}
		spine = append(spine, l)
	}
	last := spine[len(spine)-1]
	fmtoperand(b, last.Left, last.parenleft())
	for i := len(spine) - 1; i >= 0; i-- {
		m := spine[i]
		b.WriteByte(' ')
		b.WriteString(m.Op.String())
		b.WriteByte(' ')
		fmtoperand(b, m.Right, m.parenright())
	}
}

func (n *Binary) parenleft() bool {
	p, l := n.Op.prec(), precof(n.Left)
	return l < p || l == p && n.Op == OpPow
}

func (n *Binary) parenright() bool {
	p, r := n.Op.prec(), precof(n.Right)
	return r < p || r == p && n.Op != OpPow
}

func (n *Call) fmt(b *strings.Builder) {
	b.WriteString(n.Name)
	b.WriteByte('(')
	for i, arg := range n.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		fmtoperand(b, arg, false)
	}
	b.WriteByte(')')
}

func (n *Ident) fmt(b *strings.Builder) {
	b.WriteString(n.Name)
}

func (n *Tuple) fmt(b *strings.Builder) {
	b.WriteByte('(')
	for i, e := range n.Elems {
		if i > 0 {
			b.WriteString(", ")
		}
		fmtoperand(b, e, false)
	}
	if len(n.Elems) == 1 {
		b.WriteByte(',')
	}
	b.WriteByte(')')
}
