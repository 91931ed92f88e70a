package calc

// Option configures parsing, evaluation, or both.
type Option interface {
	parseOption(parsectx) parsectx
	ctxOption(*Context)
}

// Default limits.
const (
	// DefaultMaxDepth is the default limit on expression nesting.
	DefaultMaxDepth = 200
	// DefaultMaxArgs is the default limit on arguments to a single call.
	DefaultMaxArgs = 256
	// DefaultMaxIntBits is the default limit on the size of integer results.
	DefaultMaxIntBits = 1 << 20
)

type (
	depthopt int
	argsopt  int
	bitsopt  int
)

// MaxDepth limits the nesting depth of expressions. Depth grows with
// parentheses, unary operators, call arguments and right operands of binary
// operators, so long chains like 1+2+3+... stay shallow while 2**2**2**...
// does not. A tree that parses within a limit also evaluates within it. A
// limit of zero or less disables the check.
func MaxDepth(n int) Option {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxDepth = int(o)
	return p
}

func (o depthopt) ctxOption(ctx *Context) {
	ctx.maxDepth = int(o)
}

// MaxArgs limits the number of arguments in a single function call. A limit
// of zero or less disables the check.
func MaxArgs(n int) Option {
	return argsopt(n)
}

func (o argsopt) parseOption(p parsectx) parsectx {
	p.maxArgs = int(o)
	return p
}

func (o argsopt) ctxOption(ctx *Context) {
	ctx.maxArgs = int(o)
}

// MaxIntBits limits the size of integer results. Operations that would
// produce a larger integer fail with a DomainError instead. A limit of zero
// or less disables the check, which lets expressions like 9**9**9 run for as
// long as they take.
func MaxIntBits(n int) Option {
	return bitsopt(n)
}

func (o bitsopt) parseOption(p parsectx) parsectx {
	return p
}

func (o bitsopt) ctxOption(ctx *Context) {
	ctx.maxIntBits = int(o)
}
