package calc

import (
	"errors"
	"io"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// Expr = Term | Term ',' { Term ',' } [ Term ]
// Term = num | name | Call | Unary | Binary | '(' [ Expr ] ')'
// Call = name '(' [ Term { ',' Term } [ ',' ] ] ')'
// Unary = ( '+' | '-' ) Term
// Binary = Term ( '+' | '-' | '*' | '/' | '//' | '%' | '**' ) Term

// Expr is a parsed expression.
type Expr struct {
	// n is the root node of the expression.
	n Node
	// names is the sorted list of bare identifiers in the expression.
	names []string
}

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of bare identifiers that have been seen this parse.
	names map[string]bool
	// depth is the current nesting depth of terms.
	depth int
	// maxDepth and maxArgs are the configured limits. Zero disables them.
	maxDepth, maxArgs int
}

// Parse parses an expression so that it can be evaluated. The parser checks
// only the form of the expression; names of functions and constants are
// resolved during evaluation.
//
// Every error resulting from invalid input is an InputError, specifically one
// of *SyntaxError, *ForbiddenError, or *LimitError. Other errors come from
// src.
func Parse(src io.RuneScanner, opts ...Option) (*Expr, error) {
	scan := lex(src)
	p := parsectx{
		names:    make(map[string]bool),
		maxDepth: DefaultMaxDepth,
		maxArgs:  DefaultMaxArgs,
	}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parselist(scan, &p)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, lexToken{})
	}
	if n == nil {
		return nil, &SyntaxError{Col: tok.pos, Msg: "empty expression"}
	}
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	slices.Sort(ex.names)
	return &ex, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...Option) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parselist parses a comma-separated list of terms. If there is any comma, the
// result is a tuple; otherwise it is the single term, or nil if the list is
// empty. A trailing comma is allowed after at least one term. parselist pushes
// the token that ends the list.
func parselist(scan *lexer, p *parsectx) (Node, error) {
	var elems []Node
	tuple := false
	for {
		n, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		tok := scan.must()
		if n == nil {
			if tok.kind == tokenSep {
				return nil, &SyntaxError{Col: tok.pos, Msg: "expected expression before ','"}
			}
			scan.push(tok)
			break
		}
		elems = append(elems, n)
		if tok.kind != tokenSep {
			scan.push(tok)
			break
		}
		tuple = true
	}
	if !tuple {
		if len(elems) == 0 {
			return nil, nil
		}
		return elems[0], nil
	}
	return &Tuple{Elems: elems}, nil
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		return nil, &LimitError{Col: tok.pos, Limit: LimitDepth, Max: p.maxDepth}
	}
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == 0 {
				if tok.text == "=" {
					// Whether this is a keyword argument or an assignment
					// depends on where the term is.
					scan.push(tok)
					return n, nil
				}
				return nil, badop(tok, false)
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, missing(scan, tok)
			}
			n = &Binary{Op: BinaryOp(prec.op), Left: n, Right: rhs}
		case tokenOpen:
			switch tok.text {
			case "(":
				return nil, &ForbiddenError{Col: tok.pos, Construct: "indirect call"}
			case "[":
				return nil, &ForbiddenError{Col: tok.pos, Construct: "subscription"}
			}
			return nil, unexpected(tok)
		case tokenString:
			return nil, &ForbiddenError{Col: tok.pos, Construct: "string literal"}
		case tokenKeyword:
			return nil, keywordError(tok)
		case tokenNum, tokenIdent:
			return nil, unexpected(tok)
		case tokenClose, tokenSep, tokenEOF:
			// End of term.
			scan.push(tok)
			return n, nil
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (Node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		v, err := parsenum(tok)
		if err != nil {
			return nil, err
		}
		return &Num{Val: v}, nil
	case tokenIdent:
		nx, err := scan.next()
		if err != nil {
			return nil, err
		}
		if nx.kind == tokenOpen && nx.text == "(" {
			args, err := parseargs(scan, p, nx)
			if err != nil {
				return nil, err
			}
			return &Call{Name: tok.text, Args: args}, nil
		}
		scan.push(nx)
		p.names[tok.text] = true
		return &Ident{Name: tok.text}, nil
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == 0 {
			return nil, badop(tok, true)
		}
		if !prec.moreBinding(until) {
			// x**-y -> x**(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		x, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if x == nil {
			return nil, missing(scan, tok)
		}
		return &Unary{Op: UnaryOp(prec.op), X: x}, nil
	case tokenOpen:
		switch tok.text {
		case "[":
			return nil, &ForbiddenError{Col: tok.pos, Construct: "list literal"}
		case "{":
			return nil, &ForbiddenError{Col: tok.pos, Construct: "dict or set literal"}
		}
		x, err := parselist(scan, p)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose || end.text != ")" {
			return nil, itShouldNotHaveEndedThisWay(end, tok)
		}
		if x == nil {
			return &Tuple{}, nil
		}
		return x, nil
	case tokenString:
		return nil, &ForbiddenError{Col: tok.pos, Construct: "string literal"}
	case tokenKeyword:
		return nil, keywordError(tok)
	case tokenClose, tokenSep, tokenEOF:
		// Let the caller decide whether an empty term is ok.
		scan.push(tok)
		return nil, nil
	default:
		panic("calc: unknown token: " + tok.String())
	}
}

// parseargs parses the arguments of a call after the open parenthesis and
// consumes the closing one.
func parseargs(scan *lexer, p *parsectx, open lexToken) ([]Node, error) {
	var args []Node
	for {
		n, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if n == nil {
			switch {
			case end.kind == tokenClose && end.text == ")":
				// f() or f(a,)
				return args, nil
			case end.kind == tokenSep:
				return nil, &SyntaxError{Col: end.pos, Msg: "expected argument before ','"}
			}
			return nil, itShouldNotHaveEndedThisWay(end, open)
		}
		args = append(args, n)
		if p.maxArgs > 0 && len(args) > p.maxArgs {
			return nil, &LimitError{Col: end.pos, Limit: LimitArgs, Max: p.maxArgs}
		}
		switch {
		case end.kind == tokenSep:
			continue
		case end.kind == tokenClose && end.text == ")":
			return args, nil
		case end.kind == tokenOp && end.text == "=":
			if _, ok := n.(*Ident); ok {
				return nil, &ForbiddenError{Col: end.pos, Construct: "keyword argument"}
			}
		}
		return nil, itShouldNotHaveEndedThisWay(end, open)
	}
}

// parsenum converts a number token to a value.
func parsenum(tok lexToken) (Value, error) {
	s := tok.text
	if isintlit(s) {
		x, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return Value{}, &SyntaxError{Col: tok.pos, Msg: "invalid number literal " + strconv.Quote(s)}
		}
		return Value{kind: KindInt, i: x}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// Overflowing literals become infinite.
		return Value{}, &SyntaxError{Col: tok.pos, Msg: "invalid number literal " + strconv.Quote(s)}
	}
	return RealValue(f), nil
}

func isintlit(s string) bool {
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return true
		}
	}
	return !strings.ContainsAny(s, ".eE")
}

// keywords maps reserved words to the constructs they introduce. An empty
// description means the word only begins a statement.
var keywords = map[string]string{
	"and":    "boolean operator",
	"or":     "boolean operator",
	"not":    "boolean operator",
	"in":     "comparison operator",
	"is":     "comparison operator",
	"if":     "conditional expression",
	"else":   "conditional expression",
	"lambda": "lambda",
	"for":    "comprehension",
	"async":  "comprehension",
	"await":  "await expression",
	"yield":  "yield expression",
	"True":   "boolean constant",
	"False":  "boolean constant",
	"None":   "None",

	"as":       "",
	"assert":   "",
	"break":    "",
	"class":    "",
	"continue": "",
	"def":      "",
	"del":      "",
	"elif":     "",
	"except":   "",
	"finally":  "",
	"from":     "",
	"global":   "",
	"import":   "",
	"nonlocal": "",
	"pass":     "",
	"raise":    "",
	"return":   "",
	"try":      "",
	"while":    "",
	"with":     "",
}

func keywordError(tok lexToken) error {
	c := keywords[tok.text]
	if c == "" {
		c = "keyword " + strconv.Quote(tok.text)
	}
	return &ForbiddenError{Col: tok.pos, Construct: c}
}

// badop returns an error for an operator token that is not an arithmetic
// operator in its position.
func badop(tok lexToken, unary bool) error {
	var c string
	switch tok.text {
	case "==", "!=", "<", ">", "<=", ">=":
		c = "comparison operator"
	case "&", "|", "^", "~", "<<", ">>":
		c = "bitwise operator"
	case "@":
		c = "matrix multiplication"
	case "=", ":=":
		c = "assignment"
	case "+=", "-=", "*=", "/=", "//=", "%=", "**=", "@=", "&=", "|=", "^=", "<<=", ">>=":
		c = "augmented assignment"
	case ".":
		c = "attribute access"
	case "...":
		c = "ellipsis"
	case ":":
		c = "slice"
	case "*", "**":
		if unary {
			c = "argument unpacking"
		}
	}
	if c == "" {
		return unexpected(tok)
	}
	return &ForbiddenError{Col: tok.pos, Construct: c}
}

// missing returns an error for an operator with no operand following it.
func missing(scan *lexer, op lexToken) error {
	tok := scan.must()
	if tok.kind == tokenEOF {
		return &SyntaxError{Col: op.pos, Msg: "missing operand after " + quote(op.text)}
	}
	return &SyntaxError{Col: tok.pos, Msg: "expected operand after " + quote(op.text) + ", found " + quote(tok.text)}
}

func unexpected(tok lexToken) error {
	return &SyntaxError{Col: tok.pos, Msg: "unexpected " + quote(tok.text)}
}

func quote(s string) string {
	return "'" + s + "'"
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is the bracket token that the
// subexpression should have matched, or a zero token if none.
func itShouldNotHaveEndedThisWay(tok, open lexToken) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		if open.kind == tokenNone {
			return &SyntaxError{Col: tok.pos, Msg: "unexpected end of expression"}
		}
		return &SyntaxError{Col: open.pos, Msg: quote(open.text) + " was never closed"}
	case tokenClose:
		if open.kind == tokenNone {
			return &SyntaxError{Col: tok.pos, Msg: "unmatched " + quote(tok.text)}
		}
		return &SyntaxError{Col: tok.pos, Msg: "closing parenthesis " + quote(tok.text) + " does not match opening parenthesis " + quote(open.text)}
	case tokenOp:
		return badop(tok, false)
	}
	return unexpected(tok)
}

// Root returns the root node of the expression tree.
func (e *Expr) Root() Node {
	return e.n
}

// Names returns the sorted bare identifiers used in the expression. Names of
// called functions are not included.
func (e *Expr) Names() []string {
	return append(([]string)(nil), e.names...)
}

// String formats the expression as source text with minimal parentheses.
// Parsing the result produces an equivalent tree.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the BinaryOp or UnaryOp to use when this operator is selected.
	op uint8
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of zero.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{precAdd, false, uint8(OpAdd)}
	case "-":
		return operator{precAdd, false, uint8(OpSub)}
	case "*":
		return operator{precMul, false, uint8(OpMul)}
	case "/":
		return operator{precMul, false, uint8(OpDiv)}
	case "//":
		return operator{precMul, false, uint8(OpFloorDiv)}
	case "%":
		return operator{precMul, false, uint8(OpMod)}
	case "**":
		return operator{precPow, true, uint8(OpPow)}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of zero.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{precUnary, true, uint8(OpPlus)}
	case "-":
		return operator{precUnary, true, uint8(OpMinus)}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, 0}
