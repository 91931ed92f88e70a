package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or real literal. Underscores are removed from
	// its text.
	tokenNum
	// tokenIdent is a function or constant name.
	tokenIdent
	// tokenKeyword is a reserved word, which can never be a name.
	tokenKeyword
	// tokenString is a string literal, quotes included.
	tokenString
	// tokenOp is an operator or other punctuation.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenSep is a comma.
	tokenSep
)

var tokenNames = [...]string{
	tokenNone:    "None",
	tokenEOF:     "EOF",
	tokenNum:     "Num",
	tokenIdent:   "Ident",
	tokenKeyword: "Keyword",
	tokenString:  "String",
	tokenOp:      "Op",
	tokenOpen:    "Open",
	tokenClose:   "Close",
	tokenSep:     "Sep",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// operators is the set of operator tokens. Only a few of them are part of the
// calculator; the rest are recognized so the parser can reject them by name.
var operators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "@": true,
	"&": true, "|": true, "^": true, "~": true, "<": true, ">": true,
	"=": true, ".": true, ":": true, ";": true,
	"**": true, "//": true, "==": true, "!=": true, "<=": true, ">=": true,
	"<<": true, ">>": true, ":=": true, "->": true, "...": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true, "@=": true,
	"&=": true, "|=": true, "^=": true, "**=": true, "//=": true,
	"<<=": true, ">>=": true,
}

func hasOpPrefix(s string) bool {
	for op := range operators {
		if strings.HasPrefix(op, s) {
			return true
		}
	}
	return false
}

// openbrackets and closebrackets contain the runes which the lexer treats as
// brackets. Only parentheses group expressions.
const (
	openbrackets  = "([{"
	closebrackets = ")]}"
)

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// back holds unread runes, most recent last. The parser sometimes needs
	// more lookahead than io.RuneScanner guarantees.
	back []rune
	rune int
	p    lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("calc: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune and updates the lexer's position info.
func (l *lexer) readRune() (rune, error) {
	if n := len(l.back); n > 0 {
		r := l.back[n-1]
		l.back = l.back[:n-1]
		l.rune++
		return r, nil
	}
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads r and updates the lexer's position info.
func (l *lexer) unreadRune(r rune) {
	l.back = append(l.back, r)
	l.rune--
}

// peek returns the next rune without consuming it.
func (l *lexer) peek() (rune, error) {
	r, err := l.readRune()
	if err == nil {
		l.unreadRune(r)
	}
	return r, err
}

// next scans the next token from the input. Once the input is exhausted, every
// call returns an EOF token.
func (l *lexer) next() (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{kind: tokenEOF, pos: l.rune}, nil
	}
	defer l.buf.Reset()
	for {
		tok := lexToken{pos: l.rune}
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case r == '#':
			if err := l.skipComment(); err != nil {
				return tok, err
			}
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9':
			return l.scanNum(tok, r)
		case r == '_', unicode.IsLetter(r):
			return l.scanIdent(tok, r)
		case r == '\'', r == '"':
			return l.scanString(tok, r)
		case r == ',':
			tok.text = ","
			tok.kind = tokenSep
			return tok, nil
		case strings.ContainsRune(openbrackets, r):
			tok.text = string(r)
			tok.kind = tokenOpen
			return tok, nil
		case strings.ContainsRune(closebrackets, r):
			tok.text = string(r)
			tok.kind = tokenClose
			return tok, nil
		default:
			if r == '.' {
				// .5 is a number, but .x is attribute access.
				if d, err := l.peek(); err == nil && isdigit(d, 10) {
					return l.scanNum(tok, r)
				}
			}
			if hasOpPrefix(string(r)) {
				return l.scanOp(tok, r)
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error(tok.pos, "invalid character")
		}
	}
}

func (l *lexer) skipComment() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if r == '\n' {
			return nil
		}
	}
}

// scanNum scans a numeric literal beginning with first, which is a digit or
// a dot followed by a digit.
func (l *lexer) scanNum(tok lexToken, first rune) (lexToken, error) {
	tok.kind = tokenNum
	l.buf.WriteRune(first)
	if first == '0' {
		r, err := l.readRune()
		if err != nil && !errors.Is(err, io.EOF) {
			return tok, err
		}
		if err == nil {
			var base int
			switch r {
			case 'x', 'X':
				base = 16
			case 'o', 'O':
				base = 8
			case 'b', 'B':
				base = 2
			default:
				l.unreadRune(r)
			}
			if base != 0 {
				l.buf.WriteRune(r)
				n, err := l.scanDigits(tok.pos, base, true)
				if err != nil {
					return tok, err
				}
				if n == 0 {
					return tok, l.error(tok.pos, "invalid number literal")
				}
				return l.endNum(tok)
			}
		}
	}
	isreal := false
	if first == '.' {
		isreal = true
		if _, err := l.scanDigits(tok.pos, 10, false); err != nil {
			return tok, err
		}
	} else {
		if _, err := l.scanDigits(tok.pos, 10, true); err != nil {
			return tok, err
		}
		r, err := l.readRune()
		switch {
		case err != nil && !errors.Is(err, io.EOF):
			return tok, err
		case err != nil:
			// EOF; handled below.
		case r == '.':
			isreal = true
			l.buf.WriteRune(r)
			if _, err := l.scanDigits(tok.pos, 10, false); err != nil {
				return tok, err
			}
		default:
			l.unreadRune(r)
		}
	}
	r, err := l.readRune()
	switch {
	case err != nil && !errors.Is(err, io.EOF):
		return tok, err
	case err != nil:
		// EOF; nothing more to scan.
	case r == 'e', r == 'E':
		isreal = true
		l.buf.WriteRune(r)
		s, err := l.readRune()
		if err == nil {
			if s == '+' || s == '-' {
				l.buf.WriteRune(s)
			} else {
				l.unreadRune(s)
			}
		}
		n, err := l.scanDigits(tok.pos, 10, false)
		if err != nil {
			return tok, err
		}
		if n == 0 {
			return tok, l.error(tok.pos, "invalid number literal")
		}
	default:
		l.unreadRune(r)
	}
	if !isreal {
		s := l.buf.String()
		if len(s) > 1 && s[0] == '0' && strings.Trim(s, "0") != "" {
			return tok, l.error(tok.pos, "leading zeros in decimal integer literals are not permitted")
		}
	}
	return l.endNum(tok)
}

// endNum finishes a numeric literal, checking the rune after it.
func (l *lexer) endNum(tok lexToken) (lexToken, error) {
	tok.text = l.buf.String()
	r, err := l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return tok, nil
		}
		return tok, err
	}
	switch {
	case r == 'j', r == 'J':
		return tok, &ForbiddenError{Col: tok.pos, Construct: "imaginary literal"}
	case r == '.':
		// Attribute access like 1.5.real, left for the parser.
	case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
		l.buf.WriteRune(r)
		return tok, l.error(tok.pos, "invalid number literal")
	}
	l.unreadRune(r)
	return tok, nil
}

// scanDigits scans digits in the given base into the buffer, dropping single
// underscores between them. sep allows an underscore before the first digit,
// which is how a literal continues after its first digit or base prefix.
func (l *lexer) scanDigits(pos, base int, sep bool) (int, error) {
	n := 0
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			return n, err
		}
		if r == '_' {
			d, err := l.readRune()
			if !sep || err != nil || !isdigit(d, base) {
				l.buf.WriteRune('_')
				return n, l.error(pos, "invalid number literal")
			}
			r = d
		}
		if !isdigit(r, base) {
			l.unreadRune(r)
			return n, nil
		}
		l.buf.WriteRune(r)
		n++
		sep = true
	}
}

func isdigit(r rune, base int) bool {
	switch {
	case '0' <= r && r <= '9':
		return int(r-'0') < base
	case 'a' <= r && r <= 'f', 'A' <= r && r <= 'F':
		return base == 16
	}
	return false
}

func (l *lexer) scanIdent(tok lexToken, first rune) (lexToken, error) {
	l.buf.WriteRune(first)
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return tok, err
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			l.unreadRune(r)
			break
		}
		l.buf.WriteRune(r)
	}
	tok.text = l.buf.String()
	tok.kind = tokenIdent
	if _, ok := keywords[tok.text]; ok {
		tok.kind = tokenKeyword
	}
	return tok, nil
}

// scanString scans a quoted string literal. The calculator has no strings,
// but recognizing them lets the parser say so.
func (l *lexer) scanString(tok lexToken, quote rune) (lexToken, error) {
	l.buf.WriteRune(quote)
	esc := false
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return tok, l.error(tok.pos, "unterminated string literal")
			}
			return tok, err
		}
		if r == '\n' {
			return tok, l.error(tok.pos, "unterminated string literal")
		}
		l.buf.WriteRune(r)
		switch {
		case esc:
			esc = false
		case r == '\\':
			esc = true
		case r == quote:
			tok.text = l.buf.String()
			tok.kind = tokenString
			return tok, nil
		}
	}
}

// scanOp scans the longest operator beginning with first.
func (l *lexer) scanOp(tok lexToken, first rune) (lexToken, error) {
	s := string(first)
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return tok, err
		}
		if !hasOpPrefix(s + string(r)) {
			l.unreadRune(r)
			break
		}
		s += string(r)
	}
	// Back off from prefixes like ".." that are not operators themselves.
	for !operators[s] {
		r, sz := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-sz]
		if s == "" {
			l.buf.WriteRune(first)
			return tok, l.error(tok.pos, "invalid character")
		}
		l.unreadRune(r)
	}
	tok.text = s
	tok.kind = tokenOp
	return tok, nil
}

func (l *lexer) error(pos int, msg string) error {
	return &SyntaxError{Col: pos, Msg: msg + " " + strconv.Quote(l.buf.String())}
}
