package calc

import "strconv"

// SyntaxError is an error indicating input that does not fit the expression
// grammar. It implements InputError.
type SyntaxError struct {
	// Col is the position of the token where parsing failed.
	Col int
	// Msg describes the problem.
	Msg string
}

func (err *SyntaxError) Error() string {
	return errpos(err.Col, err.Msg)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// ForbiddenError is an error indicating a construct that is meaningful in a
// general-purpose language but is deliberately not part of the calculator:
// attribute access, subscripts, strings, comparison and bitwise operators,
// keyword arguments and the like. It implements InputError.
type ForbiddenError struct {
	// Col is the position of the token that introduced the construct.
	Col int
	// Construct names the construct.
	Construct string
}

func (err *ForbiddenError) Error() string {
	return errpos(err.Col, err.Construct+" is not allowed")
}

func (err *ForbiddenError) Pos() int {
	return err.Col
}

// Names of limits reported in LimitError.
const (
	LimitDepth = "depth"
	LimitArgs  = "arguments"
)

// LimitError is an error indicating an expression that exceeds a configured
// limit. It implements InputError. Errors from evaluation rather than parsing
// have a Col of 0.
type LimitError struct {
	// Col is the position of the token that exceeded the limit, if known.
	Col int
	// Limit is LimitDepth or LimitArgs.
	Limit string
	// Max is the configured limit.
	Max int
}

func (err *LimitError) Error() string {
	var msg string
	switch err.Limit {
	case LimitDepth:
		msg = "expression nested too deeply (limit " + strconv.Itoa(err.Max) + ")"
	case LimitArgs:
		msg = "too many arguments (limit " + strconv.Itoa(err.Max) + ")"
	default:
		msg = "exceeded " + err.Limit + " limit of " + strconv.Itoa(err.Max)
	}
	if err.Col <= 0 {
		return msg
	}
	return errpos(err.Col, msg)
}

func (err *LimitError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input to Parse implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*ForbiddenError)(nil)
	_ InputError = (*LimitError)(nil)
)
