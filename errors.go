package timon

import (
	"fmt"
	"strings"
)

// ErrorKind identifies which stage of the pipeline raised a TimonError
// (spec §7). Every kind is fatal: the pipeline stops at the first one.
type ErrorKind string

const (
	LexError       ErrorKind = "LexError"
	ParseError     ErrorKind = "ParseError"
	NameError      ErrorKind = "NameError"
	TypeError      ErrorKind = "TypeError"
	ArithmeticError ErrorKind = "ArithmeticError"
	ArityError     ErrorKind = "ArityError"
)

// TimonError is the single diagnostic type produced anywhere in the
// pipeline. Its Error() form is exactly "KIND at LINE:COL: message".
type TimonError struct {
	Kind ErrorKind
	Pos  Position
	Msg  string
}

func newError(kind ErrorKind, pos Position, format string, args ...any) *TimonError {
	return &TimonError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *TimonError) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Pos.Line, e.Pos.Col, e.Msg)
}

// wrapOpError turns the arithmetic package's internal opError into the
// TypeError/ArithmeticError-flavored TimonError at the position of the
// offending expression.
func wrapOpError(err error, pos Position) *TimonError {
	if oe, ok := err.(*opError); ok {
		kind := TypeError
		if oe.kind == "Arithmetic" {
			kind = ArithmeticError
		}
		return newError(kind, pos, "%s", oe.msg)
	}
	return newError(TypeError, pos, "%s", err.Error())
}

// Snippet renders e as a caret-annotated excerpt of src (one line of context
// on each side, the offending line, and a caret under the 1-based column).
// The CLI and REPL in cmd/timon print the plain Error() form instead.
func (e *TimonError) Snippet(src string) string {
	lines := strings.Split(src, "\n")
	line := e.Pos.Line
	col := e.Pos.Col
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", e.Error())
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
