package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every typed error in this package matches its sentinel with [errors.Is], so
// callers may test the category without a type assertion.
var (
	ErrLex            = NewError("lex error")
	ErrParse          = NewError("parse error")
	ErrNotCallable    = NewError("value is not callable")
	ErrArity          = NewError("argument count mismatch")
	ErrRecursionLimit = NewError("recursion limit exceeded")
	ErrReadInput      = NewError("failed to read input")
	ErrSignature      = NewError("invalid signature")
	ErrQueryCompile   = NewError("query compilation failed")
	ErrConfig         = NewError("invalid configuration")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message. This lets a
// wrapped or attributed copy of a sentinel still match the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// LexError reports an invalid character or an unterminated string literal.
type LexError struct {
	Pos          Position
	Char         rune
	Unterminated bool   // string literal opened by Char never closed
	Source       string // optional, enables a source snippet
}

// Error implements the error interface.
func (e *LexError) Error() string {
	var detail string
	if e.Unterminated {
		detail = "unterminated string literal"
	} else {
		detail = "unexpected character " + strconv.QuoteRune(e.Char)
	}

	return describeAt("lex error", e.Pos, detail, e.Source)
}

// Is matches [ErrLex].
func (e *LexError) Is(target error) bool { return target == ErrLex }

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrLex.msg),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
		slog.String("char", string(e.Char)),
		slog.Bool("unterminated", e.Unterminated),
	)
}

// ParseError reports an unexpected token.
type ParseError struct {
	Pos      Position
	Expected string
	Found    string
	Source   string // optional, enables a source snippet
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	detail := "expected " + e.Expected
	if e.Found != "" {
		detail += ", found " + e.Found
	}

	return describeAt("parse error", e.Pos, detail, e.Source)
}

// Is matches [ErrParse].
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrParse.msg),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
		slog.String("expected", e.Expected),
		slog.String("found", e.Found),
	)
}

// NotCallableError reports a call whose target is not a [Function].
type NotCallableError struct {
	Callee string // source text of the call target
	Kind   Kind   // kind of value the target evaluated to
	Pos    Position
}

// Error implements the error interface.
func (e *NotCallableError) Error() string {
	return ErrNotCallable.msg + ": " + e.Callee +
		" (" + e.Kind.String() + " at " + e.Pos.String() + ")"
}

// Is matches [ErrNotCallable].
func (e *NotCallableError) Is(target error) bool { return target == ErrNotCallable }

// ArityError reports a [CompiledFunction] call with the wrong argument count.
type ArityError struct {
	Expected int
	Given    int
}

// Error implements the error interface.
func (e *ArityError) Error() string {
	return ErrArity.msg + ": expected " + strconv.Itoa(e.Expected) +
		", given " + strconv.Itoa(e.Given)
}

// Is matches [ErrArity].
func (e *ArityError) Is(target error) bool { return target == ErrArity }

// RecursionLimitError reports call nesting deeper than the engine allows.
type RecursionLimitError struct {
	Limit int
	Trace []string // innermost frames, most recent last
}

// Error implements the error interface.
func (e *RecursionLimitError) Error() string {
	msg := ErrRecursionLimit.msg + " (" + strconv.Itoa(e.Limit) + ")"
	if len(e.Trace) > 0 {
		msg += ": " + strings.Join(e.Trace, " → ")
	}

	return msg
}

// Is matches [ErrRecursionLimit].
func (e *RecursionLimitError) Is(target error) bool {
	return target == ErrRecursionLimit
}

// describeAt formats a positioned diagnostic. With source available it
// appends the offending line and a caret under the column.
func describeAt(kind string, pos Position, detail, source string) string {
	var buf strings.Builder

	buf.WriteString(kind)
	buf.WriteString(" at line ")
	buf.WriteString(strconv.Itoa(pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(pos.Column))
	buf.WriteString(": ")
	buf.WriteString(detail)

	if source == "" {
		return buf.String()
	}

	lines := strings.Split(source, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return buf.String()
	}

	num := strconv.Itoa(pos.Line)

	buf.WriteString("\n  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(lines[pos.Line-1])
	buf.WriteRune('\n')

	// 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(num)+5)
	if pos.Column > 0 {
		padding += strings.Repeat(" ", pos.Column-1)
	}

	buf.WriteString(padding)
	buf.WriteString("^")

	return buf.String()
}
