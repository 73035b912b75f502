package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error produced by this package is derived from one of these and
// matches it with [errors.Is].
var (
	ErrLex               = NewError("lex error")
	ErrParse             = NewError("parse error")
	ErrUndefinedName     = NewError("undefined name")
	ErrUndefinedFunction = NewError("undefined function")
	ErrType              = NewError("type error")
	ErrArity             = NewError("arity mismatch")
	ErrArithmetic        = NewError("arithmetic error")
	ErrIndex             = NewError("index out of range")
	ErrSource            = NewError("source error")
	ErrRuntime           = NewError("runtime error")
	ErrCallDepth         = NewError("maximum call depth exceeded")
	ErrCanceled          = NewError("execution canceled")
	ErrReadInput         = NewError("failed to read input")
)

// Position identifies a location in source text.
// Line and Column are 1-based; Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// IsValid reports whether p refers to an actual source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	base   *Error // sentinel this error was derived from
	msg    string
	detail string
	file   string
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
	pos    Position
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
//
// The message has the form "[file:]line:col: msg[: detail][: cause]", where
// each part is omitted when unset.
func (e *Error) Error() string {
	part := make([]string, 0, 4)

	if e.pos.IsValid() {
		loc := e.pos.String()
		if e.file != "" {
			loc = e.file + ":" + loc
		}

		part = append(part, loc)
	} else if e.file != "" {
		part = append(part, e.file)
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, e.detail)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from (or e itself).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t == e || (e.base != nil && t == e.base)
}

// Position returns the source position attached to the error, if any.
func (e *Error) Position() Position { return e.pos }

// File returns the name of the source file the error occurred in, if known.
func (e *Error) File() string { return e.file }

// Attrs returns the structured attributes attached to the error.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.file != "" {
		attrs = append(attrs, slog.String("file", e.file))
	}

	if e.pos.IsValid() {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// derive copies e, remembering the sentinel it came from.
func (e *Error) derive() *Error {
	c := *e
	if c.base == nil {
		c.base = e
	}

	return &c
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// Detail sets the human-readable detail shown after the message.
func (e *Error) Detail(detail string) *Error {
	c := e.derive()
	c.detail = detail

	return c
}

// WithPosition attaches a source position.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.derive()
	c.pos = pos

	return c
}

// WithFile attaches a source file name unless one is already set.
// Errors raised inside a sourced file keep the innermost file name.
func (e *Error) WithFile(name string) *Error {
	if e.file != "" || name == "" {
		return e
	}

	c := e.derive()
	c.file = name

	return c
}

// FormatError renders err with the offending line of source and a caret
// pointing at the error column. Errors without a position, or that belong
// to a different file than source, are rendered as their message alone.
func FormatError(err error, name, source string) string {
	ee := &Error{}
	if !errors.As(err, &ee) || !ee.pos.IsValid() ||
		(ee.file != "" && ee.file != name) {
		return err.Error()
	}

	lines := strings.Split(source, "\n")

	var buf strings.Builder

	buf.WriteString(err.Error())
	buf.WriteRune('\n')

	if ee.pos.Line > len(lines) {
		return buf.String()
	}

	// Print the line with line number
	buf.WriteString("  ")
	buf.WriteString(strconv.Itoa(ee.pos.Line))
	buf.WriteString(" | ")
	buf.WriteString(lines[ee.pos.Line-1])
	buf.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(ee.pos.Line))+5)
	if ee.pos.Column > 0 {
		padding += strings.Repeat(" ", ee.pos.Column-1)
	}

	buf.WriteString(padding + "^\n")

	return buf.String()
}
