package types

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorTag string

const (
	LexingErrorTag  ErrorTag = "LexingError"
	ParsingErrorTag ErrorTag = "ParsingError"
)

// Exception is an error that can describe itself as a JSON-friendly value.
type Exception interface {
	error
	Exception() any
}

type Error struct {
	Tag ErrorTag
	Err error
	// Pos is the 1-based byte column of the offending input, or 0 if unknown.
	Pos int
}

var _ Exception = (*Error)(nil)

func NewLexingError(pos int, format string, args ...any) *Error {
	return &Error{Tag: LexingErrorTag, Err: fmt.Errorf(format, args...), Pos: pos}
}

func NewParsingError(pos int, format string, args ...any) *Error {
	return &Error{Tag: ParsingErrorTag, Err: fmt.Errorf(format, args...), Pos: pos}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Pos > 0 {
		fmt.Fprintf(&b, " (at %d)", e.Pos)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Exception() any {
	tags := []any{e.Tag}
	for err := errors.Unwrap(error(e)); err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}

	o := map[string]any{
		"tags": tags,
	}
	if e.Err != nil {
		o["message"] = e.Err.Error()
	}
	if e.Pos > 0 {
		o["position"] = e.Pos
	}
	return o
}

func IsLexingError(err error) bool {
	return hasTag(err, LexingErrorTag)
}

func IsParsingError(err error) bool {
	return hasTag(err, ParsingErrorTag)
}

func hasTag(err error, tag ErrorTag) bool {
	var e *Error
	return errors.As(err, &e) && e.Tag == tag
}
