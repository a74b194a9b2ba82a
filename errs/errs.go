// Package errs defines the error categories reported by the gabac packages.
//
// Every error returned by the coding packages can be classified with
// errors.Is against one of the sentinels ErrConfig, ErrExhausted and
// ErrRange, regardless of the context added while it travels up.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies an error category.
type Kind uint8

// Error categories.
const (
	// KindConfig marks unsupported or contradictory configurations.
	KindConfig Kind = iota + 1
	// KindExhausted marks a decoder running past its byte budget.
	KindExhausted
	// KindRange marks parameters or values outside their domain.
	KindRange
)

var kindStrings = map[Kind]string{
	KindConfig:    "configuration error",
	KindExhausted: "bitstream exhausted",
	KindRange:     "parameter out of range",
}

func (k Kind) String() string {
	s, ok := kindStrings[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return s
}

// Error is the error type of the gabac packages.
type Error struct {
	Kind Kind
	Msg  string
}

// Error returns the message with the prefix "gabac: ".
func (e *Error) Error() string {
	if e.Msg == "" {
		return "gabac: " + e.Kind.String()
	}
	return "gabac: " + e.Kind.String() + ": " + e.Msg
}

// Is reports whether target is the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrConfig    = &Error{Kind: KindConfig}
	ErrExhausted = &Error{Kind: KindExhausted}
	ErrRange     = &Error{Kind: KindRange}
)

func newError(k Kind, format string, a ...interface{}) error {
	return errors.WithStack(&Error{Kind: k, Msg: fmt.Sprintf(format, a...)})
}

// Config returns a configuration error.
func Config(format string, a ...interface{}) error {
	return newError(KindConfig, format, a...)
}

// Exhausted returns a bitstream exhaustion error.
func Exhausted(format string, a ...interface{}) error {
	return newError(KindExhausted, format, a...)
}

// Range returns a parameter range error.
func Range(format string, a ...interface{}) error {
	return newError(KindRange, format, a...)
}

// KindOf returns the kind of the gabac error wrapped by err. It returns zero
// if err doesn't wrap an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
