/*
Package xlog provides the Logger interface used for the debug output of the
coding packages.

The coding packages trace bins, contexts and sub-symbols. The output must be
switchable per package without paying for the formatting when it is off.
Therefore the packages hold a Logger variable and call the functions of this
package, which do nothing for a nil Logger.

The log.Logger type supports the interface directly. Zerolog converts a
zerolog.Logger, which the gabacgo command uses for all its output.
*/
package xlog

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the interface required for debug output. The log.Logger type
// supports this interface.
type Logger interface {
	Output(calldepth int, s string) error
}

// Print outputs the arguments using the logger. If the logger is nil nothing
// will be printed.
func Print(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprint(v...))
	}
}

// Printf prints the arguments using the format string. If the logger argument
// is nil nothing will be printed.
func Printf(l Logger, format string, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}

// Println prints the arguments and adds a newline. If the logger argument is
// nil nothing will be printed.
func Println(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintln(v...))
	}
}

// zlogger writes the messages as debug events.
type zlogger struct {
	l zerolog.Logger
}

func (z zlogger) Output(calldepth int, s string) error {
	z.l.Debug().Msg(strings.TrimSuffix(s, "\n"))
	return nil
}

// Zerolog returns a Logger writing every message as a debug event of l.
// The name is attached as component field.
func Zerolog(l zerolog.Logger, name string) Logger {
	return zlogger{l.With().Str("component", name).Logger()}
}
