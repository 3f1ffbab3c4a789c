// Package diag is the ambient logging sink for the lowering pipeline,
// wired at the same place the teacher wires its own pass sequencing: each
// boundary between one lowering step and the next gets a log line instead
// of a comment. It mirrors original_source/cpp/src/Lower.cpp's four-level
// log(n) convention (1 = pass names, 2 = full Stmt dump, 3 = per-buffer
// region detail, 4 = everything) on top of github.com/tliron/commonlog,
// grounded on kanso-lang-kanso/cmd/kanso-lsp/main.go's
// commonlog.Configure/commonlog.GetLogger pairing.
package diag

import "github.com/tliron/commonlog"

// Logger gates diagnostic output by level, the same four-level convention
// Lower.cpp's log(n) macro uses.
type Logger interface {
	// Logf emits a message at level if the configured verbosity allows it.
	Logf(level int, format string, args ...interface{})
}

type commonLogger struct {
	verbosity int
	log       commonlog.Logger
}

// New configures commonlog at the given verbosity (0 disables everything)
// and returns a Logger backed by it, scoped under the "halide.lower" name.
func New(verbosity int) Logger {
	commonlog.Configure(verbosity, nil)
	return &commonLogger{verbosity: verbosity, log: commonlog.GetLogger("halide.lower")}
}

func (c *commonLogger) Logf(level int, format string, args ...interface{}) {
	if level > c.verbosity {
		return
	}
	switch {
	case level <= 1:
		c.log.Infof(format, args...)
	case level == 2:
		c.log.Noticef(format, args...)
	default:
		c.log.Debugf(format, args...)
	}
}

// Noop is a Logger that discards everything, used where a caller needs a
// Logger but verbosity was never configured (e.g. library callers of
// lower.Lower that don't want commonlog's global state touched).
type Noop struct{}

func (Noop) Logf(int, string, ...interface{}) {}
