package global

import (
	"sync/atomic"

	"github.com/tarmac-project/stlog"
)

type binding struct {
	logger stlog.GlobalLogger
}

// slot is written once by Set and only read afterwards.
var slot atomic.Pointer[binding]

// Set binds g as the program's global logger.
func Set(g stlog.GlobalLogger) error {
	if g == nil {
		return stlog.ErrNilLogger
	}
	if !slot.CompareAndSwap(nil, &binding{logger: g}) {
		return stlog.ErrDuplicateGlobalBinding
	}
	return nil
}

// MustSet is like Set but panics on failure.
func MustSet(g stlog.GlobalLogger) {
	if err := Set(g); err != nil {
		panic(err)
	}
}

// Bound reports whether a global logger has been set.
func Bound() bool {
	return slot.Load() != nil
}

// Logger returns the bound global logger. It panics with
// stlog.ErrMissingGlobalBinding when nothing is bound.
func Logger() stlog.GlobalLogger {
	b := slot.Load()
	if b == nil {
		panic(stlog.ErrMissingGlobalBinding)
	}
	return b.logger
}

// Error logs an error-level call site through the global logger.
func Error(s stlog.ErrorSite) { dispatch(stlog.MaxLevel, stlog.LevelError, uint8(s)) }

// Warn logs a warn-level call site through the global logger.
func Warn(s stlog.WarnSite) { dispatch(stlog.MaxLevel, stlog.LevelWarn, uint8(s)) }

// Info logs an info-level call site through the global logger.
func Info(s stlog.InfoSite) { dispatch(stlog.MaxLevel, stlog.LevelInfo, uint8(s)) }

// Debug logs a debug-level call site through the global logger.
func Debug(s stlog.DebugSite) { dispatch(stlog.MaxLevel, stlog.LevelDebug, uint8(s)) }

// Trace logs a trace-level call site through the global logger.
func Trace(s stlog.TraceSite) { dispatch(stlog.MaxLevel, stlog.LevelTrace, uint8(s)) }

func dispatch(max, level stlog.Level, ordinal uint8) {
	if !level.EnabledAt(max) {
		return
	}
	stlog.SendGlobal(level, Logger(), ordinal)
}
