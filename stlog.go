package stlog

import "fmt"

// Logger is a local transport. Log must send b, and only b, through some
// interface.
type Logger interface {
	Log(b byte) error
}

// LevelLogger is implemented by transports that carry the level on a channel
// of their own. When a Logger implements it, LogLevel is used instead of Log.
type LevelLogger interface {
	Logger
	LogLevel(level Level, b byte) error
}

// GlobalLogger is the transport bound with global.Set. It cannot fail and
// must be safe to call concurrently and reentrantly.
type GlobalLogger interface {
	Log(b byte)
}

// GlobalLevelLogger is the GlobalLogger counterpart of LevelLogger.
type GlobalLevelLogger interface {
	GlobalLogger
	LogLevel(level Level, b byte)
}

// Site types. A call site is a constant of one of these types whose line
// comment holds the message and whose value is its position in the level's
// declaration block.
type (
	ErrorSite uint8
	WarnSite  uint8
	InfoSite  uint8
	DebugSite uint8
	TraceSite uint8
)

// TransportError is returned when a local logger fails to send an ordinal.
type TransportError struct {
	Level   Level
	Ordinal uint8
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s ordinal %d: %v", ErrTransport, e.Level, e.Ordinal, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// Error logs an error-level call site through l.
func Error(l Logger, s ErrorSite) error { return emit(MaxLevel, LevelError, l, uint8(s)) }

// Warn logs a warn-level call site through l.
func Warn(l Logger, s WarnSite) error { return emit(MaxLevel, LevelWarn, l, uint8(s)) }

// Info logs an info-level call site through l.
func Info(l Logger, s InfoSite) error { return emit(MaxLevel, LevelInfo, l, uint8(s)) }

// Debug logs a debug-level call site through l.
func Debug(l Logger, s DebugSite) error { return emit(MaxLevel, LevelDebug, l, uint8(s)) }

// Trace logs a trace-level call site through l.
func Trace(l Logger, s TraceSite) error { return emit(MaxLevel, LevelTrace, l, uint8(s)) }

// emit sends ordinal through l when level passes max. A filtered call is a
// successful no-op.
func emit(max, level Level, l Logger, ordinal uint8) error {
	if !level.EnabledAt(max) {
		return nil
	}

	var err error
	if ll, ok := l.(LevelLogger); ok {
		err = ll.LogLevel(level, ordinal)
	} else {
		err = l.Log(ordinal)
	}
	if err != nil {
		return &TransportError{Level: level, Ordinal: ordinal, Err: err}
	}
	return nil
}

// SendGlobal sends ordinal through g on the channel of level. Filtering is
// the caller's job; it backs the implicit logging calls of package global.
func SendGlobal(level Level, g GlobalLogger, ordinal uint8) {
	if gl, ok := g.(GlobalLevelLogger); ok {
		gl.LogLevel(level, ordinal)
		return
	}
	g.Log(ordinal)
}

// BestEffort adapts a level logger into a global logger by discarding its
// errors. Use it only with transports whose failures are not actionable.
func BestEffort(l LevelLogger) GlobalLevelLogger {
	return bestEffort{l: l}
}

type bestEffort struct {
	l LevelLogger
}

func (b bestEffort) Log(ordinal byte) { _ = b.l.Log(ordinal) }

func (b bestEffort) LogLevel(level Level, ordinal byte) { _ = b.l.LogLevel(level, ordinal) }
