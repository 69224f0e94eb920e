package stlog

import (
	"fmt"
	"strings"
)

// Level is the severity of a call site. Levels are ordered by verbosity, so
// a call is live when its level is not above MaxLevel.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// MaxRecords is the capacity of one level table. The wire payload is a single byte.
const MaxRecords = 256

var levelNames = [...]string{"off", "error", "warn", "info", "debug", "trace"}

// Levels lists the levels that own a table, most severe first.
var Levels = [...]Level{LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}

// String returns the lower-case name of the level.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// Valid reports whether the level owns a table.
func (l Level) Valid() bool {
	return l >= LevelError && l <= LevelTrace
}

// ParseLevel returns the level named s, ignoring case. "warning" is accepted for LevelWarn.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		return LevelWarn, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
