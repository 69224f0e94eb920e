//go:build stlog_max_error

package stlog

const (
	overrideSet   = 1
	overrideLevel = LevelError
)
