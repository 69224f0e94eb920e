//go:build stlog_max_debug

package stlog

const (
	overrideSet   = 1
	overrideLevel = LevelDebug
)
