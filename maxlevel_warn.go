//go:build stlog_max_warn

package stlog

const (
	overrideSet   = 1
	overrideLevel = LevelWarn
)
