//go:build stlog_max_trace

package stlog

const (
	overrideSet   = 1
	overrideLevel = LevelTrace
)
