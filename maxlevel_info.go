//go:build stlog_max_info

package stlog

const (
	overrideSet   = 1
	overrideLevel = LevelInfo
)
