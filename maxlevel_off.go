//go:build stlog_max_off

package stlog

const (
	overrideSet   = 1
	overrideLevel = LevelOff
)
