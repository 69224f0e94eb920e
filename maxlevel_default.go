//go:build !stlog_max_off && !stlog_max_error && !stlog_max_warn && !stlog_max_info && !stlog_max_debug && !stlog_max_trace

package stlog

const (
	overrideSet   = 0
	overrideLevel = LevelOff
)
