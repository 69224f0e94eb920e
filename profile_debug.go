//go:build !stlog_release

package stlog

const profileLevel = LevelTrace
