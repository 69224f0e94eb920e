package mismatch

import "github.com/tarmac-project/stlog"

const (
	First stlog.WarnSite = iota + 1 // first
)
