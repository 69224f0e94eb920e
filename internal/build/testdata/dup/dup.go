package dup

import "github.com/tarmac-project/stlog"

const (
	Open  stlog.ErrorSite = iota // failed
	Close                        // failed
)
