package app

import "github.com/tarmac-project/stlog"

const (
	Retry stlog.WarnSite = iota // retrying
)

const (
	Shutdown stlog.InfoSite = iota + 1 // shutting down
)
