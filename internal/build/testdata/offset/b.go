package offset

import "github.com/tarmac-project/stlog"

const (
	Idle  stlog.InfoSite = iota // idle
	Sleep                       // sleeping
)
