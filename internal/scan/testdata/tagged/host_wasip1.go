package firmware

import "github.com/tarmac-project/stlog"

const (
	HostGone stlog.WarnSite = iota // host gone
)
