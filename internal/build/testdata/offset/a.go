package offset

import "github.com/tarmac-project/stlog"

const (
	Boot  stlog.InfoSite = iota // booting
	Ready                       // ready
)
