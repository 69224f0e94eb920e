package bad

import "github.com/tarmac-project/stlog"

const (
	NoText  stlog.ErrorSite = iota
	Shifted stlog.ErrorSite = 1 << 2 // shifted
	_                                // blank
)
