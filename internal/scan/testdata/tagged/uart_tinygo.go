//go:build tinygo

package firmware

import "github.com/tarmac-project/stlog"

const (
	UartDown stlog.ErrorSite = iota // uart down
)
