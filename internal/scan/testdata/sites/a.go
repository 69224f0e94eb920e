package app

import (
	"github.com/tarmac-project/stlog"
	g "github.com/tarmac-project/stlog/global"
)

const (
	DiskFull stlog.ErrorSite = iota // disk-full
	Timeout                         // timeout
)

const Boot stlog.InfoSite = 0 // booting

// not a site
const limit = 3

func run() error {
	if err := g.Set(nil); err != nil {
		return err
	}
	g.Info(Boot)
	return nil
}
