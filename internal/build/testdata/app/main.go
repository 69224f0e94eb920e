package main

import (
	"github.com/tarmac-project/stlog"
	"github.com/tarmac-project/stlog/global"
	"github.com/tarmac-project/stlog/stream"
)

const (
	DiskFull stlog.ErrorSite = iota // disk-full
	Timeout                         // timeout
)

const (
	Boot stlog.InfoSite = iota // booting
)

func main() {
	global.MustSet(stlog.BestEffort(stream.NewFramed(nil)))
	global.Info(Boot)
	global.Error(Timeout)
}
