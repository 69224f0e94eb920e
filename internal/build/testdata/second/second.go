package second

import (
	"github.com/tarmac-project/stlog/global"
	"github.com/tarmac-project/stlog/hostcall"
)

func init() {
	c, _ := hostcall.New(hostcall.Config{})
	global.MustSet(hostcall.Global(c))
}
