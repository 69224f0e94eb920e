package nobinding

import (
	"github.com/tarmac-project/stlog"
	"github.com/tarmac-project/stlog/global"
)

const Tick stlog.TraceSite = iota // tick

func run() {
	global.Trace(Tick)
}
