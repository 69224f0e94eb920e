package local

import "github.com/tarmac-project/stlog"

func run(l stlog.Logger) error {
	const (
		Boot  stlog.InfoSite = iota // booting
		Ready                       // ready
	)
	if err := stlog.Info(l, Boot); err != nil {
		return err
	}
	return stlog.Info(l, Ready)
}
