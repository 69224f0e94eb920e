package app

import "github.com/tarmac-project/stlog"

const Ignored stlog.ErrorSite = 5 // ignored
