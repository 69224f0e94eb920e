// Command stlog is the host side of stlog: it runs the build step over Go
// packages and decodes captured logs.
package main

import (
	"os"

	"github.com/tarmac-project/stlog/cmd/stlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
