package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tarmac-project/stlog/metadata"
)

// Set at build time with -ldflags "-X .../cmd.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "stlog version %s\n", Version)
		fmt.Fprintf(out, "  Git commit:      %s\n", GitCommit)
		fmt.Fprintf(out, "  Region layout:   %d\n", metadata.Version)
		fmt.Fprintf(out, "  Go version:      %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
