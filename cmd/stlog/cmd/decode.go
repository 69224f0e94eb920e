package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tarmac-project/stlog/decoder"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [capture]",
	Short: "Decode a framed capture against an artifact",
	Long: `decode reads two byte [level, ordinal] frames from the capture file, or
standard input when none is given, and prints one line per event. The artifact
is the program image carrying the metadata region or its YAML manifest. Events
that do not decode are reported and skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		artifact := viper.GetString("artifact")
		if artifact == "" {
			return errors.New("--artifact is required")
		}

		d, err := decoder.Open(artifact)
		if err != nil {
			return err
		}
		log.WithField("fingerprint", fmt.Sprintf("%016x", d.Tables().Fingerprint)).Debug("Loaded tables")

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		out := cmd.OutOrStdout()
		failed := 0
		for line, err := range d.Stream(in) {
			var de *decoder.DecodeError
			switch {
			case errors.As(err, &de):
				failed++
				log.WithError(err).Warn("Skipping event")
			case err != nil:
				return err
			default:
				fmt.Fprintln(out, line)
			}
		}
		if failed > 0 {
			log.WithField("events", failed).Warn("Some events could not be decoded")
		}
		return nil
	},
}

func init() {
	decodeCmd.Flags().String("artifact", "", "program image or manifest holding the tables")
	rootCmd.AddCommand(decodeCmd)
}
