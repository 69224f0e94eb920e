// Package cmd holds the stlog subcommands.
package cmd

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "stlog",
	Short: "Build step and decoder for one byte logs",
	Long: `stlog assigns every call site a one byte ordinal per level, records the
message tables in the program's metadata region, and turns captured bytes back
into text.

Examples:
  # Embed the tables of the current package
  stlog generate .

  # Verify call sites without writing anything
  stlog check ./cmd/device ./internal/...

  # Decode a framed capture
  stlog decode --artifact device.wasm capture.bin`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		lvl, err := logrus.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return err
		}
		log.SetLevel(lvl)
		log.SetOutput(cmd.ErrOrStderr())
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .stlog.yaml in the working directory)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
}

// initConfig loads flags, STLOG_ environment variables and the config file,
// in that order of precedence.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".stlog")
	}

	viper.SetEnvPrefix("STLOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.WithError(err).Warn("Unable to read config file")
		}
		return
	}
	log.WithField("file", viper.ConfigFileUsed()).Debug("Loaded config file")
}
