package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tarmac-project/stlog"
	"github.com/tarmac-project/stlog/internal/build"
)

var generateCmd = &cobra.Command{
	Use:   "generate [dirs]",
	Short: "Assign ordinals and write the metadata outputs",
	Long: `generate scans the given package directories (default ".") for call site
constants, checks them and writes a Go file that embeds the metadata region.
With --embed=false only the YAML manifest is written and the program carries no
message text. Nothing is written if any check fails. Pass the --tags, --goos
and --goarch of the device build (for example --tags tinygo) so the files it
compiles are the files scanned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := build.Generate(buildConfig(args))
		if err != nil {
			return err
		}
		report(cmd, res)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [dirs]",
	Short: "Check call sites and global logger binding without writing",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := build.Run(buildConfig(args))
		if err != nil {
			return err
		}
		report(cmd, res)
		return nil
	},
}

func init() {
	buildFlags(generateCmd.Flags())
	generateCmd.Flags().Bool("embed", true, "write the Go file carrying the metadata region")
	generateCmd.Flags().String("output", "", "generated Go file (default zz_stlog.go in the first directory)")
	generateCmd.Flags().String("package", "", "package clause of the generated file (default the scanned package)")
	generateCmd.Flags().String("manifest", "", "write the YAML manifest to this path")

	buildFlags(checkCmd.Flags())

	rootCmd.AddCommand(generateCmd, checkCmd)
}

func buildFlags(fs *pflag.FlagSet) {
	fs.Bool("locations", false, "record file:line per call site and allow repeated text at distinct locations")
	fs.String("root", "", "directory recorded paths are relative to (default the working directory)")
	fs.StringSlice("tags", nil, "build tags of the device build, such as tinygo")
	fs.String("goos", "", "target operating system (default the host's)")
	fs.String("goarch", "", "target architecture (default the host's)")
}

func buildConfig(dirs []string) build.Config {
	return build.Config{
		Dirs:      dirs,
		Root:      viper.GetString("root"),
		Tags:      viper.GetStringSlice("tags"),
		GOOS:      viper.GetString("goos"),
		GOARCH:    viper.GetString("goarch"),
		Locations: viper.GetBool("locations"),
		Embed:     viper.GetBool("embed"),
		Output:    viper.GetString("output"),
		Package:   viper.GetString("package"),
		Manifest:  viper.GetString("manifest"),
		Log:       log,
	}
}

func report(cmd *cobra.Command, res *build.Result) {
	for _, level := range stlog.Levels {
		n, _ := res.Tables.Count(level)
		log.WithFields(logrus.Fields{"level": level.String(), "sites": n}).Debug("Level table")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d call sites in %d packages, fingerprint %016x\n", res.Sites(), len(res.Packages), res.Tables.Fingerprint)
}
