// Package cmd wires up the rpisrc command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bitswalk/rpisrc/src/common/cli"
	commonerrors "github.com/bitswalk/rpisrc/src/common/errors"
	"github.com/bitswalk/rpisrc/src/common/logs"
	"github.com/bitswalk/rpisrc/src/common/version"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/firmware"
)

var (
	// VersionInfo holds version information - set at build time via ldflags
	VersionInfo = version.New()

	// Configuration file path
	cfgFile string

	// Output format (table, json or yaml)
	outputFormat string

	// Logger, initialized in the persistent pre-run
	logger *logs.Logger
)

// Linker variables - set via ldflags at build time
var (
	Version        = "dev"
	ReleaseName    = "Bramble"
	ReleaseVersion = "0.0.0"
	BuildDate      = "unknown"
	GitCommit      = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rpisrc",
	Short: "Raspberry Pi kernel source preparation",
	Long: `rpisrc downloads and prepares Raspberry Pi kernel sources for
out-of-tree kernel module builds.

Given a firmware build identifier it resolves the matching kernel source
commit, enumerates the per-architecture kernel releases of that build,
extracts the sources into per-release directories under <dest>/usr/src,
installs the matching .config and Module.symvers, and runs the kernel
build system's modules_prepare step (cross-compiling when needed).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		logger = cli.InitLogger("")
		return nil
	},
}

// Execute runs the root command
func Execute() {
	VersionInfo.Version = Version
	VersionInfo.ReleaseName = ReleaseName
	VersionInfo.ReleaseVersion = ReleaseVersion
	VersionInfo.BuildDate = BuildDate
	VersionInfo.GitCommit = GitCommit

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if commonerrors.IsUsage(err) {
			fmt.Fprintln(os.Stderr, "Run 'rpisrc --help' for usage.")
		}
		os.Exit(1)
	}
}

func init() {
	cli.RegisterConfigFlag(rootCmd, &cfgFile, "~/.rpisrc/rpisrc.yaml")

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().String("base-url", "", "Firmware repository base URL")

	cli.RegisterLogFlags(rootCmd)

	_ = viper.BindPFlag("firmware.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	viper.SetDefault("firmware.base_url", firmware.DefaultBaseURL)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(releasesCmd)
	rootCmd.AddCommand(prepareCmd)
}

func initConfig() error {
	opts := cli.ConfigOptions{
		ConfigName: "rpisrc",
		ConfigType: "yaml",
		EnvPrefix:  "RPISRC",
		SearchPaths: []string{
			"/etc/rpisrc",
			"~/.rpisrc",
		},
	}
	opts.ConfigFile = cfgFile

	return cli.InitConfig(opts)
}

// getClient returns a firmware metadata client for the configured
// repository base URL.
func getClient() *firmware.Client {
	return firmware.New(viper.GetString("firmware.base_url"))
}

// getOutputFormat returns the current output format
func getOutputFormat() string {
	return outputFormat
}
