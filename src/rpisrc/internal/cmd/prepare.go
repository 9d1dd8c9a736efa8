package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bitswalk/rpisrc/src/common/errors"
	"github.com/bitswalk/rpisrc/src/common/paths"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/fetch"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/kbuild"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/prep"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/release"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <build-id>",
	Short: "Download and prepare kernel sources for a firmware build",
	Long: `Downloads the kernel sources matching a firmware build identifier,
extracts them into per-release directories, installs the matching
configuration and symbol versions, and runs 'make modules_prepare'.`,
	Args: cobra.ExactArgs(1),
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().StringP("dest", "d", "/", "Destination root directory")
	prepareCmd.Flags().StringP("workdir", "w", "~/.cache/rpisrc", "Working directory for downloaded archives")
	prepareCmd.Flags().StringP("release", "r", "", "Restrict to one release class (v6, v7, v7l, v8, 2712)")
	prepareCmd.Flags().String("config", string(kbuild.ConfigModule), "Config acquisition mode: module, proc, skip")
	prepareCmd.Flags().String("prep", string(kbuild.PrepRaspiOS), "Preparation mode: raspios, generic")
	prepareCmd.Flags().String("extraversion", "", "Extra version tag inserted into the directory name")
	prepareCmd.Flags().String("localversion", "", "Value patched into CONFIG_LOCALVERSION")
	prepareCmd.Flags().Bool("no-symlink", false, "Do not create the lib/modules build symlink")
}

func runPrepare(cmd *cobra.Command, args []string) error {
	buildID := args[0]
	if buildID == "" {
		return errors.ErrMissingBuildID
	}

	configFlag, _ := cmd.Flags().GetString("config")
	configMode, err := kbuild.ParseConfigMode(configFlag)
	if err != nil {
		return err
	}

	prepFlag, _ := cmd.Flags().GetString("prep")
	prepMode, err := kbuild.ParsePrepMode(prepFlag)
	if err != nil {
		return err
	}

	releaseClass, _ := cmd.Flags().GetString("release")
	if releaseClass != "" {
		if _, err := release.ParseLabel(releaseClass); err != nil {
			return err
		}
	}

	dest, _ := cmd.Flags().GetString("dest")
	workdir, _ := cmd.Flags().GetString("workdir")
	extraVersion, _ := cmd.Flags().GetString("extraversion")
	localVersion, _ := cmd.Flags().GetString("localversion")
	noSymlink, _ := cmd.Flags().GetBool("no-symlink")

	opts := prep.Options{
		BuildID:       buildID,
		DestRoot:      paths.Expand(dest),
		WorkDir:       paths.Expand(workdir),
		ExtraVersion:  extraVersion,
		LocalVersion:  localVersion,
		ReleaseClass:  releaseClass,
		ConfigMode:    configMode,
		PrepMode:      prepMode,
		CreateSymlink: !noSymlink,
	}

	runner := prep.NewRunner(getClient(), fetch.NewDownloader(nil, logger), logger)
	return runner.Run(cmd.Context(), opts)
}
