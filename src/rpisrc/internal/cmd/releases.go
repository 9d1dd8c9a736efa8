package cmd

import (
	semver "github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/bitswalk/rpisrc/src/rpisrc/internal/firmware"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/output"
)

// releaseInfo is the serializable view of one discovered release.
type releaseInfo struct {
	Version     string `json:"version" yaml:"version"`
	BaseVersion string `json:"base_version" yaml:"base_version"`
	Class       string `json:"class" yaml:"class"`
	Suffix      string `json:"suffix" yaml:"suffix"`
	Family      string `json:"family" yaml:"family"`
}

var releasesCmd = &cobra.Command{
	Use:   "releases <build-id>",
	Short: "List the kernel releases of a firmware build",
	Long: `Enumerates the per-architecture kernel releases shipped with a
firmware build, without downloading or preparing anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runReleases,
}

func runReleases(cmd *cobra.Command, args []string) error {
	c := getClient()

	set, err := firmware.EnumerateReleases(cmd.Context(), c, logger, args[0])
	if err != nil {
		return err
	}

	infos := make([]releaseInfo, 0, set.Len())
	for _, rel := range set.Releases() {
		label, err := rel.Label()
		if err != nil {
			return err
		}
		family, err := rel.Suffix.Family()
		if err != nil {
			return err
		}
		base := rel.BaseVersion()
		if v, err := semver.NewVersion(base); err == nil {
			base = v.String()
		}
		infos = append(infos, releaseInfo{
			Version:     rel.Version,
			BaseVersion: base,
			Class:       label,
			Suffix:      string(rel.Suffix),
			Family:      string(family),
		})
	}

	switch getOutputFormat() {
	case "json":
		return output.PrintJSON(infos)
	case "yaml":
		return output.PrintYAML(infos)
	}

	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{info.Version, info.BaseVersion, info.Class, info.Family}
	}
	output.PrintTable([]string{"VERSION", "BASE", "CLASS", "FAMILY"}, rows)
	return nil
}
