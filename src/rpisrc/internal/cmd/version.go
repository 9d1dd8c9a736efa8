package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bitswalk/rpisrc/src/rpisrc/internal/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	switch getOutputFormat() {
	case "json":
		return output.PrintJSON(VersionInfo.Map())
	case "yaml":
		return output.PrintYAML(VersionInfo.Map())
	}

	fmt.Println(VersionInfo.Full())
	return nil
}
