package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bitswalk/rpisrc/src/rpisrc/internal/firmware"
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/output"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <build-id>",
	Short: "Resolve a firmware build to its kernel source commit",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	commit, err := firmware.ResolveCommit(cmd.Context(), getClient(), args[0])
	if err != nil {
		return err
	}

	switch getOutputFormat() {
	case "json":
		return output.PrintJSON(map[string]string{"build": args[0], "commit": commit})
	case "yaml":
		return output.PrintYAML(map[string]string{"build": args[0], "commit": commit})
	}

	output.PrintMessage(commit)
	return nil
}
