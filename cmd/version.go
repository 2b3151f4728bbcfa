package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ai-agents-2030/AppAgent/internal/output"
	"github.com/ai-agents-2030/AppAgent/internal/version"
)

type versionInfo struct {
	Version   string `yaml:"version"    json:"version"`
	Commit    string `yaml:"commit"     json:"commit"`
	BuildDate string `yaml:"build_date" json:"build_date"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Print(versionInfo{Version: version.Version, Commit: version.Commit, BuildDate: version.BuildDate})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
