package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ai-agents-2030/AppAgent/internal/model"
	"github.com/ai-agents-2030/AppAgent/internal/output"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Print the element catalog of the current screen",
	Long: `Dump the UI hierarchy and print the addressable elements with the numeric
tags the model would see this round, their bounding boxes and centers.`,
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().String("device", "", "Device serial (default: the only attached device)")
	readCmd.Flags().Float64("min-dist", -1, "Focusable dedup distance in pixels (default: agent.min_dist)")
	readCmd.Flags().String("dir", "", "Keep the hierarchy dump in this directory")
	readCmd.Flags().Bool("clickable", false, "Only list clickable elements")
}

func runRead(cmd *cobra.Command, args []string) error {
	serial, _ := cmd.Flags().GetString("device")
	minDist, _ := cmd.Flags().GetFloat64("min-dist")
	dir, _ := cmd.Flags().GetString("dir")
	clickableOnly, _ := cmd.Flags().GetBool("clickable")
	if serial == "" {
		serial = appConfig.Android.Serial
	}
	if minDist < 0 {
		minDist = appConfig.Agent.MinDist
	}

	ctx := cmd.Context()
	provider, serial, err := openDevice(ctx, appConfig.Android, serial)
	if err != nil {
		return err
	}
	if provider.TreeReader == nil || provider.Screen == nil {
		return fmt.Errorf("hierarchy reading not available for this device")
	}

	if dir == "" {
		tmp, err := os.MkdirTemp("", "appagent-read-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	w, h, err := provider.Screen.Size(ctx)
	if err != nil {
		return err
	}
	tree, err := provider.TreeReader.ReadTree(ctx, "read", dir)
	if err != nil {
		return err
	}

	var catalog model.Catalog
	if clickableOnly {
		catalog = model.Collect(tree.Nodes, model.Clickable)
	} else {
		catalog = model.BuildCatalog(tree.Nodes, minDist)
	}
	return output.Print(output.NewReadResult(serial, w, h, catalog))
}
