package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ai-agents-2030/AppAgent/internal/output"
	"github.com/ai-agents-2030/AppAgent/internal/platform"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List attached Android devices",
	Long:  "List the devices adb reports with their serial and state.",
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.Flags().Bool("ready", false, "Only list devices in the \"device\" state")
}

func runDevices(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider(providerOptions(appConfig.Android, ""))
	if err != nil {
		return err
	}
	if provider.DeviceLister == nil {
		return fmt.Errorf("device listing not available")
	}
	ready, _ := cmd.Flags().GetBool("ready")

	devices, err := provider.DeviceLister.Devices(cmd.Context())
	if err != nil {
		return err
	}
	entries := make([]platform.Device, 0, len(devices))
	for _, d := range devices {
		if ready && d.State != "device" {
			continue
		}
		entries = append(entries, d)
	}
	return output.Print(entries)
}
