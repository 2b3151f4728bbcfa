package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/ai-agents-2030/AppAgent/internal/annotate"
	"github.com/ai-agents-2030/AppAgent/internal/model"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture a screenshot, optionally labeled or gridded",
	Long: `Capture the device screen. With --mode labeled every catalog element is boxed
and tagged with its number; with --mode grid the screen is divided into the
numbered areas grid mode uses.`,
	RunE: runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("device", "", "Device serial (default: the only attached device)")
	screenshotCmd.Flags().String("mode", "labeled", "Annotation: raw, labeled, grid")
	screenshotCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	screenshotCmd.Flags().Float64("scale", 1.0, "Scale factor 0.1-1.0")
	screenshotCmd.Flags().Bool("dark", false, "Use the dark label style")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	serial, _ := cmd.Flags().GetString("device")
	mode, _ := cmd.Flags().GetString("mode")
	outPath, _ := cmd.Flags().GetString("output")
	scale, _ := cmd.Flags().GetFloat64("scale")
	dark, _ := cmd.Flags().GetBool("dark")
	if serial == "" {
		serial = appConfig.Android.Serial
	}
	if scale < 0.1 || scale > 1.0 {
		return fmt.Errorf("scale must be between 0.1 and 1.0, got %g", scale)
	}
	switch mode {
	case "raw", "labeled", "grid":
	default:
		return fmt.Errorf("unsupported mode: %s (use raw, labeled, or grid)", mode)
	}

	ctx := cmd.Context()
	provider, _, err := openDevice(ctx, appConfig.Android, serial)
	if err != nil {
		return err
	}
	if provider.Screenshotter == nil {
		return fmt.Errorf("screenshot not supported for this device")
	}

	dir, err := os.MkdirTemp("", "appagent-shot-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	shot, err := provider.Screenshotter.Screenshot(ctx, "screen", dir)
	if err != nil {
		return err
	}
	annotated := filepath.Join(dir, "annotated.png")
	switch mode {
	case "raw":
		annotated = shot
	case "grid":
		g, err := annotate.Grid(shot, annotated)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "grid: %d rows x %d cols\n", g.Rows, g.Cols)
	case "labeled":
		if provider.TreeReader == nil {
			return fmt.Errorf("hierarchy reading not available for this device")
		}
		tree, err := provider.TreeReader.ReadTree(ctx, "screen", dir)
		if err != nil {
			return err
		}
		catalog := model.BuildCatalog(tree.Nodes, appConfig.Agent.MinDist)
		if err := annotate.Labels(shot, annotated, catalog, dark); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "labeled %d elements\n", len(catalog))
	}

	img, err := imaging.Open(annotated)
	if err != nil {
		return err
	}
	if scale < 1.0 {
		img = imaging.Resize(img, int(float64(img.Bounds().Dx())*scale), 0, imaging.Lanczos)
	}

	if outPath != "" {
		return imaging.Save(img, outPath)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return err
	}
	encoder := base64.NewEncoder(base64.StdEncoding, os.Stdout)
	if _, err := encoder.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
