package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ai-agents-2030/AppAgent/internal/config"
	"github.com/ai-agents-2030/AppAgent/internal/observability"
	"github.com/ai-agents-2030/AppAgent/internal/output"
	"github.com/ai-agents-2030/AppAgent/internal/version"
)

var (
	cfgFile   string
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "appagent",
	Short: "Operate Android apps with a multimodal model",
	Long: `AppAgent drives an Android device over adb. Each round it captures the screen,
labels the interactive elements, asks a multimodal model for the next action and
performs it, until the model reports the task finished or a round limit is hit.`,
	SilenceUsage: true,
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command and exits with the command's exit code.
// SIGINT and SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	observability.Sync()
	if err != nil {
		reportError(err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./config.yaml when present)")
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		observability.InitializeLogger(cfg.Logger)

		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		if pretty, err := rootCmd.PersistentFlags().GetBool("pretty"); err == nil && pretty {
			output.PrettyOutput = true
		}
		return nil
	}
	// Execute reports errors itself so exit codes stay quiet.
	rootCmd.SilenceErrors = true
}

// reportError prints err unless it only carries an exit code.
func reportError(err error) {
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		output.Stderr.Error("Error: %v", err)
	}
}
