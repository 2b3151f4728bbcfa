package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ai-agents-2030/AppAgent/internal/agent"
	"github.com/ai-agents-2030/AppAgent/internal/observability"
	"github.com/ai-agents-2030/AppAgent/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent on a task until it finishes",
	Long: `Run the round loop for one task. The process exits with:
  0  the model reported the task finished
  1  unexpected failure
  2  the reply could not be parsed or the action could not be executed
  3  the device or the model was unavailable
  4  the round limit was reached

Examples:
  appagent run --app Settings --task "turn on dark mode" --output-dir out/1
  appagent run --app Gmail --task "..." --output-dir out/2 --device emulator-5554 --lang ENG`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("task", "", "Task description")
	runCmd.Flags().String("app", "", "App name; selects apps/<app>/{demo_docs,auto_docs}")
	runCmd.Flags().String("output-dir", "", "Directory for log.json, error.json and screenshots")
	runCmd.Flags().String("root-dir", "", "Root holding apps/ and tasks/ (default: agent.root_dir)")
	runCmd.Flags().String("device", "", "Device serial (default: the only attached device)")
	runCmd.Flags().String("lang", "", "Task language: ENG or CHN (default: agent.lang)")
	runCmd.Flags().Int("max-rounds", 0, "Round limit (default: agent.max_rounds)")
	runCmd.Flags().String("model", "", "Model name override")
	runCmd.Flags().String("api-key", "", "Model API key override")
	_ = runCmd.MarkFlagRequired("task")
	_ = runCmd.MarkFlagRequired("output-dir")
}

func runRun(cmd *cobra.Command, args []string) error {
	started := time.Now()
	cfg := *appConfig
	task, _ := cmd.Flags().GetString("task")
	app, _ := cmd.Flags().GetString("app")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	serial, _ := cmd.Flags().GetString("device")
	maxRounds, _ := cmd.Flags().GetInt("max-rounds")
	if v, _ := cmd.Flags().GetString("root-dir"); v != "" {
		cfg.Agent.RootDir = v
	}
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		cfg.Agent.Lang = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model.Name = v
		cfg.Model.Qwen.Name = v
	}
	if v, _ := cmd.Flags().GetString("api-key"); v != "" {
		cfg.Model.APIKey = v
	}
	if serial == "" {
		serial = cfg.Android.Serial
	}

	logger := observability.GetLogger()
	console := output.Stderr

	provider, serial, err := openDevice(cmd.Context(), cfg.Android, serial)
	if err != nil {
		return &exitError{code: agent.ReportSetupError(outputDir, agent.CategoryPerception, err, console)}
	}
	console.Info("Device selected: %s", serial)

	res, err := executeTask(cmd.Context(), &cfg, provider, taskParams{
		Task:      task,
		App:       app,
		OutputDir: outputDir,
		Serial:    serial,
		MaxRounds: maxRounds,
		Started:   started,
	}, console, logger)
	if err != nil {
		return err
	}
	if res.ExitCode != agent.ExitFinished {
		return &exitError{code: res.ExitCode}
	}
	return nil
}
