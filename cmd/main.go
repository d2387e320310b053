package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meluron/taskflow/internal/app"
	"github.com/meluron/taskflow/internal/config"
	"github.com/meluron/taskflow/internal/stopwatch"
	"github.com/meluron/taskflow/internal/storage"
)

var (
	// Used for flags.
	configPath string
	storePath  string
	backend    string

	cfg *config.Config
	now = time.Now

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "taskflow",
		Short: "A personal task list with per-task timers and a 7-day time report.",
		Long: `TaskFlow keeps an ordered task list with subtasks, runs one stopwatch at a time,
logs every finished session and reports the time spent over the last 7 days.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	// Add persistent flags to the root command (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default $XDG_CONFIG_HOME/taskflow/taskflow.yml).")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Path to the data store, overriding storage.path.")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend (file or sqlite), overriding storage.backend.")

	rootCmd.AddCommand(taskCmd, subtaskCmd, timerCmd, trackCmd, reportCmd, logsCmd, noteCmd)
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger until the config says otherwise.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	rootCmd.SetOut(os.Stdout)
	Execute()
}

// setup loads the environment and config before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backend != "" {
		c.Storage.Backend = backend
	}
	if storePath != "" {
		c.Storage.Path = storePath
	}
	if err := c.Validate(); err != nil {
		return err
	}
	slog.SetDefault(c.Log.NewLogger(os.Stderr))
	cfg = c
	return nil
}

// openStore opens the configured store.
func openStore() (storage.Store, error) {
	path, err := cfg.Storage.StorePath()
	if err != nil {
		return nil, err
	}
	kv, err := storage.Open(cfg.Storage.Backend, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store at %s: %w", cfg.Storage.Backend, path, err)
	}
	return kv, nil
}

// withApp runs fn against a freshly loaded session and closes the store.
func withApp(sched stopwatch.Scheduler, fn func(a *app.App) error) error {
	kv, err := openStore()
	if err != nil {
		return err
	}
	defer kv.Close()

	a, err := app.Open(kv, app.Options{
		Now:        now,
		Scheduler:  sched,
		TickPeriod: cfg.Timer.Tick,
		SaveEvery:  cfg.Timer.SaveEvery,
	})
	if err != nil {
		return err
	}
	return fn(a)
}

// confirmer asks on the command's input unless --yes was given.
func confirmer(cmd *cobra.Command, yes bool) app.Confirmer {
	return app.ConfirmFunc(func(prompt string) bool {
		if yes {
			return true
		}
		return promptYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), prompt)
	})
}

func promptYesNo(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
