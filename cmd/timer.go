package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/meluron/taskflow/internal/app"
	"github.com/meluron/taskflow/internal/duration"
	"github.com/meluron/taskflow/internal/tui"
)

var (
	resetAll bool

	timerCmd = &cobra.Command{
		Use:   "timer",
		Short: "Run, inspect and reset task timers.",
	}

	timerRunCmd = &cobra.Command{
		Use:   "run [ref]",
		Short: "Open the interactive tracker, optionally starting a task's timer.",
		Long: `Opens the tracker view. Only one timer runs at a time; starting another task stops
the current one and logs its session. Quitting stops the running timer and logs it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTimerRun,
	}

	trackCmd = &cobra.Command{
		Use:   "track",
		Short: "Open the interactive tracker.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTracker(cmd, "")
		},
	}

	timerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show timers and time logged today and this week.",
		Args:  cobra.NoArgs,
		RunE:  runTimerStatus,
	}

	timerResetCmd = &cobra.Command{
		Use:   "reset [ref]",
		Short: "Zero a task's timer, or every timer with --all. Logged time is kept.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTimerReset,
	}
)

func init() {
	timerResetCmd.Flags().BoolVar(&resetAll, "all", false, "Reset every task's timer.")
	timerResetCmd.Flags().BoolVar(&assumeYes, "yes", false, "Do not ask for confirmation.")

	timerCmd.AddCommand(timerRunCmd, timerStatusCmd, timerResetCmd)
}

func runTimerRun(cmd *cobra.Command, args []string) error {
	ref := ""
	if len(args) == 1 {
		ref = args[0]
	}
	return runTracker(cmd, ref)
}

// runTracker runs the tracker until the user quits, then unloads the session
// so no timer is left running in the store.
func runTracker(cmd *cobra.Command, ref string) error {
	sched := tui.NewScheduler()
	return withApp(sched, func(a *app.App) error {
		if ref != "" {
			if err := a.StartTimer(ref); err != nil {
				return err
			}
		}

		p := tea.NewProgram(tui.NewTracker(a, sched), tea.WithAltScreen())
		_, runErr := p.Run()
		if err := a.Unload(); err != nil {
			return fmt.Errorf("failed to save on exit: %w", err)
		}
		if runErr != nil {
			return fmt.Errorf("error running tracker: %w", runErr)
		}
		printTasks(cmd.OutOrStdout(), a)
		return nil
	})
}

func runTimerStatus(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		r, err := a.Report()
		if err != nil {
			return err
		}
		today := 0
		if n := len(r.Series); n > 0 {
			today = r.Series[n-1].Seconds
		}
		if t := a.List.Selected(); t != nil {
			cmd.Printf("Selected: %s\n", t.Text)
		}
		cmd.Printf("Today: %s\n", duration.FormatHMS(today))
		cmd.Printf("Last 7 days: %s\n\n", duration.FormatHMS(r.WeeklyTotalSeconds))
		printTasks(cmd.OutOrStdout(), a)
		return nil
	})
}

func runTimerReset(cmd *cobra.Command, args []string) error {
	if resetAll == (len(args) == 1) {
		return errors.New("give either a task ref or --all")
	}
	return withApp(nil, func(a *app.App) error {
		if !resetAll {
			t, err := a.ResetTimer(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("Timer reset: %s\n", t.Text)
			return nil
		}

		done, err := a.ResetAllTimers(confirmer(cmd, assumeYes))
		if err != nil {
			return err
		}
		if done {
			cmd.Println("All timers reset.")
		} else {
			cmd.Println("Cancelled.")
		}
		return nil
	})
}
