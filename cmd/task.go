package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meluron/taskflow/internal/app"
	"github.com/meluron/taskflow/internal/duration"
	"github.com/meluron/taskflow/internal/model"
)

var (
	expectedMinutes int
	assumeYes       bool

	taskCmd = &cobra.Command{
		Use:   "task",
		Short: "Manage the task list.",
		Long:  `Add, edit, reorder and delete tasks. A <ref> is the task's 1-based position in the list or its id.`,
	}

	taskAddCmd = &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task to the end of the list.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTaskAdd,
	}

	taskListCmd = &cobra.Command{
		Use:   "list",
		Short: "List tasks with their timers.",
		Args:  cobra.NoArgs,
		RunE:  runTaskList,
	}

	taskDoneCmd = &cobra.Command{
		Use:   "done <ref>",
		Short: "Toggle a task's completion.",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskDone,
	}

	taskRenameCmd = &cobra.Command{
		Use:   "rename <ref> <text>",
		Short: "Change a task's text.",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runTaskRename,
	}

	taskEstimateCmd = &cobra.Command{
		Use:   "estimate <ref> <minutes>",
		Short: "Set a task's expected duration in minutes (0 clears it).",
		Args:  cobra.ExactArgs(2),
		RunE:  runTaskEstimate,
	}

	taskDeleteCmd = &cobra.Command{
		Use:   "delete <ref>",
		Short: "Delete a task. Its logged time is kept.",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskDelete,
	}

	taskMoveCmd = &cobra.Command{
		Use:   "move <ref> <position>",
		Short: "Move a task to a 1-based position.",
		Args:  cobra.ExactArgs(2),
		RunE:  runTaskMove,
	}

	taskSelectCmd = &cobra.Command{
		Use:   "select <ref>",
		Short: "Make a task the current one. Subtask commands act on it.",
		Args:  cobra.ExactArgs(1),
		RunE:  runTaskSelect,
	}

	taskClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete every task. Time logs are kept.",
		Args:  cobra.NoArgs,
		RunE:  runTaskClear,
	}
)

func init() {
	taskAddCmd.Flags().IntVar(&expectedMinutes, "expected", 0, "Expected duration in minutes.")
	taskClearCmd.Flags().BoolVar(&assumeYes, "yes", false, "Do not ask for confirmation.")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskDoneCmd, taskRenameCmd, taskEstimateCmd,
		taskDeleteCmd, taskMoveCmd, taskSelectCmd, taskClearCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		t, err := a.AddTask(strings.Join(args, " "), expectedMinutes)
		if err != nil {
			return err
		}
		cmd.Printf("Added task %d: %s (%s)\n", len(a.List.Tasks), t.Text, t.ID)
		return nil
	})
}

func runTaskList(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		printTasks(cmd.OutOrStdout(), a)
		return nil
	})
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		t, err := a.ToggleCompleted(args[0])
		if err != nil {
			return err
		}
		if t.Completed {
			cmd.Printf("Completed: %s\n", t.Text)
		} else {
			cmd.Printf("Reopened: %s\n", t.Text)
		}
		return nil
	})
}

func runTaskRename(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		t, err := a.RenameTask(args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		cmd.Printf("Renamed to: %s\n", t.Text)
		return nil
	})
}

func runTaskEstimate(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid minutes %q: %w", args[1], err)
	}
	return withApp(nil, func(a *app.App) error {
		t, err := a.SetExpected(args[0], minutes)
		if err != nil {
			return err
		}
		cmd.Printf("Expected time for %s: %s\n", t.Text, duration.FormatExpected(int(t.ExpectedDurationMinutes)))
		return nil
	})
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		t, err := a.DeleteTask(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Deleted: %s\n", t.Text)
		return nil
	})
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", args[1], err)
	}
	return withApp(nil, func(a *app.App) error {
		if err := a.MoveTask(args[0], pos); err != nil {
			return err
		}
		printTasks(cmd.OutOrStdout(), a)
		return nil
	})
}

func runTaskSelect(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		t, err := a.SelectTask(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Selected: %s\n", t.Text)
		return nil
	})
}

func runTaskClear(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		done, err := a.ClearTasks(confirmer(cmd, assumeYes))
		if err != nil {
			return err
		}
		if done {
			cmd.Println("All tasks cleared. Time logs were kept.")
		} else {
			cmd.Println("Cancelled.")
		}
		return nil
	})
}

// printTasks writes one line per task: position, completion, timer, estimate
// and id. The selected task is marked with '*'.
func printTasks(out io.Writer, a *app.App) {
	if len(a.List.Tasks) == 0 {
		fmt.Fprintln(out, "No tasks yet. Add one with `taskflow task add <text>`.")
		return
	}
	for i, t := range a.List.Tasks {
		marker := " "
		if t.ID == a.List.SelectedID {
			marker = "*"
		}
		check := " "
		if t.Completed {
			check = "x"
		}
		line := fmt.Sprintf("%s %d. [%s] %s  %s / %s", marker, i+1, check, t.Text,
			duration.FormatHMS(a.State(t).ElapsedSeconds), duration.FormatExpected(int(t.ExpectedDurationMinutes)))
		if t.TimeStatus() == model.TimeStatusExceeded {
			line += " (over)"
		}
		if n := len(t.Subtasks); n > 0 {
			line += fmt.Sprintf("  [%d subtasks]", n)
		}
		fmt.Fprintf(out, "%s  (%s)\n", line, t.ID)
	}
}
