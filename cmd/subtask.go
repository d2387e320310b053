package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meluron/taskflow/internal/app"
	"github.com/meluron/taskflow/internal/tasks"
)

var (
	subtaskCmd = &cobra.Command{
		Use:   "subtask",
		Short: "Manage the subtasks of the selected task.",
		Long:  `Subtask commands act on the task chosen with 'taskflow task select'. Subtasks are addressed by 1-based position.`,
	}

	subtaskAddCmd = &cobra.Command{
		Use:   "add <text>",
		Short: "Add a subtask.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSubtaskAdd,
	}

	subtaskDoneCmd = &cobra.Command{
		Use:   "done <n>",
		Short: "Toggle a subtask's completion.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubtaskDone,
	}

	subtaskDeleteCmd = &cobra.Command{
		Use:   "delete <n>",
		Short: "Delete a subtask.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubtaskDelete,
	}

	subtaskMoveCmd = &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a subtask to another position.",
		Args:  cobra.ExactArgs(2),
		RunE:  runSubtaskMove,
	}

	subtaskListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the selected task's subtasks.",
		Args:  cobra.NoArgs,
		RunE:  runSubtaskList,
	}
)

func init() {
	subtaskCmd.AddCommand(subtaskAddCmd, subtaskDoneCmd, subtaskDeleteCmd, subtaskMoveCmd, subtaskListCmd)
}

func positions(args ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid position %q: %w", a, err)
		}
		out[i] = n
	}
	return out, nil
}

// subtaskChange runs fn on the session and prints the resulting subtasks.
func subtaskChange(cmd *cobra.Command, fn func(a *app.App) error) error {
	return withApp(nil, func(a *app.App) error {
		if err := fn(a); err != nil {
			return err
		}
		return printSubtasks(cmd, a)
	})
}

func runSubtaskAdd(cmd *cobra.Command, args []string) error {
	return subtaskChange(cmd, func(a *app.App) error {
		return a.AddSubtask(strings.Join(args, " "))
	})
}

func runSubtaskDone(cmd *cobra.Command, args []string) error {
	p, err := positions(args...)
	if err != nil {
		return err
	}
	return subtaskChange(cmd, func(a *app.App) error { return a.ToggleSubtask(p[0]) })
}

func runSubtaskDelete(cmd *cobra.Command, args []string) error {
	p, err := positions(args...)
	if err != nil {
		return err
	}
	return subtaskChange(cmd, func(a *app.App) error { return a.RemoveSubtask(p[0]) })
}

func runSubtaskMove(cmd *cobra.Command, args []string) error {
	p, err := positions(args...)
	if err != nil {
		return err
	}
	return subtaskChange(cmd, func(a *app.App) error { return a.MoveSubtask(p[0], p[1]) })
}

func runSubtaskList(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error { return printSubtasks(cmd, a) })
}

func printSubtasks(cmd *cobra.Command, a *app.App) error {
	t := a.List.Selected()
	if t == nil {
		return tasks.ErrNoSelection
	}
	cmd.Printf("%s\n", t.Text)
	if len(t.Subtasks) == 0 {
		cmd.Println("    (no subtasks)")
	}
	for i, s := range t.Subtasks {
		check := " "
		if s.Completed {
			check = "x"
		}
		cmd.Printf("    %d. [%s] %s\n", i+1, check, s.Text)
	}
	return nil
}
