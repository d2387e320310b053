package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/meluron/taskflow/internal/app"
	"github.com/meluron/taskflow/internal/clipboard"
	"github.com/meluron/taskflow/internal/duration"
	"github.com/meluron/taskflow/internal/report"
)

var (
	reportFormat string
	pdfPath      string
	copyReport   bool

	// reportCmd represents the report command
	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Show time logged over the last 7 days.",
		Long: `Prints the weekly total, a per-day chart and each day's per-task breakdown,
busiest task first. The report can also be written as a PDF or copied to the clipboard.`,
		Args: cobra.NoArgs,
		RunE: runReportCommand,
	}

	logsCmd = &cobra.Command{
		Use:   "logs",
		Short: "Inspect and maintain the time log.",
	}

	logsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List logged sessions, oldest first.",
		Args:  cobra.NoArgs,
		RunE:  runLogsList,
	}

	logsClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete every logged session. Task timers are kept.",
		Args:  cobra.NoArgs,
		RunE:  runLogsClear,
	}

	logsPruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Drop sessions older than the 7-day window.",
		Args:  cobra.NoArgs,
		RunE:  runLogsPrune,
	}

	noteCmd = &cobra.Command{
		Use:   "note [text]",
		Short: "Show the note, or replace it with text.",
		RunE:  runNote,
	}
)

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", report.FormatText, "Output format: text, json or yaml.")
	reportCmd.Flags().StringVar(&pdfPath, "pdf", "", "Also write the report as a PDF to this path.")
	reportCmd.Flags().BoolVar(&copyReport, "copy", false, "Also copy the text report to the clipboard.")

	logsClearCmd.Flags().BoolVar(&assumeYes, "yes", false, "Do not ask for confirmation.")
	logsCmd.AddCommand(logsListCmd, logsClearCmd, logsPruneCmd)
}

func runReportCommand(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		r, err := a.Report()
		if err != nil {
			return err
		}
		if err := report.Write(cmd.OutOrStdout(), r, reportFormat); err != nil {
			return err
		}

		if pdfPath != "" {
			if err := report.WritePDF(pdfPath, r); err != nil {
				return err
			}
			cmd.Printf("PDF written to %s\n", pdfPath)
		}

		if copyReport {
			var buf bytes.Buffer
			report.PrintText(&buf, r)
			if err := clipboard.CopyText(ansi.Strip(buf.String())); err != nil {
				return fmt.Errorf("failed to copy report: %w", err)
			}
			cmd.Println("Report copied to clipboard.")
		}
		return nil
	})
}

func runLogsList(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		entries, err := a.Logs.Entries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println(report.TextNoData)
			return nil
		}
		for _, e := range entries {
			cmd.Printf("%s  %s  %s\n", e.Date, duration.FormatHMS(e.DurationSeconds), e.TaskName)
		}
		return nil
	})
}

func runLogsClear(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		done, err := a.ClearLogs(confirmer(cmd, assumeYes))
		if err != nil {
			return err
		}
		if done {
			cmd.Println("All time logs cleared.")
		} else {
			cmd.Println("Cancelled.")
		}
		return nil
	})
}

func runLogsPrune(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		kept, err := a.Logs.PruneExpired()
		if err != nil {
			return err
		}
		cmd.Printf("Kept %d entries from the last 7 days.\n", kept)
		return nil
	})
}

func runNote(cmd *cobra.Command, args []string) error {
	return withApp(nil, func(a *app.App) error {
		if len(args) == 0 {
			cmd.Println(a.Note)
			return nil
		}
		return a.SetNote(strings.Join(args, " "))
	})
}
