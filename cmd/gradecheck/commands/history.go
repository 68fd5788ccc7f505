package commands

import (
	"errors"
	"os"
	"strings"
	"time"

	"gradecheck/internal/components/chrono"
	"gradecheck/internal/components/telemetry"
	"gradecheck/internal/grade"
	"gradecheck/internal/history"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLimit *int

func init() {
	historyLimit = historyCmd.Flags().Int("limit", 10, "The number of runs to list.")
	rootCmd.AddCommand(historyCmd)
}

func historyTable(runs []history.Run) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Run", "Started", "First run", "Fetched", "New grades"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Format(time.DateTime),
			r.FirstRun,
			r.Fetched,
			strings.Join(grade.Names(r.New), ", "),
		})
	}
	t.SetStyle(table.StyleRounded)
	return t
}

var historyCmd = &cobra.Command{
	Use:   "history [--limit <count>]",
	Short: "Lists the most recent checks and the grades they reported.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(*configPath, flagConfig)
		if err != nil {
			return err
		}
		if !cfg.History.Enabled() {
			return errors.New("no history store is configured, set --history or the history key of the config")
		}

		store, err := history.Open(cmd.Context(), cfg.History, chrono.NewStandardTime(), telemetry.NewSlogAPI())
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Runs(cmd.Context(), *historyLimit)
		if err != nil {
			return err
		}

		t := historyTable(runs)
		t.SetOutputMirror(os.Stdout)
		t.Render()
		return nil
	},
}
