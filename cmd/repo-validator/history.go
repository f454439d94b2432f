// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/repo-validator/internal/history"
	"github.com/pdiddy/repo-validator/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded validation runs",
	Long: `History lists the most recent runs recorded by "validate --history",
newest first, as a table or as YAML or JSON.`,
	RunE: runHistory,
}

var historyFlagKeys = map[string]string{
	"history-path": "history.path",
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, historyFlagKeys); err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	cfg := validatorConfig()
	store, err := history.Open(historyConfig(cfg.Root).Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if format != "table" {
		return store.Export(ctx, os.Stdout, format, limit)
	}

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	sum, err := store.Summarize(ctx)
	if err != nil {
		return err
	}
	formatHistoryTable(os.Stdout, runs, sum)
	return nil
}

func formatHistoryTable(w io.Writer, runs []types.Run, sum history.Summary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-6s  %-14s  %-8s  %s\n", "Started", "Status", "Kind", "Took", "Message")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		msg := truncate(r.Message, 60)
		fmt.Fprintf(w, "%-20s  %-6s  %-14s  %-8s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Kind,
			r.Duration.Round(time.Millisecond), msg)
	}
	fmt.Fprintf(w, "\n%d shown, %d recorded (%d passed, %d failed)\n",
		len(runs), sum.Total(), sum.Passed, sum.Failed)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().String("format", "table", "output format: table, yaml, or json")
	historyCmd.Flags().String("history-path", "", "history database, relative to root unless absolute")

	rootCmd.AddCommand(historyCmd)
}
