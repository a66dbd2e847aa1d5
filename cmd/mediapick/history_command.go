package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediapick/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent selections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				selections, err := store.ListSelections(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, selections)
				}
				out := cmd.OutOrStdout()
				if len(selections) == 0 {
					fmt.Fprintln(out, "No selections recorded")
					return nil
				}
				rows := make([][]string, 0, len(selections))
				for _, sel := range selections {
					rows = append(rows, historyRow(sel))
				}
				printRows(out,
					[]string{"ID", "Finished", "Mode", "Path", "Items", "Outcome", "Duration"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
				)
				stats, err := store.SelectionStats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d selection(s): %d delivered, %d cancelled\n", stats.Total, stats.Delivered, stats.Cancelled)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum selections to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print selections as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <invocation-id>",
		Short: "Show one selection in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				sel, err := store.GetSelection(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if sel == nil {
					return errors.New("selection " + args[0] + " not found")
				}
				saved, err := store.AssetsForInvocation(cmd.Context(), sel.InvocationID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Invocation:   %s\n", sel.InvocationID)
				fmt.Fprintf(out, "Mode:         %s\n", orDash(sel.Mode))
				fmt.Fprintf(out, "Path:         %s\n", sel.Path)
				fmt.Fprintf(out, "Outcome:      %s\n", sel.Outcome())
				fmt.Fprintf(out, "Items:        %d in, %d out, %d passed through\n", sel.InputCount, sel.OutputCount, sel.PassthroughCount)
				fmt.Fprintf(out, "Album saves:  %d\n", saved)
				fmt.Fprintf(out, "Started:      %s\n", formatTimestamp(sel.StartedAt))
				fmt.Fprintf(out, "Duration:     %s\n", formatDuration(sel.Duration()))
				if sel.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:        %s\n", sel.ErrorMessage)
				}
				return nil
			})
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all selection history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				removed, err := store.ClearSelections(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d selection(s)\n", removed)
				return nil
			})
		},
	}
}

func historyRow(sel ledger.Selection) []string {
	id := sel.InvocationID
	if len(id) > 8 {
		id = id[:8]
	}
	return []string{
		id,
		formatTimestamp(sel.FinishedAt),
		orDash(sel.Mode),
		string(sel.Path),
		strconv.Itoa(sel.InputCount) + "→" + strconv.Itoa(sel.OutputCount),
		sel.Outcome(),
		formatDuration(sel.Duration()),
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
