package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tunetalk/internal/ledger"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var outcome string
	var runID string
	var limit uint64

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recorded ingest outcomes per video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ledger.Open(cmd.Context(), cfg.LedgerPath())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), ledger.Filter{
				Outcome: strings.ToLower(strings.TrimSpace(outcome)),
				RunID:   strings.TrimSpace(runID),
				Limit:   limit,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No videos recorded yet")
				return nil
			}
			colorize := shouldColorize(out)

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.VideoID,
					truncate(e.Title, 40),
					e.Outcome,
					strconv.Itoa(e.Admitted),
					strconv.Itoa(e.Scanned),
					strconv.Itoa(e.Pages),
					e.UpdatedAt.Local().Format(time.DateTime),
					truncate(e.Error, 50),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Video", "Title", "Outcome", "Admitted", "Scanned", "Pages", "Updated", "Error"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
				colorize,
			))

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			outcomes := make([]string, 0, len(counts))
			for k := range counts {
				outcomes = append(outcomes, k)
			}
			sort.Strings(outcomes)
			for _, name := range outcomes {
				fmt.Fprintln(out, renderStatusLine(name, outcomeKind(name), strconv.Itoa(counts[name])+" videos", colorize))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outcome, "outcome", "", "Only show videos with this outcome (done, disabled, failed)")
	cmd.Flags().StringVar(&runID, "run", "", "Only show videos from this run id")
	cmd.Flags().Uint64Var(&limit, "limit", 50, "Maximum rows to show (0 for all)")
	return cmd
}
