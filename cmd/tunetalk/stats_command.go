package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tunetalk/internal/report"
	"tunetalk/internal/table"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats [dir]",
		Short: "Summarize comment tables (row counts, length, top terms and bigrams)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.OutputDir
			if len(args) == 1 {
				dir = strings.TrimSpace(args[0])
			}

			records, err := table.LoadDir(dir)
			if err != nil {
				return err
			}
			rep := report.Build(records, report.Options{TopN: top})
			printReport(cmd.OutOrStdout(), rep, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 20, "Number of terms and bigrams to list")
	return cmd
}

func printReport(out io.Writer, rep report.Report, colorize bool) {
	section := func(title string) {
		for _, line := range renderSectionHeader(title, colorize) {
			fmt.Fprintln(out, line)
		}
	}

	section("Tables")
	tableRows := make([][]string, 0, len(rep.Tables))
	for _, t := range rep.Tables {
		tableRows = append(tableRows, []string{t.Source, strconv.Itoa(t.Rows)})
	}
	fmt.Fprintln(out, renderTable([]string{"Table", "Rows"}, tableRows, []columnAlignment{alignLeft, alignRight}, colorize))
	fmt.Fprintln(out, renderStatusLine("comments", statusInfo, strconv.Itoa(rep.Rows), colorize))
	fmt.Fprintln(out, renderStatusLine("authors", statusInfo, strconv.Itoa(rep.Authors), colorize))
	if rep.Empty > 0 {
		fmt.Fprintln(out, renderStatusLine("empty comments", statusWarn, strconv.Itoa(rep.Empty), colorize))
	}

	section("Comment length (words)")
	d := rep.WordCounts
	fmt.Fprintln(out, renderTable(
		[]string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"},
		[][]string{{
			strconv.Itoa(d.Count), formatFloat(d.Mean), formatFloat(d.Std), formatFloat(d.Min),
			formatFloat(d.P25), formatFloat(d.Median), formatFloat(d.P75), formatFloat(d.Max),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
		colorize,
	))

	section("Top terms")
	fmt.Fprintln(out, renderTerms(rep.TopTerms, "Term", colorize))
	section("Top bigrams")
	fmt.Fprintln(out, renderTerms(rep.TopBigrams, "Bigram", colorize))
}

func renderTerms(terms []report.Term, label string, colorize bool) string {
	rows := make([][]string, 0, len(terms))
	for i, t := range terms {
		rows = append(rows, []string{strconv.Itoa(i + 1), t.Text, strconv.Itoa(t.Count)})
	}
	return renderTable([]string{"#", label, "Count"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}, colorize)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
