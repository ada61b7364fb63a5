package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tunetalk/internal/ingest"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var maxComments int
	var delaySeconds int

	cmd := &cobra.Command{
		Use:   "ingest [playlist-id]",
		Short: "Collect admitted comments for every video in a playlist",
		Long: "Walk the playlist in order and write one <title>_comments.csv per video " +
			"into paths.output_dir. Videos whose table already exists are skipped, so an " +
			"interrupted run can simply be repeated.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			playlistID := cfg.YouTube.PlaylistID
			if len(args) == 1 {
				playlistID = strings.TrimSpace(args[0])
			}
			if playlistID == "" {
				return errors.New("playlist id required: pass it as an argument or set youtube.playlist_id")
			}
			if cmd.Flags().Changed("max-comments") {
				cfg.Ingest.MaxComments = maxComments
			}
			if cmd.Flags().Changed("delay") {
				if delaySeconds < 0 {
					return errors.New("--delay must be >= 0")
				}
				cfg.Ingest.PageDelaySeconds = delaySeconds
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := buildPipeline(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer p.Close()

			summary, runErr := p.orchestrator.RunPlaylist(runCtx, playlistID)
			if len(summary.Results) > 0 {
				printSummary(cmd.OutOrStdout(), summary, shouldColorize(cmd.OutOrStdout()))
			}
			return runErr
		},
	}

	cmd.Flags().IntVar(&maxComments, "max-comments", 0, "Override ingest.max_comments for this run")
	cmd.Flags().IntVar(&delaySeconds, "delay", 0, "Override ingest.page_delay_seconds for this run")
	return cmd
}

func printSummary(out io.Writer, summary ingest.Summary, colorize bool) {
	rows := make([][]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		note := ""
		if r.Err != nil {
			note = truncate(r.Err.Error(), 60)
		}
		rows = append(rows, []string{
			r.VideoID,
			truncate(r.Title, 48),
			string(r.State),
			strconv.Itoa(r.Admitted),
			strconv.Itoa(r.Scanned),
			strconv.Itoa(r.Pages),
			note,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Video", "Title", "Outcome", "Admitted", "Scanned", "Pages", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		colorize,
	))

	kind := statusOK
	if summary.Failed > 0 {
		kind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Run "+shortRunID(summary.RunID), kind,
		fmt.Sprintf("%d videos: %d done, %d skipped, %d disabled, %d failed, %d comments admitted",
			summary.Videos, summary.Done, summary.Skipped, summary.Disabled, summary.Failed, summary.Admitted),
		colorize))
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
