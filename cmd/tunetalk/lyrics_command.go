package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tunetalk/internal/lyrics"
)

func newLyricsCommand(ctx *commandContext) *cobra.Command {
	var artist string

	cmd := &cobra.Command{
		Use:   "lyrics <video-title>",
		Short: "Show the reference lyrics used to suppress echoed comments",
		Long: "Resolve a video title the way ingest does (annotations stripped, " +
			"\"Artist - Song\" split) and print the normalized lyric lines.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			performer, song := lyrics.SplitTitle(args[0])
			if a := strings.TrimSpace(artist); a != "" {
				performer = a
				song = lyrics.CleanTitle(args[0])
			}

			cache, closeCache, err := buildLyricsCache(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeCache() }()

			lines := cache.Lines(cmd.Context(), song, performer)
			out := cmd.OutOrStdout()
			label := song
			if performer != "" {
				label = performer + " - " + song
			}
			if len(lines) == 0 {
				fmt.Fprintf(out, "No lyrics found for %s\n", label)
				return nil
			}
			fmt.Fprintf(out, "%s (%d lines)\n", label, len(lines))
			for _, line := range lines {
				fmt.Fprintln(out, "  "+line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&artist, "artist", "", "Performer to look up instead of the one parsed from the title")
	return cmd
}
