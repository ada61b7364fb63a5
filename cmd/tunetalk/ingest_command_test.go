package main

import (
	"os"
	"path/filepath"
	"testing"

	"tunetalk/internal/testsupport"
)

const testPlaylist = "PLtunetalk"

func setupIngestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	yt := newFakeYouTube(t, testPlaylist, []fakeVideo{
		{
			id:    "vid1",
			title: "Nova - Midnight Drive",
			pages: [][]string{
				{"The melody in the chorus gives me chills", "first!"},
				{"That harmony at 2:10 is unreal", "love the arrangement\nso good"},
			},
		},
		{id: "vid2", title: "Quiet Hours", disabled: true},
	})
	ly := newFakeLyrics(t, map[string]string{
		"Nova/Midnight Drive": "We drive into the night\nNeon on the water",
	})
	return setupCLITestEnv(t,
		testsupport.WithYouTubeBaseURL(yt.URL),
		testsupport.WithLyricsBaseURL(ly.URL),
	)
}

func TestIngestWritesTablesAndLedger(t *testing.T) {
	env := setupIngestEnv(t)

	out, _, err := runCLI(t, []string{"ingest", testPlaylist}, env.configPath)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	requireContains(t, out, "2 videos: 1 done, 0 skipped, 1 disabled, 0 failed, 2 comments admitted")

	lines := testsupport.ReadLines(t, filepath.Join(env.cfg.Paths.OutputDir, "Nova - Midnight Drive_comments.csv"))
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %q", lines)
	}
	if lines[0] != "comment,user_name,date" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	requireContains(t, lines[1], "The melody in the chorus gives me chills")
	requireContains(t, lines[2], "That harmony at 2:10 is unreal")

	disabled := testsupport.ReadLines(t, filepath.Join(env.cfg.Paths.OutputDir, "Quiet Hours_comments.csv"))
	if len(disabled) != 1 {
		t.Fatalf("expected header-only table for disabled video, got %q", disabled)
	}

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "vid1")
	requireContains(t, out, "vid2")
	requireContains(t, out, "done:")
	requireContains(t, out, "disabled:")

	out, _, err = runCLI(t, []string{"status", "--outcome", "disabled"}, env.configPath)
	if err != nil {
		t.Fatalf("status --outcome: %v", err)
	}
	requireContains(t, out, "vid2")
	requireNotContains(t, out, "Midnight Drive")
}

func TestIngestRerunSkipsCompletedVideos(t *testing.T) {
	env := setupIngestEnv(t)

	if _, _, err := runCLI(t, []string{"ingest", testPlaylist}, env.configPath); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	tablePath := filepath.Join(env.cfg.Paths.OutputDir, "Nova - Midnight Drive_comments.csv")
	before, err := os.ReadFile(tablePath)
	if err != nil {
		t.Fatalf("read table: %v", err)
	}

	out, _, err := runCLI(t, []string{"ingest", testPlaylist}, env.configPath)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	requireContains(t, out, "0 done, 2 skipped")

	after, err := os.ReadFile(tablePath)
	if err != nil {
		t.Fatalf("read table: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("table changed on rerun:\n%s\n---\n%s", before, after)
	}
}

func TestIngestMaxCommentsFlag(t *testing.T) {
	env := setupIngestEnv(t)

	out, _, err := runCLI(t, []string{"ingest", testPlaylist, "--max-comments", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	requireContains(t, out, "1 comments admitted")
	lines := testsupport.ReadLines(t, filepath.Join(env.cfg.Paths.OutputDir, "Nova - Midnight Drive_comments.csv"))
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %q", lines)
	}
}

func TestIngestUsesConfiguredPlaylist(t *testing.T) {
	env := setupIngestEnv(t)
	env.cfg.YouTube.PlaylistID = testPlaylist
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"ingest"}, env.configPath)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	requireContains(t, out, "1 done")
}

func TestIngestRequiresPlaylist(t *testing.T) {
	env := setupIngestEnv(t)
	_, _, err := runCLI(t, []string{"ingest"}, env.configPath)
	if err == nil {
		t.Fatal("expected missing playlist error")
	}
	requireContains(t, err.Error(), "playlist id required")
}

func TestIngestRequiresAPIKey(t *testing.T) {
	env := setupIngestEnv(t)
	env.cfg.YouTube.APIKey = ""
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"ingest", testPlaylist}, env.configPath)
	if err == nil {
		t.Fatal("expected missing api key error")
	}
	requireContains(t, err.Error(), "youtube.api_key is required")
}

func TestIngestUnknownPlaylistFails(t *testing.T) {
	env := setupIngestEnv(t)
	_, _, err := runCLI(t, []string{"ingest", "PLmissing"}, env.configPath)
	if err == nil {
		t.Fatal("expected listing failure")
	}
	requireContains(t, err.Error(), "list playlist PLmissing")
}

func TestIngestRejectsNegativeDelay(t *testing.T) {
	env := setupIngestEnv(t)
	if _, _, err := runCLI(t, []string{"ingest", testPlaylist, "--delay", "-1"}, env.configPath); err == nil {
		t.Fatal("expected negative delay to be rejected")
	}
}

func TestStatusWithEmptyLedger(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No videos recorded yet")
}
