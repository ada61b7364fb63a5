package ledger_test

import (
	"context"
	"testing"
	"time"

	"tunetalk/internal/ledger"
	"tunetalk/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	if err := store.Record(ctx, ledger.Entry{
		VideoID:    "v1",
		PlaylistID: "PL1",
		Title:      "Queen - Bohemian Rhapsody",
		Outcome:    "done",
		Admitted:   3,
		Scanned:    4,
		Pages:      1,
		RunID:      "run-1",
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entry, err := store.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry == nil || entry.Title != "Queen - Bohemian Rhapsody" || entry.Admitted != 3 || entry.Scanned != 4 {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry.UpdatedAt.IsZero() {
		t.Fatal("expected updated_at to be defaulted")
	}
	if entry.Error != "" {
		t.Fatalf("expected empty error, got %q", entry.Error)
	}

	// Reopening the same database must not re-run migrations.
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	reopened := testsupport.MustOpenLedger(t, cfg)
	if again, err := reopened.Get(ctx, "v1"); err != nil || again == nil {
		t.Fatalf("expected entry to survive reopen: %#v, %v", again, err)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	entry, err := store.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry, got %#v", entry)
	}
}

func TestRecordRequiresVideoID(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	if err := store.Record(context.Background(), ledger.Entry{Title: "x"}); err == nil {
		t.Fatal("expected error when video id missing")
	}
}

func TestRecordUpsertsLatestOutcome(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := store.Record(ctx, ledger.Entry{VideoID: "v1", Title: "Song", Outcome: "failed", Error: "youtube: 500", RunID: "run-1", UpdatedAt: first}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Record(ctx, ledger.Entry{VideoID: "v1", Title: "Song", Outcome: "done", Admitted: 7, RunID: "run-2", UpdatedAt: first.Add(time.Hour)}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.List(ctx, ledger.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single row per video, got %d", len(entries))
	}
	got := entries[0]
	if got.Outcome != "done" || got.Admitted != 7 || got.RunID != "run-2" || got.Error != "" {
		t.Fatalf("expected latest outcome to win, got %#v", got)
	}
	if !got.UpdatedAt.Equal(first.Add(time.Hour)) {
		t.Fatalf("unexpected updated_at %s", got.UpdatedAt)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	store := testsupport.MustOpenLedger(t, testsupport.NewConfig(t))
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	seed := []ledger.Entry{
		{VideoID: "a", Title: "A", Outcome: "done", RunID: "r1", PlaylistID: "PL1", UpdatedAt: base},
		{VideoID: "b", Title: "B", Outcome: "disabled", RunID: "r1", PlaylistID: "PL1", UpdatedAt: base.Add(time.Minute)},
		{VideoID: "c", Title: "C", Outcome: "done", RunID: "r2", PlaylistID: "PL2", UpdatedAt: base.Add(2 * time.Minute)},
	}
	for _, entry := range seed {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record %s: %v", entry.VideoID, err)
		}
	}

	cases := []struct {
		name   string
		filter ledger.Filter
		want   []string
	}{
		{name: "all newest first", filter: ledger.Filter{}, want: []string{"c", "b", "a"}},
		{name: "by outcome", filter: ledger.Filter{Outcome: "done"}, want: []string{"c", "a"}},
		{name: "by run", filter: ledger.Filter{RunID: "r1"}, want: []string{"b", "a"}},
		{name: "by playlist", filter: ledger.Filter{PlaylistID: "PL2"}, want: []string{"c"}},
		{name: "limit", filter: ledger.Filter{Limit: 1}, want: []string{"c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := store.List(ctx, tc.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(entries) != len(tc.want) {
				t.Fatalf("expected %d entries, got %d", len(tc.want), len(entries))
			}
			for i, id := range tc.want {
				if entries[i].VideoID != id {
					t.Fatalf("entry %d: expected %s, got %s", i, id, entries[i].VideoID)
				}
			}
		})
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts["done"] != 2 || counts["disabled"] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := ledger.Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
