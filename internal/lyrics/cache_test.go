package lyrics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingFetcher struct {
	calls atomic.Int64
	text  string
	err   error
	delay time.Duration
}

func (f *countingFetcher) Fetch(ctx context.Context, performer, title string) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]string
	sets    int
}

func (s *memoryStore) Get(_ context.Context, key string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, ok := s.entries[key]
	return lines, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key string, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string][]string)
	}
	s.entries[key] = lines
	s.sets++
	return nil
}

func TestCacheLinesSingleLookupAcrossVariants(t *testing.T) {
	fetcher := &countingFetcher{text: "Is this the real life\nIs this just fantasy"}
	cache := NewCache(fetcher)
	ctx := context.Background()

	first := cache.Lines(ctx, "Bohemian Rhapsody", "Queen")
	second := cache.Lines(ctx, "  BOHEMIAN rhapsody (Remastered 2011) ", "QUEEN")
	third := cache.Lines(ctx, "bohemian rhapsody", "queen")

	if got := fetcher.calls.Load(); got != 1 {
		t.Fatalf("expected 1 remote lookup, got %d", got)
	}
	if len(first) != 2 || first[0] != "is this the real life" {
		t.Fatalf("unexpected lines %v", first)
	}
	if &first[0] != &second[0] || &first[0] != &third[0] {
		t.Fatal("expected the identical cached slice on every hit")
	}
	if cache.Len() != 1 || cache.Lookups() != 1 {
		t.Fatalf("unexpected cache stats len=%d lookups=%d", cache.Len(), cache.Lookups())
	}
}

func TestCacheFailureCachedAsEmpty(t *testing.T) {
	tests := []struct {
		name string
		err  error
		text string
	}{
		{"not found", ErrNotFound, ""},
		{"server error", errors.New("lyrics: lookup failed (500)"), ""},
		{"empty lyrics", nil, "  \n \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &countingFetcher{text: tt.text, err: tt.err}
			cache := NewCache(fetcher)
			for range 3 {
				lines := cache.Lines(context.Background(), "Song", "Artist")
				if lines == nil || len(lines) != 0 {
					t.Fatalf("expected empty non-nil corpus, got %#v", lines)
				}
			}
			if got := fetcher.calls.Load(); got != 1 {
				t.Fatalf("expected failure to be cached after 1 lookup, got %d", got)
			}
		})
	}
}

func TestCacheConcurrentCallersShareLookup(t *testing.T) {
	fetcher := &countingFetcher{text: "la la la", delay: 50 * time.Millisecond}
	cache := NewCache(fetcher)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Lines(context.Background(), "Song", "Artist")
		}(i)
	}
	wg.Wait()

	if got := fetcher.calls.Load(); got != 1 {
		t.Fatalf("expected concurrent callers to share one lookup, got %d", got)
	}
	for i, lines := range results {
		if len(lines) != 1 || lines[0] != "la la la" {
			t.Fatalf("caller %d got %v", i, lines)
		}
	}
}

func TestCacheDistinctKeysLookedUpSeparately(t *testing.T) {
	fetcher := &countingFetcher{text: "line"}
	cache := NewCache(fetcher)
	cache.Lines(context.Background(), "Song A", "Artist")
	cache.Lines(context.Background(), "Song B", "Artist")
	if got := fetcher.calls.Load(); got != 2 {
		t.Fatalf("expected 2 lookups, got %d", got)
	}
}

func TestCacheCancelledLookupNotMemoized(t *testing.T) {
	fetcher := &countingFetcher{text: "line", delay: time.Second}
	cache := NewCache(fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if lines := cache.Lines(ctx, "Song", "Artist"); len(lines) != 0 {
		t.Fatalf("expected empty corpus on cancellation, got %v", lines)
	}
	if cache.Len() != 0 {
		t.Fatal("cancelled lookup should not be cached")
	}

	fetcher.delay = 0
	if lines := cache.Lines(context.Background(), "Song", "Artist"); len(lines) != 1 {
		t.Fatalf("expected retry after cancellation, got %v", lines)
	}
}

func TestCacheUsesStoreBeforeFetcher(t *testing.T) {
	store := &memoryStore{}
	store.Set(context.Background(), Key("Song", "Artist"), []string{"stored line"})
	store.sets = 0

	fetcher := &countingFetcher{text: "remote line"}
	cache := NewCache(fetcher, WithStore(store))

	lines := cache.Lines(context.Background(), "Song", "Artist")
	if len(lines) != 1 || lines[0] != "stored line" {
		t.Fatalf("expected stored lines, got %v", lines)
	}
	if fetcher.calls.Load() != 0 {
		t.Fatal("fetcher should not be called on store hit")
	}

	cache.Lines(context.Background(), "Other", "Artist")
	if fetcher.calls.Load() != 1 {
		t.Fatal("expected fetch on store miss")
	}
	if store.sets != 1 {
		t.Fatalf("expected successful lookup to be persisted, got %d writes", store.sets)
	}
}

func TestCacheDoesNotPersistFailures(t *testing.T) {
	store := &memoryStore{}
	cache := NewCache(&countingFetcher{err: ErrNotFound}, WithStore(store))
	cache.Lines(context.Background(), "Song", "Artist")
	if store.sets != 0 {
		t.Fatalf("failures must not reach the store, got %d writes", store.sets)
	}
}
