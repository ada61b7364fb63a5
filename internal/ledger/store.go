package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const entriesTable = "ingest_entries"

var entryColumns = []string{
	"video_id", "playlist_id", "title", "outcome", "admitted",
	"scanned", "pages", "error_message", "run_id", "updated_at",
}

// Entry is the latest recorded outcome for one video.
type Entry struct {
	VideoID    string
	PlaylistID string
	Title      string
	Outcome    string
	Admitted   int
	Scanned    int
	Pages      int
	Error      string
	RunID      string
	UpdatedAt  time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Outcome    string
	RunID      string
	PlaylistID string
	Limit      uint64
}

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	sb   sq.StatementBuilderType
}

// Open initializes or connects to the ledger database and applies migrations.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("ledger: database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ledger: ensure state dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:   db,
		path: dbPath,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record upserts the outcome for entry.VideoID. UpdatedAt defaults to now.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.VideoID) == "" {
		return errors.New("ledger: video id is required")
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}

	query, args, err := s.sb.Insert(entriesTable).
		Columns(entryColumns...).
		Values(
			entry.VideoID,
			entry.PlaylistID,
			entry.Title,
			entry.Outcome,
			entry.Admitted,
			entry.Scanned,
			entry.Pages,
			nullableString(entry.Error),
			entry.RunID,
			entry.UpdatedAt.UTC().Format(time.RFC3339Nano),
		).
		Suffix(`ON CONFLICT(video_id) DO UPDATE SET
            playlist_id = excluded.playlist_id, title = excluded.title,
            outcome = excluded.outcome, admitted = excluded.admitted,
            scanned = excluded.scanned, pages = excluded.pages,
            error_message = excluded.error_message, run_id = excluded.run_id,
            updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record entry: %w", err)
	}
	return nil
}

// Get returns the entry for videoID, or nil when none is recorded.
func (s *Store) Get(ctx context.Context, videoID string) (*Entry, error) {
	query, args, err := s.sb.Select(entryColumns...).
		From(entriesTable).
		Where(sq.Eq{"video_id": videoID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// List returns entries matching filter, most recently updated first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, error) {
	builder := s.sb.Select(entryColumns...).
		From(entriesTable).
		OrderBy("updated_at DESC", "video_id")
	if filter.Outcome != "" {
		builder = builder.Where(sq.Eq{"outcome": filter.Outcome})
	}
	if filter.RunID != "" {
		builder = builder.Where(sq.Eq{"run_id": filter.RunID})
	}
	if filter.PlaylistID != "" {
		builder = builder.Where(sq.Eq{"playlist_id": filter.PlaylistID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Counts returns the number of entries per outcome.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	query, args, err := s.sb.Select("outcome", "COUNT(1)").
		From(entriesTable).
		GroupBy("outcome").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build counts query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry     Entry
		errMsg    sql.NullString
		updatedAt string
	)
	if err := row.Scan(
		&entry.VideoID,
		&entry.PlaylistID,
		&entry.Title,
		&entry.Outcome,
		&entry.Admitted,
		&entry.Scanned,
		&entry.Pages,
		&errMsg,
		&entry.RunID,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	entry.Error = errMsg.String
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		entry.UpdatedAt = ts
	}
	return &entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
