package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tunetalk/internal/textutil"
)

const (
	// Suffix is appended to the sanitized title to form a table file name.
	Suffix = "_comments.csv"
	// PartialSuffix marks a table still being written.
	PartialSuffix = ".partial"
)

// Column names of the persisted schema.
const (
	ColumnComment  = "comment"
	ColumnUserName = "user_name"
	ColumnDate     = "date"
)

// Header is the first row of every table.
var Header = []string{ColumnComment, ColumnUserName, ColumnDate}

// Row is one admitted comment.
type Row struct {
	Comment  string
	UserName string
	Date     string
}

func (r Row) record() []string {
	return []string{r.Comment, r.UserName, r.Date}
}

// Store maps video titles to table files inside a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created lazily.
func NewStore(dir string) *Store {
	return &Store{dir: strings.TrimSpace(dir)}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the finished table path for title.
func (s *Store) Path(title string) string {
	return filepath.Join(s.dir, textutil.SanitizeFileName(title)+Suffix)
}

// Exists reports whether a finished table for title is already present.
func (s *Store) Exists(title string) bool {
	info, err := os.Stat(s.Path(title))
	return err == nil && info.Mode().IsRegular()
}

// Begin starts a fresh table for title. Any leftover partial file from an
// interrupted run is truncated.
func (s *Store) Begin(title string) (*Writer, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("table: ensure output dir: %w", err)
	}
	final := s.Path(title)
	partial := final + PartialSuffix
	file, err := os.OpenFile(partial, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("table: create %s: %w", filepath.Base(partial), err)
	}
	w := &Writer{
		file:    file,
		csv:     csv.NewWriter(file),
		partial: partial,
		final:   final,
	}
	if err := w.write(Header); err != nil {
		_ = file.Close()
		_ = os.Remove(partial)
		return nil, err
	}
	return w, nil
}

// Writer appends rows to one in-progress table.
type Writer struct {
	file    *os.File
	csv     *csv.Writer
	partial string
	final   string
	rows    int
	closed  bool
}

// ErrClosed is returned when a committed or discarded writer is used.
var ErrClosed = errors.New("table: writer closed")

// Append writes rows and flushes them to disk, so the partial file always
// holds every row appended so far.
func (w *Writer) Append(rows []Row) error {
	if w.closed {
		return ErrClosed
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if err := w.csv.Write(row.record()); err != nil {
			return fmt.Errorf("table: write row: %w", err)
		}
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.rows += len(rows)
	return nil
}

// Rows returns the number of data rows written.
func (w *Writer) Rows() int {
	return w.rows
}

// Path returns the path the table will have once committed.
func (w *Writer) Path() string {
	return w.final
}

// Commit closes the table and renames it into place, marking the video
// complete.
func (w *Writer) Commit() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	if err := w.flush(); err != nil {
		_ = w.file.Close()
		return err
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("table: close: %w", err)
	}
	if err := os.Rename(w.partial, w.final); err != nil {
		_ = os.Remove(w.partial)
		return fmt.Errorf("table: rename into place: %w", err)
	}
	return nil
}

// Discard closes and removes the partial table. Safe to call after Commit.
func (w *Writer) Discard() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_ = w.file.Close()
	if err := os.Remove(w.partial); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("table: remove partial: %w", err)
	}
	return nil
}

func (w *Writer) write(record []string) error {
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("table: write header: %w", err)
	}
	return w.flush()
}

func (w *Writer) flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("table: flush: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("table: sync: %w", err)
	}
	return nil
}
