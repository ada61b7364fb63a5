package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNoTables is returned when a directory holds no finished tables.
	ErrNoTables = errors.New("table: no tables found")
	// ErrMissingColumn is returned when a table has no comment column.
	ErrMissingColumn = errors.New("table: missing required column")
)

// Record is a loaded row together with the table it came from.
type Record struct {
	Source   string
	Comment  string
	UserName string
	Date     string
}

// LoadDir reads every finished *.csv table in dir, in file name order, and
// concatenates their rows. Partial tables are ignored. Columns are located
// by header name; only the comment column is required.
func LoadDir(dir string) ([]Record, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("table: list %s: %w", dir, err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTables, dir)
	}

	var records []Record
	for _, path := range matches {
		loaded, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, loaded...)
	}
	return records, nil
}

func loadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	source := filepath.Base(path)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w %q in %s (empty file)", ErrMissingColumn, ColumnComment, source)
	}
	if err != nil {
		return nil, fmt.Errorf("table: read header of %s: %w", source, err)
	}
	columns := indexColumns(header)
	commentIdx, ok := columns[ColumnComment]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrMissingColumn, ColumnComment, source)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table: read %s: %w", source, err)
		}
		records = append(records, Record{
			Source:   source,
			Comment:  field(row, commentIdx),
			UserName: lookup(row, columns, ColumnUserName),
			Date:     lookup(row, columns, ColumnDate),
		})
	}
	return records, nil
}

func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	return columns
}

func lookup(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok {
		return ""
	}
	return field(row, idx)
}

func field(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
