package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// WriteCSV writes rows to path with the Columns header.
func WriteCSV(path string, rows []Row) error {
	if len(rows) == 0 {
		return ErrNoRows
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{r.Filename, r.Title, r.KeywordString(), r.Category, r.Description}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.Filename, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return f.Close()
}

// ReadCSV reads rows from a metadata CSV. Columns are matched by header
// name, so their order does not matter. Keywords are split on "," without
// trimming so joining them with "," restores the cell exactly.
func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: missing header", path)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, c)
		}
	}

	var rows []Row
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv at line %d: %w", line, err)
		}

		get := func(col string) string {
			i := idx[col]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		row := Row{
			Filename:    get("Filename"),
			Title:       get("Title"),
			Category:    get("Category"),
			Description: get("Description"),
		}
		if kw := get("Keywords"); kw != "" {
			row.Keywords = strings.Split(kw, ",")
		}
		rows = append(rows, row)
	}

	slog.Debug("Loaded metadata rows", "path", path, "rows", len(rows))
	return rows, nil
}

// Load reads rows from a .csv or .parquet file.
func Load(path string) ([]Row, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(path)
	case ".parquet":
		return ReadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .csv, .parquet)", ext)
	}
}
