package exif

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stockpipe/stockpipe/internal/metadata"
)

// Result counts what Inject did.
type Result struct {
	Updated int
	Missing []string
	Failed  []string
}

// Inject writes each row's tags into dir/Filename. Rows whose file does not
// exist are logged and skipped; write errors are logged and counted.
func Inject(rows []metadata.Row, dir string, w Writer) Result {
	var res Result

	for _, row := range rows {
		path := filepath.Join(dir, row.Filename)
		if row.Filename == "" || !isFile(path) {
			slog.Warn("File not found", "file", row.Filename, "dir", dir)
			res.Missing = append(res.Missing, row.Filename)
			continue
		}

		if err := w.WriteTags(path, TagsFromRow(row)); err != nil {
			slog.Error("Failed to add metadata", "file", row.Filename, "err", err)
			res.Failed = append(res.Failed, row.Filename)
			continue
		}

		slog.Debug("Added metadata", "file", row.Filename)
		res.Updated++
	}

	return res
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
