package generator

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/stockpipe/stockpipe/internal/metadata"
	"gopkg.in/yaml.v3"
)

const (
	CSVName     = "metadata.csv"
	ParquetName = "metadata.parquet"
	ReportName  = "metadata_run.yaml"
)

// SaveOptions select the files written next to the images.
type SaveOptions struct {
	Parquet  bool
	Report   bool
	Provider string
	Model    string
}

// RunReport is the YAML summary of a generator run.
type RunReport struct {
	RunID     string    `yaml:"run_id"`
	Provider  string    `yaml:"provider"`
	Model     string    `yaml:"model"`
	Directory string    `yaml:"directory"`
	Timestamp string    `yaml:"timestamp"`
	Images    int       `yaml:"images"`
	Succeeded int       `yaml:"succeeded"`
	Failures  []Failure `yaml:"failures,omitempty"`
}

// Save writes the metadata CSV (and optionally parquet and the run report)
// into the result's directory. With no successful rows it logs a warning
// and writes no metadata files.
func Save(res *Result, opts SaveOptions) error {
	if opts.Report {
		if err := writeReport(res, opts); err != nil {
			return err
		}
	}

	if len(res.Rows) == 0 {
		slog.Warn("No valid metadata generated", "dir", res.Directory)
		return nil
	}

	csvPath := filepath.Join(res.Directory, CSVName)
	if err := metadata.WriteCSV(csvPath, res.Rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	slog.Info("Metadata saved", "path", csvPath, "rows", len(res.Rows))

	if opts.Parquet {
		pqPath := filepath.Join(res.Directory, ParquetName)
		if err := metadata.WriteParquet(pqPath, res.Rows); err != nil {
			return fmt.Errorf("write parquet: %w", err)
		}
		slog.Info("Metadata saved", "path", pqPath, "rows", len(res.Rows))
	}

	return nil
}

func writeReport(res *Result, opts SaveOptions) error {
	report := RunReport{
		RunID:     uuid.NewString(),
		Provider:  opts.Provider,
		Model:     opts.Model,
		Directory: res.Directory,
		Timestamp: time.Now().Format("2006-01-02_15-04-05"),
		Images:    res.Total,
		Succeeded: len(res.Rows),
		Failures:  res.Failures,
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	path := filepath.Join(res.Directory, ReportName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	slog.Debug("Run report saved", "path", path)
	return nil
}
