package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/stockpipe/stockpipe/internal/exif"
	"github.com/stockpipe/stockpipe/internal/metadata"
)

func newInjectCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "inject <metadata.csv>",
		Short: "Write metadata from a CSV into image EXIF tags",
		Long: `Write Title, Keywords, Category and Description from a metadata file into
the EXIF tags of the images it names. Files are modified in place. Rows whose image
is missing are logged and skipped.

Requires exiftool on PATH.`,
		Example: `  # Images next to the CSV
  stockpipe inject ./day12/metadata.csv

  # Images in another directory, rows from a parquet export
  stockpipe inject ./metadata.parquet --dir ./day12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if dir == "" {
				dir = filepath.Dir(path)
			}

			rows, err := metadata.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load metadata: %w", err)
			}

			et, err := exif.NewExiftool()
			if err != nil {
				return err
			}
			defer et.Close()

			res := exif.Inject(rows, dir, et)
			slog.Info("Metadata injection complete",
				"rows", len(rows),
				"updated", res.Updated,
				"missing", len(res.Missing),
				"failed", len(res.Failed))

			if len(res.Failed) > 0 {
				return fmt.Errorf("failed to write metadata for %d files", len(res.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Image directory (defaults to the metadata file's directory)")

	return cmd
}
