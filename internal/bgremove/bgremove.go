// Package bgremove strips the background from every image in a directory.
package bgremove

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stockpipe/stockpipe/internal/imageutil"
)

// OutputPrefix is prepended to the name of every processed file.
const OutputPrefix = "no_bg_"

// DefaultOutputDir is created inside the input directory when no output
// directory is given.
const DefaultOutputDir = "output_images_remove_background"

// Remover returns the image in data with its background removed.
type Remover interface {
	Remove(ctx context.Context, data []byte, filename string) ([]byte, error)
}

// ProcessDir runs r over every supported image directly inside in and writes
// the results to out. The first error stops the run; files already written
// are left in place. It returns the written paths.
func ProcessDir(ctx context.Context, in, out string, r Remover) ([]string, error) {
	if out == "" {
		out = filepath.Join(in, DefaultOutputDir)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths, err := imageutil.List(in, imageutil.BackgroundExtensions)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		name := filepath.Base(path)
		dst := filepath.Join(out, OutputPrefix+name)

		slog.Info("Removing background", "file", path)
		if err := processFile(ctx, path, dst, r); err != nil {
			return written, fmt.Errorf("%s: %w", name, err)
		}
		slog.Info("Saved result", "file", dst)

		written = append(written, dst)
	}

	return written, nil
}

func processFile(ctx context.Context, src, dst string, r Remover) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if _, _, err := imageutil.DecodeConfig(data); err != nil {
		return err
	}

	result, err := r.Remove(ctx, data, filepath.Base(src))
	if err != nil {
		return fmt.Errorf("remove background: %w", err)
	}

	if err := os.WriteFile(dst, result, 0o644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
