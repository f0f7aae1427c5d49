// Package generator recommends stock metadata for a directory of images
// using a vision-language model.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/stockpipe/stockpipe/internal/imageutil"
	"github.com/stockpipe/stockpipe/internal/metadata"
	"github.com/stockpipe/stockpipe/internal/providers"
)

const jpegQuality = 90

// Options configure a Generator.
type Options struct {
	Model        string
	Workers      int
	MaxDimension int
}

// Generator sends resized images to a vision model and parses its answers.
type Generator struct {
	provider providers.Provider
	opts     Options
}

// Failure records an image that produced no metadata.
type Failure struct {
	Filename string `yaml:"filename"`
	Error    string `yaml:"error"`
}

// Result is the outcome of a directory run. Rows are in completion order.
type Result struct {
	Directory string
	Total     int
	Rows      []metadata.Row
	Failures  []Failure
}

// New returns a Generator. Workers and MaxDimension default to 5 and 800.
func New(p providers.Provider, opts Options) *Generator {
	if opts.Workers < 1 {
		opts.Workers = 5
	}
	if opts.MaxDimension < 1 {
		opts.MaxDimension = 800
	}
	return &Generator{provider: p, opts: opts}
}

// Recommend returns the metadata the model suggests for the image at path.
func (g *Generator) Recommend(ctx context.Context, path string) (metadata.Row, error) {
	name := filepath.Base(path)

	img, err := imageutil.Open(path)
	if err != nil {
		return metadata.Row{}, err
	}
	img, err = imageutil.FitLongestSide(img, g.opts.MaxDimension)
	if err != nil {
		return metadata.Row{}, fmt.Errorf("resize: %w", err)
	}
	data, err := imageutil.EncodeJPEG(img, jpegQuality)
	if err != nil {
		return metadata.Row{}, err
	}

	slog.Info("Processing image", "file", name)

	text, err := g.provider.GenerateText(ctx, providers.Config{
		Model:  g.opts.Model,
		Prompt: metadata.BuildPrompt(name),
		Image:  &providers.Image{Data: data, MIMEType: "image/jpeg"},
	})
	if err != nil {
		return metadata.Row{}, fmt.Errorf("generate: %w", err)
	}

	slog.Debug("Model response", "file", name, "response", text)
	return metadata.ParseResponse(name, text), nil
}

// Run recommends metadata for every supported image directly inside dir.
// Images that fail are logged and left out of the result.
func (g *Generator) Run(ctx context.Context, dir string) (*Result, error) {
	paths, err := imageutil.List(dir, imageutil.MetadataExtensions)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Directory: dir,
		Total:     len(paths),
		Rows:      make([]metadata.Row, 0, len(paths)),
	}

	slog.Info("Processing images", "dir", dir, "images", len(paths), "concurrency", g.opts.Workers)

	type outcome struct {
		row  metadata.Row
		name string
		err  error
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, g.opts.Workers)
	outcomes := make(chan outcome, len(paths))

	for i, path := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}: // Acquire
			case <-ctx.Done():
				outcomes <- outcome{name: filepath.Base(path), err: ctx.Err()}
				return
			}
			defer func() { <-semaphore }() // Release

			slog.Debug("Queued image", "file", filepath.Base(path), "progress", fmt.Sprintf("%d/%d", idx+1, len(paths)))
			row, err := g.Recommend(ctx, path)
			outcomes <- outcome{row: row, name: filepath.Base(path), err: err}
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		if o.err != nil {
			slog.Error("Error processing image", "file", o.name, "err", o.err)
			result.Failures = append(result.Failures, Failure{Filename: o.name, Error: o.err.Error()})
			continue
		}
		result.Rows = append(result.Rows, o.row)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	return result, nil
}
