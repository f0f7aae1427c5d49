// Package promptgen asks a text model for image-generation prompts and lays
// them out in spreadsheets ready for the browser driver.
package promptgen

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stockpipe/stockpipe/internal/providers"
	"github.com/stockpipe/stockpipe/internal/sheet"
)

const (
	// DefaultCount is the number of prompts requested when none is given.
	DefaultCount = 18
	// SheetCount and SheetSize describe the formatted workbook layout.
	SheetCount = 3
	SheetSize  = 6

	responseDelimiter = ":\n\n"
	rawHeader         = "Prompt"
)

var numbering = regexp.MustCompile(`^\d+\.\s*`)

// BuildPrompt returns the request sent to the text model.
func BuildPrompt(keyword string, count int) string {
	return fmt.Sprintf(`
    AI image prompt expert, create %d diverse and detailed prompts based on "%s".
    Consider various styles (2D, 3D, photorealistic), compositions, and market trends.
    For each prompt:
    1. Describe the scene in detail (colors, positioning, lighting, background, camera angle)
    2. Specify any unique elements or creative twists
    3. Suggest a mood or atmosphere
    4. Include relevant technical aspects (e.g., rendering style, art technique)

    Format: Number. Detailed prompt (no titles, 1-2 sentences each)
    `, count, keyword)
}

// StripBeforeDelimiter drops text up to and including the first delim.
// Text without delim is returned unchanged.
func StripBeforeDelimiter(text, delim string) string {
	if _, after, ok := strings.Cut(text, delim); ok {
		return after
	}
	return text
}

// CleanResponse turns a model answer into spreadsheet lines.
func CleanResponse(text string) []string {
	text = StripBeforeDelimiter(text, responseDelimiter)
	text = strings.ReplaceAll(text, "*", "")
	return strings.Split(text, "\n")
}

// FormatPrompts keeps the numbered lines and removes their numbering.
func FormatPrompts(lines []string) []string {
	var prompts []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(line); !unicode.IsDigit(r) {
			continue
		}
		prompts = append(prompts, numbering.ReplaceAllString(line, ""))
	}
	return prompts
}

// SplitSheets lays prompts out over count sheets of size rows each, named
// Sheet1..SheetN. Indices are 1-based and continue across sheets. Prompts
// beyond count*size are dropped.
func SplitSheets(prompts []string, count, size int) []sheet.Indexed {
	sheets := make([]sheet.Indexed, count)
	for i := range sheets {
		start := min(i*size, len(prompts))
		end := min(start+size, len(prompts))
		sheets[i] = sheet.Indexed{
			Name:    fmt.Sprintf("Sheet%d", i+1),
			Start:   i*size + 1,
			Prompts: prompts[start:end],
		}
	}
	return sheets
}

// RawPath is where Generate writes the prompts for keyword.
func RawPath(outDir, keyword string) string {
	return filepath.Join(outDir, keyword+"_prompts.xlsx")
}

// Generator requests prompts from a text model.
type Generator struct {
	provider providers.Provider
	model    string
}

// New returns a Generator using model on p.
func New(p providers.Provider, model string) *Generator {
	return &Generator{provider: p, model: model}
}

// Generate requests count prompts for keyword and writes the cleaned lines
// to outDir/<keyword>_prompts.xlsx. It returns the written path.
func (g *Generator) Generate(ctx context.Context, keyword string, count int, outDir string) (string, error) {
	if count < 1 {
		count = DefaultCount
	}

	slog.Info("Requesting prompts", "keyword", keyword, "count", count, "model", g.model)
	text, err := g.provider.GenerateText(ctx, providers.Config{
		Model:  g.model,
		Prompt: BuildPrompt(keyword, count),
	})
	if err != nil {
		return "", fmt.Errorf("generate prompts: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := RawPath(outDir, keyword)
	if err := sheet.WriteColumn(path, rawHeader, CleanResponse(text)); err != nil {
		return "", err
	}

	slog.Info("Output saved", "path", path)
	return path, nil
}

// Format reads the raw prompts at rawPath and writes the numbered
// three-sheet workbook to outPath.
func Format(rawPath, outPath string) error {
	lines, err := sheet.ReadColumn(rawPath, "", rawHeader)
	if err != nil {
		return err
	}

	prompts := FormatPrompts(lines)
	if len(prompts) > SheetCount*SheetSize {
		slog.Warn("Dropping extra prompts", "kept", SheetCount*SheetSize, "dropped", len(prompts)-SheetCount*SheetSize)
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := sheet.WriteIndexed(outPath, SplitSheets(prompts, SheetCount, SheetSize)); err != nil {
		return err
	}

	slog.Info("Saved formatted file", "path", outPath, "prompts", min(len(prompts), SheetCount*SheetSize))
	return nil
}
