// Package imageutil lists, decodes and resizes the images handled by stockpipe.
package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"slices"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/karrick/godirwalk"
	_ "golang.org/x/image/webp"
)

var (
	// MetadataExtensions are the files the metadata generator sends to the vision model.
	MetadataExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
	// BackgroundExtensions are the files the background remover accepts.
	BackgroundExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// HasExtension reports whether name ends in one of exts, ignoring case.
func HasExtension(name string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(name)))
}

// List returns the regular files directly inside dir whose extension is in exts,
// sorted by name. Subdirectories are not descended into.
func List(dir string, exts []string) ([]string, error) {
	des, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var paths []string
	for _, de := range des {
		if !de.IsRegular() && !de.IsSymlink() {
			continue
		}
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}
		if HasExtension(de.Name(), exts) {
			paths = append(paths, filepath.Join(dir, de.Name()))
		}
	}
	slices.Sort(paths)

	return paths, nil
}

// Open decodes the image at path.
func Open(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imgio.Open: %w", err)
	}
	return img, nil
}

// FitLongestSide scales img so its longest side is maxSize, preserving the
// aspect ratio. Smaller images are scaled up.
func FitLongestSide(img image.Image, maxSize int) (image.Image, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image %dx%d", w, h)
	}

	ratio := float64(maxSize) / float64(max(w, h))
	x := max(int(float64(w)*ratio), 1)
	y := max(int(float64(h)*ratio), 1)

	return transform.Resize(img, x, y, transform.Lanczos), nil
}

// EncodeJPEG encodes img as a JPEG of the given quality.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.JPEGEncoder(quality)(&buf, img); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// MIMEType returns the MIME type for a file name's extension.
func MIMEType(name string) string {
	switch strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".") {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// DecodeConfig reports the format and dimensions of an encoded image.
func DecodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("decode image: %w", err)
	}
	return cfg, format, nil
}
