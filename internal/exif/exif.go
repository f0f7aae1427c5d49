// Package exif embeds stock metadata into image files.
package exif

import (
	"fmt"
	"strings"

	"github.com/barasher/go-exiftool"
	"github.com/stockpipe/stockpipe/internal/metadata"
)

// Tag names written for each metadata field.
const (
	TagTitle       = "ImageDescription"
	TagKeywords    = "XPKeywords"
	TagCategory    = "XPTitle"
	TagDescription = "XPComment"
)

// Tags are the four values stored in an image.
type Tags struct {
	Title       string
	Keywords    string
	Category    string
	Description string
}

// TagsFromRow maps a metadata row onto tag values. Keywords are joined with
// "," which restores the CSV cell they were read from.
func TagsFromRow(r metadata.Row) Tags {
	return Tags{
		Title:       r.Title,
		Keywords:    strings.Join(r.Keywords, ","),
		Category:    r.Category,
		Description: r.Description,
	}
}

// Writer stores tags in an image file.
type Writer interface {
	WriteTags(path string, t Tags) error
}

// Exiftool reads and writes tags through a long-running exiftool process.
type Exiftool struct {
	et *exiftool.Exiftool
}

// NewExiftool starts exiftool. Callers must Close it.
func NewExiftool() (*Exiftool, error) {
	et, err := exiftool.NewExiftool(exiftool.Charset("filename=utf8"))
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &Exiftool{et: et}, nil
}

// Close stops the exiftool process.
func (e *Exiftool) Close() error {
	return e.et.Close()
}

// WriteTags overwrites the four tag slots of path in place. An image without
// an EXIF block gets a new one.
func (e *Exiftool) WriteTags(path string, t Tags) error {
	fm := exiftool.EmptyFileMetadata()
	fm.File = path
	fm.SetString(TagTitle, t.Title)
	fm.SetString(TagKeywords, t.Keywords)
	fm.SetString(TagCategory, t.Category)
	fm.SetString(TagDescription, t.Description)

	fms := []exiftool.FileMetadata{fm}
	e.et.WriteMetadata(fms)
	if fms[0].Err != nil {
		return fmt.Errorf("write metadata for %s: %w", path, fms[0].Err)
	}
	return nil
}

// ReadTags returns the four tag values stored in path. Absent tags are empty.
func (e *Exiftool) ReadTags(path string) (Tags, error) {
	fi := e.et.ExtractMetadata(path)[0]
	if fi.Err != nil {
		return Tags{}, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	get := func(k string) string {
		v, err := fi.GetString(k)
		if err != nil {
			return ""
		}
		return v
	}

	return Tags{
		Title:       get(TagTitle),
		Keywords:    get(TagKeywords),
		Category:    get(TagCategory),
		Description: get(TagDescription),
	}, nil
}
