// Package metadata holds the stock metadata row shared by the generator and
// the injector, plus its prompt, response parser and file formats.
package metadata

import (
	"errors"
	"strings"
)

// ErrNoRows is returned when there is nothing to write.
var ErrNoRows = errors.New("no metadata rows")

// Columns is the header of the metadata CSV, in order.
var Columns = []string{"Filename", "Title", "Keywords", "Category", "Description"}

// Row is the metadata recommended for a single image.
type Row struct {
	Filename    string   `parquet:"filename"`
	Title       string   `parquet:"title"`
	Keywords    []string `parquet:"keywords,list"`
	Category    string   `parquet:"category"`
	Description string   `parquet:"description"`
}

// KeywordString flattens the keywords the way they are stored in the CSV.
func (r Row) KeywordString() string {
	return strings.Join(r.Keywords, ", ")
}
