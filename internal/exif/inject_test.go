package exif

import (
	"errors"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stockpipe/stockpipe/internal/metadata"
)

type recordingWriter struct {
	written map[string]Tags
	fail    string
}

func (r *recordingWriter) WriteTags(path string, t Tags) error {
	if filepath.Base(path) == r.fail {
		return errors.New("disk full")
	}
	if r.written == nil {
		r.written = map[string]Tags{}
	}
	r.written[filepath.Base(path)] = t
	return nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestInject(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.jpg"))
	touch(t, filepath.Join(dir, "c.png"))
	if err := os.Mkdir(filepath.Join(dir, "d.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	rows := []metadata.Row{
		{Filename: "a.jpg", Title: "Sunset", Keywords: []string{"red", "orange"}, Category: "5", Description: "A sunset"},
		{Filename: "b.jpg", Title: "Missing"},
		{Filename: "c.png", Title: "Broken"},
		{Filename: "d.jpg", Title: "Directory"},
	}

	w := &recordingWriter{fail: "c.png"}
	res := Inject(rows, dir, w)

	if res.Updated != 1 {
		t.Errorf("Expected 1 updated file, got %d", res.Updated)
	}
	if !reflect.DeepEqual(res.Missing, []string{"b.jpg", "d.jpg"}) {
		t.Errorf("Unexpected missing list %v", res.Missing)
	}
	if !reflect.DeepEqual(res.Failed, []string{"c.png"}) {
		t.Errorf("Unexpected failed list %v", res.Failed)
	}

	want := Tags{Title: "Sunset", Keywords: "red,orange", Category: "5", Description: "A sunset"}
	if got := w.written["a.jpg"]; got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestTagsFromRowRestoresKeywordCell(t *testing.T) {
	// ReadCSV splits "red, orange" into ["red", " orange"].
	row := metadata.Row{Keywords: []string{"red", " orange"}}
	if got := TagsFromRow(row).Keywords; got != "red, orange" {
		t.Errorf("Expected the CSV cell, got %q", got)
	}
}

func TestExiftoolRoundTrip(t *testing.T) {
	if _, err := exec.LookPath("exiftool"); err != nil {
		t.Skip("exiftool not installed")
	}

	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "a.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	csvPath := filepath.Join(dir, "metadata.csv")
	content := "Filename,Title,Keywords,Category,Description\na.jpg,Sunset,\"red,orange\",5,Ein Sonnenuntergang über dem Meer\nb.jpg,Gone,x,1,y\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	rows, err := metadata.ReadCSV(csvPath)
	if err != nil {
		t.Fatal(err)
	}

	et, err := NewExiftool()
	if err != nil {
		t.Fatalf("NewExiftool returned error: %v", err)
	}
	defer et.Close()

	res := Inject(rows, dir, et)
	if res.Updated != 1 || len(res.Missing) != 1 || len(res.Failed) != 0 {
		t.Fatalf("Unexpected result %+v", res)
	}

	got, err := et.ReadTags(filepath.Join(dir, "a.jpg"))
	if err != nil {
		t.Fatalf("ReadTags returned error: %v", err)
	}
	want := Tags{Title: "Sunset", Keywords: "red,orange", Category: "5", Description: "Ein Sonnenuntergang über dem Meer"}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}
