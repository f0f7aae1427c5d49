package bgremove

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeRemover struct {
	calls  []string
	failOn string
}

func (f *fakeRemover) Remove(_ context.Context, data []byte, filename string) ([]byte, error) {
	f.calls = append(f.calls, filename)
	if filename == f.failOn {
		return nil, errors.New("model failed")
	}
	return append([]byte("matted:"), data[:4]...), nil
}

func TestProcessDir(t *testing.T) {
	in := t.TempDir()
	img := pngBytes(t)
	for _, name := range []string{"b.PNG", "a.jpg", "c.webp"} {
		if err := os.WriteFile(filepath.Join(in, name), img, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &fakeRemover{}
	written, err := ProcessDir(context.Background(), in, "", r)
	if err != nil {
		t.Fatalf("ProcessDir returned error: %v", err)
	}

	out := filepath.Join(in, DefaultOutputDir)
	want := []string{
		filepath.Join(out, "no_bg_a.jpg"),
		filepath.Join(out, "no_bg_b.PNG"),
		filepath.Join(out, "no_bg_c.webp"),
	}
	if !reflect.DeepEqual(written, want) {
		t.Errorf("Expected %v, got %v", want, written)
	}
	if !reflect.DeepEqual(r.calls, []string{"a.jpg", "b.PNG", "c.webp"}) {
		t.Errorf("Unexpected remover calls %v", r.calls)
	}

	got, err := os.ReadFile(want[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(got, []byte("matted:")) {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestProcessDirStopsOnFirstError(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string][]byte
		failOn  string
		written int
	}{
		{
			name:    "remover error",
			files:   map[string][]byte{"a.png": nil, "b.png": nil, "c.png": nil},
			failOn:  "b.png",
			written: 1,
		},
		{
			name:    "undecodable image",
			files:   map[string][]byte{"a.png": nil, "b.jpg": []byte("not an image")},
			written: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := t.TempDir()
			out := filepath.Join(t.TempDir(), "out")
			for name, data := range tt.files {
				if data == nil {
					data = pngBytes(t)
				}
				if err := os.WriteFile(filepath.Join(in, name), data, 0o644); err != nil {
					t.Fatal(err)
				}
			}

			written, err := ProcessDir(context.Background(), in, out, &fakeRemover{failOn: tt.failOn})
			if err == nil {
				t.Fatal("Expected error")
			}
			if len(written) != tt.written {
				t.Errorf("Expected %d written, got %d", tt.written, len(written))
			}

			entries, err := os.ReadDir(out)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != tt.written {
				t.Errorf("Expected %d files in output, got %d", tt.written, len(entries))
			}
		})
	}
}

func TestRembgRemove(t *testing.T) {
	img := pngBytes(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/remove" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("model"); got != "u2net" {
			t.Errorf("Expected model u2net, got %q", got)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "a.png" {
			t.Errorf("Expected filename a.png, got %q", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if !bytes.Equal(data, img) {
			t.Error("Uploaded bytes differ from input")
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("PNGDATA"))
	}))
	defer server.Close()

	got, err := NewRembg(server.URL+"/", "u2net", time.Minute).Remove(context.Background(), img, "a.png")
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if string(got) != "PNGDATA" {
		t.Errorf("Expected PNGDATA, got %q", got)
	}
}

func TestRembgRemoveError(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusInternalServerError)
			},
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			if _, err := NewRembg(server.URL, "u2net", 0).Remove(context.Background(), []byte("x"), "a.png"); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
