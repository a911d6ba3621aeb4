package upload

import (
	"bytes"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestSaver(t *testing.T) *Saver {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := NewSaver(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewSaver() error = %v", err)
	}
	return s
}

// multipartFile builds a real multipart.File/FileHeader pair the same way
// net/http would hand them to a handler.
func multipartFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("media", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing part: %v", err)
	}
	w.Close()

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm() error = %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	header := form.File["media"][0]
	file, err := header.Open()
	if err != nil {
		t.Fatalf("opening part: %v", err)
	}
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestSave_WritesFileAndReturnsPublicURL(t *testing.T) {
	s := newTestSaver(t)
	file, header := multipartFile(t, "photo.PNG", []byte("fake image bytes"))

	url, err := s.Save(file, header)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !strings.HasPrefix(url, PublicPrefix) {
		t.Errorf("url = %q, want prefix %q", url, PublicPrefix)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want lowercase .png extension", url)
	}

	path := filepath.Join(s.Dir(), strings.TrimPrefix(url, PublicPrefix))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("saved contents = %q", data)
	}
}

func TestSave_TwoUploadsSameNameDoNotCollide(t *testing.T) {
	s := newTestSaver(t)

	f1, h1 := multipartFile(t, "photo.png", []byte("one"))
	f2, h2 := multipartFile(t, "photo.png", []byte("two"))

	url1, err := s.Save(f1, h1)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	url2, err := s.Save(f2, h2)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if url1 == url2 {
		t.Error("two uploads with the same client filename got the same URL")
	}
}

func TestSave_IgnoresHostileFilename(t *testing.T) {
	s := newTestSaver(t)
	file, header := multipartFile(t, "../../etc/passwd", []byte("nope"))

	url, err := s.Save(file, header)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// No path separators survive into the stored name.
	name := strings.TrimPrefix(url, PublicPrefix)
	if strings.ContainsAny(name, "/\\") {
		t.Errorf("stored name %q contains path separators", name)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), name)); err != nil {
		t.Errorf("blob not under upload dir: %v", err)
	}
}

func TestSafeExt(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"photo.png", ".png"},
		{"PHOTO.JPEG", ".jpeg"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
		{"trailingdot.", ""},
		{"weird.p!g", ""},
		{"way.toolongext12345", ""},
	}
	for _, tc := range cases {
		if got := safeExt(tc.filename); got != tc.want {
			t.Errorf("safeExt(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}
