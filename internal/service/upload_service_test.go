package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildFileHeader assembles a real multipart.FileHeader the way gin would
// hand it to us.
func buildFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 10240)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected one file header, got %d", len(files))
	}
	return files[0]
}

func TestUploadService_SaveStoresFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, "/static/uploads", 1024)

	header := buildFileHeader(t, "notes.txt", []byte("hello"))
	stored, err := svc.Save("user-1", header)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if stored.Name != "notes.txt" {
		t.Fatalf("expected original filename preserved, got %q", stored.Name)
	}
	if !strings.HasPrefix(stored.URL, "/static/uploads/user-1/") {
		t.Fatalf("expected URL under the user's upload path, got %q", stored.URL)
	}
	if !strings.HasSuffix(stored.URL, ".txt") {
		t.Fatalf("expected extension preserved in stored name, got %q", stored.URL)
	}

	onDisk := filepath.Join(dir, "user-1", filepath.Base(stored.URL))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestUploadService_RejectsOversizedFile(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "/static/uploads", 4)

	header := buildFileHeader(t, "big.bin", []byte("more than four bytes"))
	if _, err := svc.Save("user-1", header); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestUploadService_ProbesImageDimensions(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "/static/uploads", 1024)

	// 1x1 transparent png
	png := []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
		0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
		0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
	}

	header := buildFileHeader(t, "dot.png", png)
	stored, err := svc.Save("user-1", header)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if stored.Width != 1 || stored.Height != 1 {
		t.Fatalf("expected 1x1 probe result, got %dx%d", stored.Width, stored.Height)
	}
}

func TestUploadService_NonImageSkipsProbe(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "/static/uploads", 1024)

	header := buildFileHeader(t, "doc.pdf", []byte("%PDF-1.4"))
	stored, err := svc.Save("user-1", header)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if stored.Width != 0 || stored.Height != 0 {
		t.Fatal("non-image files must not report dimensions")
	}
}
