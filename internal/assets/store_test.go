package assets

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFileStoreLocalImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sticker.png")
	if err := os.WriteFile(path, pngBytes(t), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(zerolog.Nop())
	img, err := s.Image(context.Background(), path)
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("bounds: %v", img.Bounds())
	}
}

func TestFileStoreHTTPImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t))
	}))
	defer srv.Close()

	s := NewFileStore(zerolog.Nop())
	img, err := s.Image(context.Background(), srv.URL+"/sticker.png")
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	if img.Bounds().Dy() != 4 {
		t.Errorf("bounds: %v", img.Bounds())
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(zerolog.Nop())
	if _, err := s.Image(context.Background(), "/no/such/file.png"); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestLibrary(t *testing.T) {
	l := NewLibrary()
	l.Register("fire", "https://cdn.example.com/fire.png")
	l.Register("confetti", "https://cdn.example.com/confetti.png")

	url, ok := l.Resolve("fire")
	if !ok || url != "https://cdn.example.com/fire.png" {
		t.Errorf("resolve: %q, %v", url, ok)
	}
	if _, ok := l.Resolve("missing"); ok {
		t.Error("unknown name should not resolve")
	}
	if got := len(l.List()); got != 2 {
		t.Errorf("list: %d entries", got)
	}
}
