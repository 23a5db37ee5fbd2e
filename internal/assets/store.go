// Package assets resolves layer/overlay URLs to decoded media and
// fonts. Failures are per-asset: a layer whose asset cannot be
// resolved simply does not render.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/font/opentype"
)

// Store resolves asset URLs
type Store interface {
	Image(ctx context.Context, url string) (image.Image, error)
	Font(ctx context.Context, url string) (*opentype.Font, error)
}

// FileStore resolves local paths and http(s) URLs
type FileStore struct {
	logger zerolog.Logger
	client *http.Client
}

// NewFileStore creates an asset store
func NewFileStore(logger zerolog.Logger) *FileStore {
	return &FileStore{
		logger: logger.With().Str("component", "assets").Logger(),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Image fetches and decodes an image asset
func (s *FileStore) Image(ctx context.Context, url string) (image.Image, error) {
	data, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", url, err)
	}
	return img, nil
}

// Font fetches and parses an uploaded font file
func (s *FileStore) Font(ctx context.Context, url string) (*opentype.Font, error) {
	data, err := s.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", url, err)
	}
	return f, nil
}

func (s *FileStore) fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	data, err := os.ReadFile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return data, nil
}

// Library maps friendly names to playable URLs, for the bundled music
// and overlay catalogs.
type Library struct {
	entries map[string]string
}

// NewLibrary creates an empty catalog
func NewLibrary() *Library {
	return &Library{entries: make(map[string]string)}
}

// Register adds an entry
func (l *Library) Register(name, url string) {
	l.entries[name] = url
}

// Resolve returns the URL for a catalog entry
func (l *Library) Resolve(name string) (string, bool) {
	url, ok := l.entries[name]
	return url, ok
}

// List returns all entry names
func (l *Library) List() []string {
	names := make([]string, 0, len(l.entries))
	for name := range l.entries {
		names = append(names, name)
	}
	return names
}
