package layers

import (
	"context"
	"image"
	"sync"

	"github.com/rs/zerolog"
)

// ImageSource resolves a layer URL to a decoded image
type ImageSource interface {
	Image(ctx context.Context, url string) (image.Image, error)
}

// Preloader resolves layer assets in the background, keyed by layer
// id. A layer whose asset is still pending or failed to load renders
// as absent; the composite never errors on it. Results for layers
// forgotten mid-load are discarded.
type Preloader struct {
	logger zerolog.Logger
	source ImageSource

	mu     sync.Mutex
	images map[string]image.Image
	wanted map[string]bool
}

// NewPreloader creates a preloader backed by the given asset source
func NewPreloader(logger zerolog.Logger, source ImageSource) *Preloader {
	return &Preloader{
		logger: logger.With().Str("component", "preloader").Logger(),
		source: source,
		images: make(map[string]image.Image),
		wanted: make(map[string]bool),
	}
}

// Preload starts resolving the layer's asset if it isn't already
// cached or in flight. Fire and forget.
func (p *Preloader) Preload(ctx context.Context, l Layer) {
	if l.URL == "" {
		return
	}
	if p.source == nil {
		p.logger.Warn().
			Str("layer", l.ID).
			Str("url", l.URL).
			Msg("no asset source configured, layer will not render")
		return
	}

	p.mu.Lock()
	if _, loaded := p.images[l.ID]; loaded || p.wanted[l.ID] {
		p.mu.Unlock()
		return
	}
	p.wanted[l.ID] = true
	p.mu.Unlock()

	go func() {
		img, err := p.source.Image(ctx, l.URL)

		p.mu.Lock()
		defer p.mu.Unlock()

		if !p.wanted[l.ID] {
			// layer was removed while loading
			return
		}
		delete(p.wanted, l.ID)

		if err != nil {
			p.logger.Warn().Err(err).
				Str("layer", l.ID).
				Str("url", l.URL).
				Msg("asset load failed, layer will not render")
			return
		}
		p.images[l.ID] = img
	}()
}

// Image returns the decoded asset for a layer id, if ready
func (p *Preloader) Image(id string) (image.Image, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	img, ok := p.images[id]
	return img, ok
}

// Forget drops the cached asset and discards any in-flight load
func (p *Preloader) Forget(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.images, id)
	delete(p.wanted, id)
}

// Put stores a decoded image directly. Used when the asset is already
// in memory and by tests.
func (p *Preloader) Put(id string, img image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.images[id] = img
}
