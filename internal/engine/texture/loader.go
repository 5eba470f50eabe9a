package texture

import (
	"context"
	"image"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/engine/gpu"
	"github.com/Faultbox/sceneview/internal/logger"
)

// Fetcher retrieves raw image bytes for a path or URL.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc func(ctx context.Context, path string) ([]byte, error)

// Fetch calls f.
func (f FetchFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// Texture is an uploaded GPU texture.
type Texture struct {
	ID     uint32
	Width  int32
	Height int32
}

// Slot holds a texture that becomes available once its load completes.
// It moves from empty to loaded at most once.
type Slot struct {
	Path string
	tex  atomic.Pointer[Texture]
}

// Get returns the loaded texture, or nil while it is not available.
func (s *Slot) Get() *Texture {
	return s.tex.Load()
}

type upload struct {
	ctx  context.Context
	slot *Slot
	id   uint32
	img  *image.RGBA // nil when the load failed
}

// Loader fetches and decodes textures in the background and uploads them
// on the GL thread. Load and Poll must be called from the GL thread.
type Loader struct {
	dev     gpu.Device
	fetcher Fetcher

	mu      sync.Mutex
	pending []upload
	wg      sync.WaitGroup

	published []*Slot
}

// NewLoader creates a loader that reads image bytes through fetcher.
func NewLoader(dev gpu.Device, fetcher Fetcher) *Loader {
	return &Loader{dev: dev, fetcher: fetcher}
}

// Load allocates a clamped, linearly filtered texture and starts fetching
// path. The returned slot stays empty until a later Poll uploads the image.
// Fetch and decode failures are logged and leave the slot empty for good.
func (l *Loader) Load(ctx context.Context, path string) (*Slot, error) {
	id, err := l.dev.CreateTexture()
	if err != nil {
		return nil, err
	}
	l.dev.TextureParameters(id)

	slot := &Slot{Path: path}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		img := l.fetch(ctx, path)
		l.mu.Lock()
		l.pending = append(l.pending, upload{ctx: ctx, slot: slot, id: id, img: img})
		l.mu.Unlock()
	}()
	return slot, nil
}

func (l *Loader) fetch(ctx context.Context, path string) *image.RGBA {
	data, err := l.fetcher.Fetch(ctx, path)
	if err != nil {
		logger.Error("texture fetch failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	img, err := Decode(data, path)
	if err != nil {
		logger.Error("texture decode failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	FlipVertical(img)
	return img
}

// Poll uploads every finished load and publishes it to its slot.
// Results whose context was cancelled are dropped. Returns the number of
// textures published.
func (l *Loader) Poll() int {
	l.mu.Lock()
	ready := l.pending
	l.pending = nil
	l.mu.Unlock()

	published := 0
	for _, u := range ready {
		if u.img == nil || u.ctx.Err() != nil {
			l.dev.DeleteTexture(u.id)
			continue
		}
		w, h := int32(u.img.Rect.Dx()), int32(u.img.Rect.Dy())
		l.dev.TextureImageRGBA(u.id, w, h, u.img.Pix)
		u.slot.tex.Store(&Texture{ID: u.id, Width: w, Height: h})
		l.published = append(l.published, u.slot)
		logger.Debug("texture loaded", zap.String("path", u.slot.Path), zap.Int32("width", w), zap.Int32("height", h))
		published++
	}
	return published
}

// Wait blocks until every started fetch has finished and queued its result.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Close waits for outstanding fetches and deletes every texture the
// loader created. Slots keep their last value but must not be drawn.
func (l *Loader) Close() {
	l.wg.Wait()

	l.mu.Lock()
	ready := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, u := range ready {
		l.dev.DeleteTexture(u.id)
	}
	for _, s := range l.published {
		l.dev.DeleteTexture(s.Get().ID)
	}
	l.published = nil
}
