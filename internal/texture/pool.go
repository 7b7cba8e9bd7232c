package texture

import (
	"image"
	"sync"
)

// surfacePoolKey identifies a pool by surface dimensions.
type surfacePoolKey struct {
	w, h int
}

// surfacePools maps (width, height) -> *sync.Pool of *image.RGBA. Only a
// handful of distinct sizes exist per run (1024x1024 pages plus a few tile
// sizes), so a sync.Map stays small and avoids a shared mutex on the
// worker-pool hot path. Adapted from internal/tile/rgbapool.go.
var surfacePools sync.Map

// getSurface returns a *image.RGBA from the pool sized w*h, or allocates a
// new one. Callers must overwrite every pixel before relying on content.
func getSurface(w, h int) *image.RGBA {
	key := surfacePoolKey{w, h}
	if p, ok := surfacePools.Load(key); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			return v.(*image.RGBA)
		}
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// putSurface returns a surface to the pool for reuse.
func putSurface(img *image.RGBA) {
	if img == nil {
		return
	}
	key := surfacePoolKey{img.Rect.Dx(), img.Rect.Dy()}
	p, _ := surfacePools.LoadOrStore(key, &sync.Pool{})
	p.(*sync.Pool).Put(img)
}
