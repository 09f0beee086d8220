package texture

import (
	"image"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Resolver resolves a texture name to a decoded NRGBA image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache resolves names through an Index and keeps decoded textures. It is
// shared by every render worker; concurrent misses on one file decode it
// once.
type Cache struct {
	Logger *slog.Logger

	index  *Index
	mu     sync.RWMutex
	images map[string]*image.NRGBA // nil records a failed load
	loads  singleflight.Group
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		Logger: slog.Default(),
		index:  index,
		images: make(map[string]*image.NRGBA),
	}
}

// Resolve returns the texture for texName, nil if it is unknown or failed
// to load. Failures are logged once and not retried.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	if texName == "" {
		return nil
	}
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	c.mu.RLock()
	img, cached := c.images[path]
	c.mu.RUnlock()
	if cached {
		return img
	}

	v, _, _ := c.loads.Do(path, func() (any, error) {
		c.mu.RLock()
		img, cached := c.images[path]
		c.mu.RUnlock()
		if cached {
			return img, nil
		}
		img, err := LoadTexture(path)
		if err != nil {
			c.Logger.Warn("texture load failed", "path", path, "error", err)
		}
		c.mu.Lock()
		c.images[path] = img
		c.mu.Unlock()
		return img, nil
	})
	return v.(*image.NRGBA)
}

// Len reports how many files were looked up, including failed ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
