package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestIndexResolvesStemCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "props"), 0o755))
	writePNG(t, filepath.Join(dir, "props", "Wood.png"), color.NRGBA{200, 100, 50, 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	idx := BuildIndex(dir)
	assert.Equal(t, 1, idx.Len())

	path, ok := idx.ResolvePath(`textures\WOOD.jpg`)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "props", "Wood.png"), path)

	_, ok = idx.ResolvePath("stone")
	assert.False(t, ok)
}

func TestCacheLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "red.png"), color.NRGBA{255, 0, 0, 255})

	c := NewCache(BuildIndex(dir))
	a := c.Resolve("red")
	require.NotNil(t, a)
	assert.Equal(t, uint8(255), a.Pix[0])
	assert.Same(t, a, c.Resolve("RED"))
	assert.Nil(t, c.Resolve(""))
	assert.Nil(t, c.Resolve("missing"))
	assert.Equal(t, 1, c.Len())
}

func TestCacheSharesConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "grass.png"), color.NRGBA{0, 180, 0, 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0o644))

	var logs bytes.Buffer
	c := NewCache(BuildIndex(dir))
	c.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	var wg sync.WaitGroup
	got := make([]*image.NRGBA, 8)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = c.Resolve("grass")
			c.Resolve("broken")
		}()
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, img := range got[1:] {
		assert.Same(t, got[0], img)
	}
	assert.Nil(t, c.Resolve("broken"))
	assert.Equal(t, 1, strings.Count(logs.String(), "texture load failed"))
}

func TestLoadTextureRejectsUnknownExtension(t *testing.T) {
	_, err := LoadTexture("foo.bmp")
	assert.ErrorContains(t, err, "unknown extension")
}

func TestToNRGBARebasesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 8))
	src.Set(5, 5, color.RGBA{1, 2, 3, 255})
	dst := ToNRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 2, 3), dst.Rect)
	assert.Equal(t, color.NRGBA{1, 2, 3, 255}, dst.NRGBAAt(0, 0))
}
