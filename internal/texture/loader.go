package texture

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// Extensions lists the texture file types the loader decodes, in stem priority order.
var Extensions = []string{".png", ".tga", ".webp", ".jpg", ".jpeg"}

// LoadTexture reads an image file and returns it as NRGBA.
func LoadTexture(path string) (*image.NRGBA, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if priority(ext) < 0 {
		return nil, fmt.Errorf("texture: unknown extension: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f, ext)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	return ToNRGBA(img), nil
}

// Decode decodes r with the decoder for ext. TGA has no magic number, so
// decoders are picked by extension rather than sniffed.
func Decode(r io.Reader, ext string) (image.Image, error) {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Decode(r)
	case ".tga":
		return tga.Decode(r)
	case ".webp":
		return webp.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	}
	return nil, fmt.Errorf("texture: unknown extension: %s", ext)
}

// ToNRGBA converts any image to NRGBA anchored at the origin.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

func priority(ext string) int {
	for i, e := range Extensions {
		if e == ext {
			return i
		}
	}
	return -1
}
