// Package exr writes single-part scanline OpenEXR images with half-float
// RGBA channels and ZIPS (per-scanline zlib) compression.
package exr

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/x448/float16"
)

const (
	magic   = 20000630
	version = 2

	pixelHalf = 1

	compressionNone = 0
	compressionZIPS = 2
)

// channel names in the order EXR requires (sorted).
var channels = []string{"A", "B", "G", "R"}

// Options controls the encoder.
type Options struct {
	// Uncompressed stores raw scanlines.
	Uncompressed bool
}

// Encode writes img as linear half-float RGBA. 8-bit color is treated as
// sRGB and linearized; alpha is written as is.
func Encode(w io.Writer, img image.Image, opts *Options) error {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("exr: empty image %dx%d", width, height)
	}
	comp := byte(compressionZIPS)
	if opts != nil && opts.Uncompressed {
		comp = compressionNone
	}

	var hdr bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&hdr, le, uint32(magic))
	_ = binary.Write(&hdr, le, uint32(version))

	var chlist bytes.Buffer
	for _, c := range channels {
		chlist.WriteString(c)
		chlist.WriteByte(0)
		_ = binary.Write(&chlist, le, int32(pixelHalf))
		chlist.Write([]byte{0, 0, 0, 0}) // pLinear + reserved
		_ = binary.Write(&chlist, le, int32(1))
		_ = binary.Write(&chlist, le, int32(1))
	}
	chlist.WriteByte(0)
	attribute(&hdr, "channels", "chlist", chlist.Bytes())
	attribute(&hdr, "compression", "compression", []byte{comp})

	box := make([]byte, 16)
	le.PutUint32(box[8:], uint32(width-1))
	le.PutUint32(box[12:], uint32(height-1))
	attribute(&hdr, "dataWindow", "box2i", box)
	attribute(&hdr, "displayWindow", "box2i", box)
	attribute(&hdr, "lineOrder", "lineOrder", []byte{0})
	attribute(&hdr, "pixelAspectRatio", "float", float32Bytes(1))
	attribute(&hdr, "screenWindowCenter", "v2f", append(float32Bytes(0), float32Bytes(0)...))
	attribute(&hdr, "screenWindowWidth", "float", float32Bytes(1))
	hdr.WriteByte(0)

	chunks := make([][]byte, height)
	raw := make([]byte, width*len(channels)*2)
	for y := 0; y < height; y++ {
		scanline(img, b.Min.Y+y, raw)
		data := raw
		if comp == compressionZIPS {
			z, err := zips(raw)
			if err != nil {
				return fmt.Errorf("exr: compress line %d: %w", y, err)
			}
			if len(z) < len(raw) {
				data = z
			}
		}
		chunks[y] = append([]byte(nil), data...)
	}

	offset := uint64(hdr.Len() + 8*height)
	table := make([]byte, 8*height)
	for y, c := range chunks {
		le.PutUint64(table[8*y:], offset)
		offset += uint64(8 + len(c))
	}

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("exr: write header: %w", err)
	}
	if _, err := w.Write(table); err != nil {
		return fmt.Errorf("exr: write offsets: %w", err)
	}
	head := make([]byte, 8)
	for y, c := range chunks {
		le.PutUint32(head[0:], uint32(y))
		le.PutUint32(head[4:], uint32(len(c)))
		if _, err := w.Write(head); err != nil {
			return fmt.Errorf("exr: write line %d: %w", y, err)
		}
		if _, err := w.Write(c); err != nil {
			return fmt.Errorf("exr: write line %d: %w", y, err)
		}
	}
	return nil
}

func attribute(buf *bytes.Buffer, name, typ string, value []byte) {
	buf.WriteString(name)
	buf.WriteByte(0)
	buf.WriteString(typ)
	buf.WriteByte(0)
	_ = binary.Write(buf, binary.LittleEndian, int32(len(value)))
	buf.Write(value)
}

func float32Bytes(f float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
	return b
}

// scanline packs row y as planar A, B, G, R halves.
func scanline(img image.Image, y int, out []byte) {
	b := img.Bounds()
	w := b.Dx()
	for x := 0; x < w; x++ {
		r, g, bl, a := img.At(b.Min.X+x, y).RGBA()
		var lr, lg, lb float32
		if a > 0 {
			// RGBA() is alpha-premultiplied.
			lr = linear(float64(r) / float64(a))
			lg = linear(float64(g) / float64(a))
			lb = linear(float64(bl) / float64(a))
		}
		la := float32(a) / 0xffff
		for c, v := range [4]float32{la, lb, lg, lr} {
			binary.LittleEndian.PutUint16(out[(c*w+x)*2:], float16.Fromfloat32(v).Bits())
		}
	}
}

func linear(c float64) float32 {
	if c <= 0.04045 {
		return float32(c / 12.92)
	}
	return float32(math.Pow((c+0.055)/1.055, 2.4))
}

// zips applies the EXR byte reorder and delta predictor, then zlib.
func zips(raw []byte) ([]byte, error) {
	n := len(raw)
	tmp := make([]byte, n)
	half := (n + 1) / 2
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			tmp[i/2] = raw[i]
		} else {
			tmp[half+i/2] = raw[i]
		}
	}
	prev := tmp[0]
	for i := 1; i < n; i++ {
		cur := tmp[i]
		tmp[i] = byte(int(cur) - int(prev) + 128 + 256)
		prev = cur
	}

	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(tmp); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
