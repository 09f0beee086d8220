package exr

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(2, 1, color.NRGBA{0, 0, 255, 128})
	return img
}

// unzips reverses zips.
func unzips(t *testing.T, data []byte, n int) []byte {
	t.Helper()
	zr, err := zlib.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tmp, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Len(t, tmp, n)
	for i := 1; i < n; i++ {
		tmp[i] = byte(int(tmp[i-1]) + int(tmp[i]) - 128)
	}
	raw := make([]byte, n)
	half := (n + 1) / 2
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			raw[i] = tmp[i/2]
		} else {
			raw[i] = tmp[half+i/2]
		}
	}
	return raw
}

// lines returns each scanline's raw bytes, following the offset table.
func lines(t *testing.T, file []byte, width, height int) [][]byte {
	t.Helper()
	end := bytes.Index(file, []byte("screenWindowWidth\x00float\x00"))
	require.Positive(t, end)
	tableAt := end + len("screenWindowWidth\x00float\x00") + 4 + 4 + 1
	rawLen := width * 4 * 2
	out := make([][]byte, height)
	for y := 0; y < height; y++ {
		off := binary.LittleEndian.Uint64(file[tableAt+8*y:])
		gotY := binary.LittleEndian.Uint32(file[off:])
		size := int(binary.LittleEndian.Uint32(file[off+4:]))
		require.EqualValues(t, y, gotY)
		data := file[int(off)+8 : int(off)+8+size]
		if size < rawLen {
			out[y] = unzips(t, data, rawLen)
		} else {
			out[y] = data
		}
	}
	return out
}

func half(line []byte, width, channel, x int) float32 {
	return float16.Frombits(binary.LittleEndian.Uint16(line[(channel*width+x)*2:])).Float32()
}

func TestEncodeHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testImage(), nil))
	b := buf.Bytes()

	assert.Equal(t, []byte{0x76, 0x2f, 0x31, 0x01}, b[:4])
	assert.EqualValues(t, 2, binary.LittleEndian.Uint32(b[4:]))
	assert.Contains(t, string(b), "channels\x00chlist\x00")
	assert.Contains(t, string(b), "dataWindow\x00box2i\x00")
}

func TestEncodeRoundTripsPixels(t *testing.T) {
	for _, opts := range []*Options{nil, {Uncompressed: true}} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, testImage(), opts))
		ls := lines(t, buf.Bytes(), 4, 2)

		// channel order A, B, G, R
		assert.InDelta(t, 1.0, half(ls[0], 4, 3, 0), 1e-3)
		assert.InDelta(t, 1.0, half(ls[0], 4, 0, 0), 1e-3)
		assert.InDelta(t, 1.0, half(ls[0], 4, 3, 1), 1e-3)
		assert.InDelta(t, 0.0, half(ls[0], 4, 2, 1), 1e-3)
		assert.InDelta(t, 0.0, half(ls[0], 4, 0, 3), 1e-3)
		assert.InDelta(t, 1.0, half(ls[1], 4, 1, 2), 1e-2)
		assert.InDelta(t, 128.0/255, half(ls[1], 4, 0, 2), 1e-2)
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	err := Encode(io.Discard, image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil)
	assert.Error(t, err)
}
