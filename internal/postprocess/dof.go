package postprocess

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"photo-session/internal/raster"
	"photo-session/internal/volume"
)

// DepthOfField blurs fb's color buffer in place. Each pixel is averaged over
// a box whose half-width is focus's radius at that pixel's depth, as two
// separable passes over prefix sums. A nil focus leaves fb untouched.
func DepthOfField(fb *raster.FrameBuffer, focus volume.Focus) {
	if focus == nil || fb.Width == 0 || fb.Height == 0 {
		return
	}
	w, h := fb.Width, fb.Height

	radii := make([]int32, w*h)
	blurred := false
	for i, z := range fb.ZBuf {
		depth := math.Inf(1)
		if z > 0 {
			depth = 1 / z
		}
		r := int32(focus.Radius(depth, h) + 0.5)
		radii[i] = r
		if r > 0 {
			blurred = true
		}
	}
	if !blurred {
		return
	}

	tmp := make([]uint8, len(fb.Color))
	bands(h, func(y0, y1 int) {
		sums := make([]uint32, (w+1)*4)
		for y := y0; y < y1; y++ {
			boxPass(fb.Color[y*w*4:(y+1)*w*4], tmp[y*w*4:(y+1)*w*4], radii[y*w:(y+1)*w], sums)
		}
	})

	bands(w, func(x0, x1 int) {
		sums := make([]uint32, (h+1)*4)
		col := make([]uint8, h*4)
		out := make([]uint8, h*4)
		rcol := make([]int32, h)
		for x := x0; x < x1; x++ {
			for y := 0; y < h; y++ {
				copy(col[y*4:y*4+4], tmp[(y*w+x)*4:])
				rcol[y] = radii[y*w+x]
			}
			boxPass(col, out, rcol, sums)
			for y := 0; y < h; y++ {
				copy(fb.Color[(y*w+x)*4:(y*w+x)*4+4], out[y*4:y*4+4])
			}
		}
	})
}

// boxPass averages a line of RGBA pixels over per-pixel radii.
func boxPass(src, dst []uint8, radii []int32, sums []uint32) {
	n := len(radii)
	for c := 0; c < 4; c++ {
		sums[c] = 0
	}
	for i := 0; i < n; i++ {
		for c := 0; c < 4; c++ {
			sums[(i+1)*4+c] = sums[i*4+c] + uint32(src[i*4+c])
		}
	}
	for i := 0; i < n; i++ {
		r := int(radii[i])
		if r == 0 {
			copy(dst[i*4:i*4+4], src[i*4:i*4+4])
			continue
		}
		lo := max(i-r, 0)
		hi := min(i+r, n-1) + 1
		cnt := uint32(hi - lo)
		for c := 0; c < 4; c++ {
			dst[i*4+c] = uint8((sums[hi*4+c] - sums[lo*4+c] + cnt/2) / cnt)
		}
	}
}

// bands splits [0, n) across CPUs and waits for fn to finish on every band.
func bands(n int, fn func(lo, hi int)) {
	workers := runtime.GOMAXPROCS(0)
	step := (n + workers - 1) / workers
	var g errgroup.Group
	for lo := 0; lo < n; lo += step {
		hi := min(lo+step, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	g.Wait()
}
