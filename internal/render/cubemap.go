package render

import (
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"photo-session/internal/camera"
	"photo-session/internal/raster"
)

// Face indexes a cubemap side.
type Face int

const (
	PosX Face = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// faceBasis holds each face's world-aligned forward and up axes.
var faceBasis = [6][2]mgl64.Vec3{
	PosX: {{1, 0, 0}, {0, 1, 0}},
	NegX: {{-1, 0, 0}, {0, 1, 0}},
	PosY: {{0, 1, 0}, {0, 0, 1}},
	NegY: {{0, -1, 0}, {0, 0, -1}},
	PosZ: {{0, 0, 1}, {0, 1, 0}},
	NegZ: {{0, 0, -1}, {0, 1, 0}},
}

// Cubemap is six square faces rendered from one point.
type Cubemap struct {
	Size  int
	Faces [6]*raster.FrameBuffer
}

// FaceRotation returns the camera rotation that looks down face f.
func FaceRotation(f Face) mgl64.Quat {
	fwd, up := faceBasis[f][0], faceBasis[f][1]
	right := fwd.Cross(up)
	m := mgl64.Mat3FromCols(right, up, fwd.Mul(-1))
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// RenderCubemap renders six 90° faces of size×size from cam's position,
// world aligned, in parallel. Faces are taken from the engine's pool and
// must be handed back with Release. A panic while rendering a face is
// returned as an error and the faces go back to the pool.
func (e *Engine) RenderCubemap(cam *camera.Camera, size int) (*Cubemap, error) {
	cm := &Cubemap{Size: size}
	base := cam.View()

	var g errgroup.Group
	for f := PosX; f <= NegZ; f++ {
		fb := e.Pool.GetTemporary(size, size)
		cm.Faces[f] = fb
		v := base
		v.Rotation = FaceRotation(f)
		v.FovY = 90
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("render: cubemap face %d: %v", f, r)
				}
			}()
			e.Raster.RenderScene(e.Scene, v, fb)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		cm.Release(e.Pool)
		return nil, err
	}
	return cm, nil
}

// Release returns the cubemap's faces to pool.
func (cm *Cubemap) Release(pool *raster.Pool) {
	for i, fb := range cm.Faces {
		pool.ReleaseTemporary(fb)
		cm.Faces[i] = nil
	}
}

// Equirect projects the cubemap onto a w×h equirectangular image. The image
// center looks down -Z, longitude grows to the right.
func (cm *Cubemap) Equirect(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	var right [6]mgl64.Vec3
	for f := range faceBasis {
		right[f] = faceBasis[f][0].Cross(faceBasis[f][1])
	}
	size := float64(cm.Size)

	for j := 0; j < h; j++ {
		theta := math.Pi/2 - (float64(j)+0.5)/float64(h)*math.Pi
		sinT, cosT := math.Sincos(theta)
		for i := 0; i < w; i++ {
			phi := (float64(i)+0.5)/float64(w)*2*math.Pi - math.Pi
			sinP, cosP := math.Sincos(phi)
			d := mgl64.Vec3{cosT * sinP, sinT, -cosT * cosP}

			best, bestDot := 0, math.Inf(-1)
			for f := range faceBasis {
				if dot := d.Dot(faceBasis[f][0]); dot > bestDot {
					best, bestDot = f, dot
				}
			}
			up := faceBasis[best][1]
			sx := (d.Dot(right[best])/bestDot + 1) / 2 * size
			sy := (1 - d.Dot(up)/bestDot) / 2 * size
			x := min(max(int(sx), 0), cm.Size-1)
			y := min(max(int(sy), 0), cm.Size-1)

			src := cm.Faces[best].Color[(y*cm.Size+x)*4:]
			copy(img.Pix[j*img.Stride+i*4:j*img.Stride+i*4+4], src[:4])
		}
	}
	return img
}
