package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// LayerMask selects mesh layers; bit i enables layer i.
type LayerMask uint32

const (
	// Everything matches all layers.
	Everything LayerMask = 0xFFFFFFFF
	// Nothing matches no layer.
	Nothing LayerMask = 0

	// DefaultLayer is the layer index assigned to meshes without one.
	DefaultLayer = 0
	// IgnoreRaycastLayer is skipped by the default focus layer mask.
	IgnoreRaycastLayer = 2
	// LayerPlayer holds the player body.
	LayerPlayer = 8
)

// DefaultFocusMask matches everything except the ignore-raycast layer.
const DefaultFocusMask = Everything &^ (1 << IgnoreRaycastLayer)

// Contains reports whether the mask includes the layer index.
func (m LayerMask) Contains(layer int) bool {
	if layer < 0 || layer > 31 {
		return false
	}
	return m&(1<<uint(layer)) != 0
}

// Triangle is a single world-space triangle with texture coordinates.
type Triangle struct {
	V  [3]mgl64.Vec3
	UV [3]mgl64.Vec2
}

// Mesh is a named group of triangles sharing a layer, base color and texture.
type Mesh struct {
	Name    string
	Layer   int
	Color   color.NRGBA
	Texture string // texture name resolved by a texture.Resolver, may be empty
	Tris    []Triangle
	Hidden  bool // skipped by rendering and raycasts

	bounds AABB
}

// Enabled reports whether the mesh takes part in the scene.
func (m *Mesh) Enabled() bool { return !m.Hidden }

// SetEnabled shows or hides the mesh.
func (m *Mesh) SetEnabled(on bool) { m.Hidden = !on }

// Bounds returns the cached bounding box. Valid after Finalize.
func (m *Mesh) Bounds() AABB {
	return m.bounds
}

// Finalize recomputes the bounding box after the triangles changed.
func (m *Mesh) Finalize() {
	m.bounds = EmptyAABB()
	for _, t := range m.Tris {
		for _, v := range t.V {
			m.bounds = m.bounds.Extend(v)
		}
	}
}

// Viewpoint is a named camera pose stored with a scene.
type Viewpoint struct {
	Name     string
	Position mgl64.Vec3
	Yaw      float64 // degrees
	Pitch    float64 // degrees
	FOV      float64 // vertical, degrees; 0 keeps the camera's value
}

// Scene is the renderable and raycastable world.
type Scene struct {
	Name       string
	Background color.NRGBA
	Meshes     []*Mesh
	MainCamera Viewpoint
	Shots      []Viewpoint
}

// New creates an empty scene.
func New(name string) *Scene {
	return &Scene{
		Name:       name,
		Background: color.NRGBA{135, 170, 210, 255},
		MainCamera: Viewpoint{Name: "main", Position: mgl64.Vec3{0, 1.6, 6}, FOV: 60},
	}
}

// Find returns the first mesh named name.
func (s *Scene) Find(name string) (*Mesh, bool) {
	for _, m := range s.Meshes {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Add finalizes and appends meshes to the scene.
func (s *Scene) Add(meshes ...*Mesh) {
	for _, m := range meshes {
		m.Finalize()
		s.Meshes = append(s.Meshes, m)
	}
}
