package scene

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// fileScene matches the YAML schema of a scene description.
type fileScene struct {
	Name       string       `yaml:"name"`
	Background []uint8      `yaml:"background"`
	Camera     fileView     `yaml:"camera"`
	Objects    []fileObject `yaml:"objects"`
	Shots      []fileView   `yaml:"shots"`
}

type fileView struct {
	Name     string    `yaml:"name"`
	Position []float64 `yaml:"position"`
	Yaw      float64   `yaml:"yaw"`
	Pitch    float64   `yaml:"pitch"`
	FOV      float64   `yaml:"fov"`
}

type fileObject struct {
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"`
	Center    []float64 `yaml:"center"`
	Size      []float64 `yaml:"size"`
	Radius    float64   `yaml:"radius"`
	Segments  int       `yaml:"segments"`
	Divisions int       `yaml:"divisions"`
	Corner    []float64 `yaml:"corner"`
	EdgeU     []float64 `yaml:"edge_u"`
	EdgeV     []float64 `yaml:"edge_v"`
	Color     []uint8   `yaml:"color"`
	Texture   string    `yaml:"texture"`
	Layer     int       `yaml:"layer"`
	Hidden    bool      `yaml:"hidden"`
}

// Load reads a YAML scene description.
// The scene name defaults to the file stem.
func Load(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var fs fileScene
	if err := yaml.Unmarshal(raw, &fs); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	name := fs.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s := New(name)
	if len(fs.Background) >= 3 {
		s.Background = color.NRGBA{fs.Background[0], fs.Background[1], fs.Background[2], 255}
	}
	if len(fs.Camera.Position) > 0 {
		s.MainCamera = fs.Camera.viewpoint("main")
		if s.MainCamera.FOV == 0 {
			s.MainCamera.FOV = 60
		}
	}

	for i, o := range fs.Objects {
		m, err := o.build()
		if err != nil {
			return nil, fmt.Errorf("scene: object %d in %s: %w", i, path, err)
		}
		s.Add(m)
	}
	for i, v := range fs.Shots {
		s.Shots = append(s.Shots, v.viewpoint(fmt.Sprintf("shot%d", i)))
	}
	return s, nil
}

func (v fileView) viewpoint(fallback string) Viewpoint {
	name := v.Name
	if name == "" {
		name = fallback
	}
	return Viewpoint{
		Name:     name,
		Position: vec3(v.Position, mgl64.Vec3{}),
		Yaw:      v.Yaw,
		Pitch:    v.Pitch,
		FOV:      v.FOV,
	}
}

func (o fileObject) build() (*Mesh, error) {
	c := color.NRGBA{180, 180, 180, 255}
	if len(o.Color) >= 3 {
		c = color.NRGBA{o.Color[0], o.Color[1], o.Color[2], 255}
	}
	center := vec3(o.Center, mgl64.Vec3{})

	var m *Mesh
	switch strings.ToLower(o.Type) {
	case "plane":
		size := vec3(o.Size, mgl64.Vec3{10, 0, 10})
		if len(o.Size) == 2 {
			size = mgl64.Vec3{o.Size[0], 0, o.Size[1]}
		}
		m = Plane(o.Name, center, size[0], size[2], o.Divisions, c)
	case "box":
		m = Box(o.Name, center, vec3(o.Size, mgl64.Vec3{1, 1, 1}), c)
	case "sphere":
		r := o.Radius
		if r <= 0 {
			r = 0.5
		}
		m = Sphere(o.Name, center, r, o.Segments, c)
	case "quad":
		m = Quad(o.Name, vec3(o.Corner, center), vec3(o.EdgeU, mgl64.Vec3{1, 0, 0}), vec3(o.EdgeV, mgl64.Vec3{0, 1, 0}), c)
	default:
		return nil, fmt.Errorf("unknown object type %q", o.Type)
	}
	m.Texture = o.Texture
	m.Layer = o.Layer
	m.Hidden = o.Hidden
	return m, nil
}

func vec3(v []float64, def mgl64.Vec3) mgl64.Vec3 {
	if len(v) < 3 {
		return def
	}
	return mgl64.Vec3{v[0], v[1], v[2]}
}
