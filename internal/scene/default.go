package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Default builds the built-in courtyard scene used when no scene file is configured.
func Default() *Scene {
	s := New("Courtyard")
	s.Add(
		Plane("ground", mgl64.Vec3{0, 0, 0}, 40, 40, 10, color.NRGBA{96, 118, 84, 255}),
		Box("crate", mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{1, 1, 1}, color.NRGBA{164, 116, 64, 255}),
		Box("pillar", mgl64.Vec3{-3, 2, -4}, mgl64.Vec3{0.8, 4, 0.8}, color.NRGBA{200, 196, 186, 255}),
		Sphere("ball", mgl64.Vec3{2, 0.75, 1}, 0.75, 24, color.NRGBA{196, 48, 52, 255}),
		Quad("wall", mgl64.Vec3{-10, 0, -12}, mgl64.Vec3{20, 0, 0}, mgl64.Vec3{0, 5, 0}, color.NRGBA{150, 130, 120, 255}),
	)
	// stand-in for the player body behind the main camera
	player := Box("player", mgl64.Vec3{0, 0.9, 6.8}, mgl64.Vec3{0.6, 1.8, 0.6}, color.NRGBA{60, 80, 160, 255})
	player.Layer = LayerPlayer
	s.Add(player)
	s.Shots = []Viewpoint{
		{Name: "front", Position: mgl64.Vec3{0, 1.6, 6}, FOV: 60},
		{Name: "low-left", Position: mgl64.Vec3{-4, 0.6, 4}, Yaw: -35, Pitch: 5, FOV: 50},
		{Name: "top", Position: mgl64.Vec3{0, 9, 0.01}, Pitch: -89, FOV: 70},
	}
	return s
}
