package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Camera holds perspective parameters. Its view is the inverse of the
// entity's Transform, computed by CameraSystem.
type Camera struct {
	FovY   float64 // radians
	Aspect float64
	Near   float64
	Far    float64
	Active bool
}

// NewCamera returns an active 45° camera with a 16:9 aspect ratio.
func NewCamera() Camera {
	return Camera{
		FovY:   mgl64.DegToRad(45),
		Aspect: 16.0 / 9.0,
		Near:   0.1,
		Far:    1000,
		Active: true,
	}
}

// Projection returns the camera's perspective matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}
