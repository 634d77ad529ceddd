package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// OpenGLToWgpu remaps OpenGL clip-space depth [-1,1] to the WebGPU range [0,1].
// Column-major: z' = 0.5*z + 0.5*w.
var OpenGLToWgpu = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

var (
	DefaultEye    = mgl32.Vec3{0, 0, 2}
	DefaultTarget = mgl32.Vec3{0, 0, 0}
	DefaultUp     = mgl32.Vec3{0, 1, 0}
)

const (
	DefaultFovyDegrees float32 = 45
	DefaultZNear       float32 = 0.1
	DefaultZFar        float32 = 100
)

// Camera is a right-handed look-at camera. Fovy is in radians.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
	Aspect float32
	Fovy   float32
	ZNear  float32
	ZFar   float32
}

func NewCamera(aspect float32) *Camera {
	return &Camera{
		Eye:    DefaultEye,
		Target: DefaultTarget,
		Up:     DefaultUp,
		Aspect: aspect,
		Fovy:   mgl32.DegToRad(DefaultFovyDegrees),
		ZNear:  DefaultZNear,
		ZFar:   DefaultZFar,
	}
}

// Reset puts the eye and target back at their canonical positions.
// Projection parameters are left alone.
func (c *Camera) Reset() {
	c.Eye = DefaultEye
	c.Target = DefaultTarget
}

// SetAspect updates the aspect ratio from a pixel extent.
// A zero extent is ignored and reported as false.
func (c *Camera) SetAspect(width, height uint32) bool {
	if width == 0 || height == 0 {
		return false
	}
	c.Aspect = float32(width) / float32(height)
	return true
}

// Distance returns the orbit radius |target - eye|.
func (c *Camera) Distance() float32 {
	return c.Target.Sub(c.Eye).Len()
}

// Degenerate reports whether the view direction is undefined: eye on top of
// target, or up parallel to the view direction.
func (c *Camera) Degenerate() bool {
	forward := c.Target.Sub(c.Eye)
	if forward.Len() < epsilon {
		return true
	}
	return forward.Normalize().Cross(c.Up).Len() < epsilon
}

// ViewProjection returns OpenGLToWgpu * Perspective * LookAt.
// A degenerate camera yields the depth remap alone instead of NaNs.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	if c.Degenerate() {
		return OpenGLToWgpu
	}
	view := mgl32.LookAtV(c.Eye, c.Target, c.Up)
	proj := mgl32.Perspective(c.Fovy, c.Aspect, c.ZNear, c.ZFar)
	return OpenGLToWgpu.Mul4(proj.Mul4(view))
}

// CameraUniform mirrors the vertex shader's camera binding: 16 float32 in
// column-major order.
type CameraUniform struct {
	ViewProj mgl32.Mat4
}

func NewCameraUniform() CameraUniform {
	return CameraUniform{ViewProj: mgl32.Ident4()}
}

func (u *CameraUniform) Update(c *Camera) {
	u.ViewProj = c.ViewProjection()
}

func (u CameraUniform) Floats() [16]float32 {
	return u.ViewProj
}
