package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamera_ViewProjectionReference(t *testing.T) {
	cam := NewCamera(1)

	// f = 1/tan(22.5deg); depth row is 0.5*(GL z row) + 0.5*(w row).
	f := float32(1 / math.Tan(math.Pi/8))
	want := [4][4]float32{
		{f, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, -1.001001, 1.9019019},
		{0, 0, -1, 2},
	}

	vp := cam.ViewProjection()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			assert.InDelta(t, want[row][col], vp.At(row, col), 1e-4, "element (%d,%d)", row, col)
		}
	}
}

func TestCamera_DepthRangeIsZeroToOne(t *testing.T) {
	cam := NewCamera(1)
	vp := cam.ViewProjection()

	near := vp.Mul4x1(mgl32.Vec4{0, 0, 2 - cam.ZNear, 1})
	far := vp.Mul4x1(mgl32.Vec4{0, 0, 2 - cam.ZFar, 1})

	assert.InDelta(t, 0, near.Z()/near.W(), 1e-4)
	assert.InDelta(t, 1, far.Z()/far.W(), 1e-4)
}

func TestCamera_Reset(t *testing.T) {
	cam := NewCamera(1.5)
	cam.Eye = mgl32.Vec3{4, -3, 9}
	cam.Target = mgl32.Vec3{1, 1, 1}
	cam.Fovy = 1.2

	cam.Reset()

	assert.Equal(t, DefaultEye, cam.Eye)
	assert.Equal(t, DefaultTarget, cam.Target)
	assert.Equal(t, float32(1.2), cam.Fovy, "reset must not touch projection")
	assert.Equal(t, float32(1.5), cam.Aspect)
}

func TestCamera_SetAspect(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
		applied       bool
		aspect        float32
	}{
		{"landscape", 800, 600, true, float32(800) / float32(600)},
		{"zero width", 0, 600, false, 1},
		{"zero height", 800, 0, false, 1},
		{"square", 512, 512, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(1)
			assert.Equal(t, tt.applied, cam.SetAspect(tt.width, tt.height))
			assert.Equal(t, tt.aspect, cam.Aspect)
		})
	}
}

func TestCamera_DegenerateDoesNotProduceNaN(t *testing.T) {
	cases := map[string]*Camera{
		"eye on target": {Eye: mgl32.Vec3{1, 1, 1}, Target: mgl32.Vec3{1, 1, 1}, Up: DefaultUp, Aspect: 1, Fovy: 1, ZNear: 0.1, ZFar: 10},
		"up parallel":   {Eye: mgl32.Vec3{0, 5, 0}, Target: mgl32.Vec3{}, Up: DefaultUp, Aspect: 1, Fovy: 1, ZNear: 0.1, ZFar: 10},
	}
	for name, cam := range cases {
		t.Run(name, func(t *testing.T) {
			require.True(t, cam.Degenerate())
			for _, v := range cam.ViewProjection() {
				assert.False(t, math.IsNaN(float64(v)))
			}
		})
	}
}

func TestCameraUniform_Update(t *testing.T) {
	u := NewCameraUniform()
	assert.Equal(t, mgl32.Ident4(), u.ViewProj)

	cam := NewCamera(4.0 / 3.0)
	u.Update(cam)

	floats := u.Floats()
	assert.Len(t, floats, 16)
	assert.Equal(t, [16]float32(cam.ViewProjection()), floats)
	// column-major: element 14 is row 2, column 3.
	assert.InDelta(t, 1.9019019, floats[14], 1e-4)
}
