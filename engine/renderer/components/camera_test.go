package components

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraIsIdentity(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, mgl32.Ident4(), c.GetView())
	assert.Equal(t, mgl32.Vec3{}, c.GetPosition())
}

func TestCameraViewFollowsPosition(t *testing.T) {
	c := NewCamera()
	c.SetPosition(mgl32.Vec3{0, 0, 10})

	view := c.GetView()
	// Viewing from +z with no rotation translates the world by -10 along z.
	expected := mgl32.Translate3D(0, 0, -10)
	assert.InDeltaSlice(t, expected[:], view[:], 1e-5)
}

func TestCameraViewIsCached(t *testing.T) {
	c := NewCamera()
	c.SetPosition(mgl32.Vec3{1, 2, 3})
	first := c.GetView()
	assert.False(t, c.IsDirty)
	assert.Equal(t, first, c.GetView())

	c.MoveUp(1)
	assert.True(t, c.IsDirty)
	assert.NotEqual(t, first, c.GetView())
}

func TestCameraForwardDefault(t *testing.T) {
	c := NewCamera()
	forward := c.Forward()
	assert.InDeltaSlice(t, []float32{0, 0, -1}, forward[:], 1e-5)
}

func TestCameraMoveForward(t *testing.T) {
	c := NewCamera()
	c.MoveForward(5)
	pos := c.GetPosition()
	assert.InDeltaSlice(t, []float32{0, 0, -5}, pos[:], 1e-5)
}

func TestCameraYawTurnsForward(t *testing.T) {
	c := NewCamera()
	c.Yaw(mgl32.DegToRad(90))
	forward := c.Forward()
	// Yawing 90 degrees left points the camera down -x.
	assert.InDeltaSlice(t, []float32{-1, 0, 0}, forward[:], 1e-5)
}

func TestCameraPitchClamped(t *testing.T) {
	c := NewCamera()
	c.Pitch(10)
	assert.InDelta(t, 1.55334306, c.GetEulerRotation().X(), 1e-5)

	c.Pitch(-20)
	assert.InDelta(t, -1.55334306, c.GetEulerRotation().X(), 1e-5)
}

func TestCameraProjectionAspect(t *testing.T) {
	c := NewCamera()
	projection := c.GetProjection(1280, 720)
	expected := mgl32.Perspective(mgl32.DegToRad(45), 1280.0/720.0, 0.1, 1000)
	assert.Equal(t, expected, projection)
}
