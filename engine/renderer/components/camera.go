package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/voxide/engine/math"
)

// Camera represents a viewpoint used for rendering. Ideally these are
// created and managed by the camera system.
type Camera struct {
	// Position of this camera. Do not set directly; use SetPosition so the
	// view matrix is recalculated when needed.
	Position mgl32.Vec3
	// Rotation of this camera using Euler angles (pitch, yaw, roll). Do
	// not set directly; use SetEulerRotation.
	EulerRotation mgl32.Vec3
	// Internal flag used to determine when the view matrix needs to be rebuilt.
	IsDirty bool
	// Cached view matrix. Use GetView so it is recalculated when needed.
	ViewMatrix mgl32.Mat4

	// Projection parameters.
	FOVDegrees float32
	NearClip   float32
	FarClip    float32
}

// The name of the default camera.
const DEFAULT_CAMERA_NAME string = "default"

type CameraLookup struct {
	ID             uint16
	ReferenceCount uint16
	Camera         *Camera
}

func NewCamera() *Camera {
	camera := &Camera{}
	camera.Reset()
	return camera
}

func (c *Camera) Reset() {
	c.EulerRotation = mgl32.Vec3{}
	c.Position = mgl32.Vec3{}
	c.IsDirty = false
	c.ViewMatrix = mgl32.Ident4()
	c.FOVDegrees = 45.0
	c.NearClip = 0.1
	c.FarClip = 1000.0
}

func (c *Camera) GetPosition() mgl32.Vec3 {
	return c.Position
}

func (c *Camera) SetPosition(position mgl32.Vec3) {
	c.Position = position
	c.IsDirty = true
}

func (c *Camera) GetEulerRotation() mgl32.Vec3 {
	return c.EulerRotation
}

func (c *Camera) SetEulerRotation(rotation mgl32.Vec3) {
	c.EulerRotation = rotation
	c.IsDirty = true
}

func (c *Camera) GetView() mgl32.Mat4 {
	if c.IsDirty {
		rotation := c.rotation().Mat4()
		translation := mgl32.Translate3D(c.Position.X(), c.Position.Y(), c.Position.Z())

		c.ViewMatrix = translation.Mul4(rotation).Inv()
		c.IsDirty = false
	}
	return c.ViewMatrix
}

// GetProjection builds the perspective transform for the given framebuffer
// size.
func (c *Camera) GetProjection(width, height uint32) mgl32.Mat4 {
	aspect := float32(width) / float32(height)
	return mgl32.Perspective(mgl32.DegToRad(c.FOVDegrees), aspect, c.NearClip, c.FarClip)
}

func (c *Camera) rotation() mgl32.Quat {
	return mgl32.AnglesToQuat(c.EulerRotation.X(), c.EulerRotation.Y(), c.EulerRotation.Z(), mgl32.XYZ)
}

func (c *Camera) Forward() mgl32.Vec3 {
	return c.rotation().Rotate(mgl32.Vec3{0, 0, -1})
}

func (c *Camera) Backward() mgl32.Vec3 {
	return c.Forward().Mul(-1)
}

func (c *Camera) Left() mgl32.Vec3 {
	return c.Right().Mul(-1)
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.rotation().Rotate(mgl32.Vec3{1, 0, 0})
}

func (c *Camera) MoveForward(amount float32) {
	c.Position = c.Position.Add(c.Forward().Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveBackward(amount float32) {
	c.Position = c.Position.Add(c.Backward().Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveLeft(amount float32) {
	c.Position = c.Position.Add(c.Left().Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveRight(amount float32) {
	c.Position = c.Position.Add(c.Right().Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveUp(amount float32) {
	c.Position = c.Position.Add(mgl32.Vec3{0, 1, 0}.Mul(amount))
	c.IsDirty = true
}

func (c *Camera) MoveDown(amount float32) {
	c.Position = c.Position.Add(mgl32.Vec3{0, -1, 0}.Mul(amount))
	c.IsDirty = true
}

func (c *Camera) Yaw(amount float32) {
	c.EulerRotation[1] += amount
	c.IsDirty = true
}

func (c *Camera) Pitch(amount float32) {
	c.EulerRotation[0] += amount

	// Clamp to avoid Gimbal lock.
	limit := float32(1.55334306) // 89 degrees
	c.EulerRotation[0] = math.Clamp(c.EulerRotation[0], -limit, limit)

	c.IsDirty = true
}
