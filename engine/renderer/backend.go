package renderer

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Opaque device resource handles. Valid only between the corresponding
// create and destroy calls on the backend that issued them.
type (
	BufferHandle uint32
	LayoutHandle uint32
	ShaderHandle uint32
)

// DrawArraysIndirectCommand mirrors the device structure for indirect,
// non-indexed draws.
type DrawArraysIndirectCommand struct {
	Count         uint32
	InstanceCount uint32
	First         uint32
	BaseInstance  uint32
}

// DrawCommandSize is the byte size of one indirect draw command.
const DrawCommandSize = uint64(unsafe.Sizeof(DrawArraysIndirectCommand{}))

// ShaderConfig carries the sources for one shader program.
type ShaderConfig struct {
	Name           string
	VertexSource   string
	FragmentSource string
}

// Backend is the device abstraction the renderer and its batches submit
// to. All calls are synchronous and must run on the thread that owns the
// graphics context.
type Backend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint16) error

	// BufferCreate allocates an immutable-size device buffer of the given
	// byte length.
	BufferCreate(size uint64) (BufferHandle, error)
	BufferDestroy(handle BufferHandle)
	// BufferWrite updates a sub-range of a device buffer. The write must
	// lie entirely within the buffer's allocated extent.
	BufferWrite(handle BufferHandle, offset uint64, data []byte) error

	// LayoutCreate builds a vertex-layout object with every attribute
	// bound to the given geometry buffer at binding index 0.
	LayoutCreate(buffer BufferHandle, stride uint32, attributes []VertexAttribute) (LayoutHandle, error)
	LayoutDestroy(handle LayoutHandle)

	// DrawIndirect issues one triangle-list draw whose parameters live in
	// the command buffer at the given byte offset.
	DrawIndirect(layout LayoutHandle, commands BufferHandle, offset uint64) error

	ClearBuffers()

	ShaderCreate(config *ShaderConfig) (ShaderHandle, error)
	ShaderDestroy(handle ShaderHandle)
	ShaderUse(handle ShaderHandle) error
	ShaderSetUniformMat4(handle ShaderHandle, name string, value mgl32.Mat4) error
}
