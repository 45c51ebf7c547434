package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"

	"github.com/spaghettifunk/voxide/engine/core"
	"github.com/spaghettifunk/voxide/engine/renderer"
)

// GLBackend implements renderer.Backend on an OpenGL 4.5 core context
// using direct state access. The context must be current on the calling
// thread before Initialize.
type GLBackend struct {
	buffers map[renderer.BufferHandle]uint64
	shaders map[renderer.ShaderHandle]bool
}

func New() *GLBackend {
	return &GLBackend{
		buffers: make(map[renderer.BufferHandle]uint64),
		shaders: make(map[renderer.ShaderHandle]bool),
	}
}

func (b *GLBackend) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("opengl initialize: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	core.LogInfo("%s running on OpenGL %s", appName, version)

	gl.Viewport(0, 0, int32(appWidth), int32(appHeight))
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	return nil
}

func (b *GLBackend) Shutdown() error {
	for handle := range b.buffers {
		id := uint32(handle)
		gl.DeleteBuffers(1, &id)
	}
	b.buffers = make(map[renderer.BufferHandle]uint64)
	for handle := range b.shaders {
		gl.DeleteProgram(uint32(handle))
	}
	b.shaders = make(map[renderer.ShaderHandle]bool)
	return nil
}

func (b *GLBackend) Resized(width, height uint16) error {
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

func (b *GLBackend) BufferCreate(size uint64) (renderer.BufferHandle, error) {
	if size == 0 {
		return 0, fmt.Errorf("buffer create: zero-sized buffer")
	}
	var id uint32
	gl.CreateBuffers(1, &id)
	gl.NamedBufferStorage(id, int(size), nil, gl.DYNAMIC_STORAGE_BIT)

	handle := renderer.BufferHandle(id)
	b.buffers[handle] = size
	return handle, nil
}

func (b *GLBackend) BufferDestroy(handle renderer.BufferHandle) {
	if _, ok := b.buffers[handle]; !ok {
		return
	}
	id := uint32(handle)
	gl.DeleteBuffers(1, &id)
	delete(b.buffers, handle)
}

func (b *GLBackend) BufferWrite(handle renderer.BufferHandle, offset uint64, data []byte) error {
	size, ok := b.buffers[handle]
	if !ok {
		return fmt.Errorf("buffer write: unknown buffer %d", handle)
	}
	if offset+uint64(len(data)) > size {
		return fmt.Errorf("buffer write: %d bytes at offset %d exceeds buffer size %d", len(data), offset, size)
	}
	if len(data) == 0 {
		return nil
	}
	gl.NamedBufferSubData(uint32(handle), int(offset), len(data), gl.Ptr(data))
	return nil
}

func (b *GLBackend) LayoutCreate(buffer renderer.BufferHandle, stride uint32, attributes []renderer.VertexAttribute) (renderer.LayoutHandle, error) {
	if err := renderer.ValidateLayout(stride, attributes); err != nil {
		return 0, err
	}

	var vao uint32
	gl.CreateVertexArrays(1, &vao)
	gl.VertexArrayVertexBuffer(vao, 0, uint32(buffer), 0, int32(stride))

	for _, attribute := range attributes {
		gl.EnableVertexArrayAttrib(vao, uint32(attribute.Slot))
		gl.VertexArrayAttribFormat(vao, uint32(attribute.Slot), int32(attribute.ElementCount), glScalarType(attribute.Type), false, uint32(attribute.Offset))
		gl.VertexArrayAttribBinding(vao, uint32(attribute.Slot), 0)
	}
	return renderer.LayoutHandle(vao), nil
}

func (b *GLBackend) LayoutDestroy(handle renderer.LayoutHandle) {
	vao := uint32(handle)
	gl.DeleteVertexArrays(1, &vao)
}

func (b *GLBackend) DrawIndirect(layout renderer.LayoutHandle, commands renderer.BufferHandle, offset uint64) error {
	gl.BindVertexArray(uint32(layout))
	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, uint32(commands))
	gl.DrawArraysIndirect(gl.TRIANGLES, gl.PtrOffset(int(offset)))
	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, 0)
	gl.BindVertexArray(0)
	return nil
}

func (b *GLBackend) ClearBuffers() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func glScalarType(t renderer.ScalarType) uint32 {
	switch t {
	case renderer.ScalarInt32:
		return gl.INT
	case renderer.ScalarFloat32:
		return gl.FLOAT
	}
	return gl.FLOAT
}
